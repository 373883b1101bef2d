package persona

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// Template constructs a Descriptor from a fixed base merged with caller
// overrides. The merge is shallow and override-wins: a key present in the
// overrides map replaces the base field wholesale (slice fields are not
// concatenated). The merged fields are validated like any other persona.
type Template func(overrides map[string]any) (*Descriptor, error)

func makeTemplate(base Fields) Template {
	return func(overrides map[string]any) (*Descriptor, error) {
		merged := base
		// Copy slices so a template invocation can never alias the base.
		merged.Goals = append([]string(nil), base.Goals...)
		merged.Behaviors = append([]string(nil), base.Behaviors...)

		if len(overrides) > 0 {
			if err := mapstructure.Decode(overrides, &merged); err != nil {
				return nil, fmt.Errorf("applying persona overrides: %w", err)
			}
		}

		return Define(merged)
	}
}

// FirstTimeVisitor is someone landing on the product for the first time
// with no prior context.
var FirstTimeVisitor = makeTemplate(Fields{
	Name:       "Jordan",
	Role:       "First-time visitor",
	Background: "Arrived from a search result and has never heard of the product. Forms an impression within seconds and leaves quickly if confused.",
	Goals: []string{
		"Understand what the product does within 10 seconds",
		"Find out what it costs",
		"Decide whether it is worth signing up",
	},
	Behaviors: []string{
		"Scans headlines instead of reading body copy",
		"Hesitates before clicking unfamiliar navigation",
		"Abandons the page when a next step is unclear",
	},
})

// PowerUser is an experienced user who moves fast and expects shortcuts.
var PowerUser = makeTemplate(Fields{
	Name:       "Priya",
	Role:       "Power user",
	Background: "Uses similar tools daily and has strong expectations about how things should work. Impatient with onboarding aimed at beginners.",
	Goals: []string{
		"Complete common workflows in as few clicks as possible",
		"Find advanced settings and keyboard shortcuts",
		"Verify the product integrates with existing tooling",
	},
	Behaviors: []string{
		"Uses search instead of browsing navigation",
		"Skips introductory content",
		"Notices and is annoyed by slow page loads",
	},
})

// AccessibilityUser navigates primarily with a keyboard and assistive
// technology.
var AccessibilityUser = makeTemplate(Fields{
	Name:       "Sam",
	Role:       "Accessibility-focused user",
	Background: "Relies on keyboard navigation and a screen reader. Well practiced at working around inaccessible interfaces but should not have to be.",
	Goals: []string{
		"Navigate the entire flow without a mouse",
		"Understand every image and icon through alternative text",
		"Complete forms without losing focus context",
	},
	Behaviors: []string{
		"Tabs through interactive elements in order",
		"Listens for heading structure before reading content",
		"Abandons flows that trap keyboard focus",
	},
})

// MobileShopper browses on a small screen with intermittent attention.
var MobileShopper = makeTemplate(Fields{
	Name:       "Alex",
	Role:       "Mobile shopper",
	Background: "Browses on a phone during short breaks, often on a slow connection. Comparison shops across several tabs at once.",
	Goals: []string{
		"Compare prices and options quickly",
		"Check shipping cost before creating an account",
		"Complete checkout in one sitting",
	},
	Behaviors: []string{
		"Scrolls fast and taps imprecisely",
		"Closes interstitials without reading them",
		"Gives up on forms longer than one screen",
	},
})

// SkepticalEvaluator is assessing the product on behalf of a team.
var SkepticalEvaluator = makeTemplate(Fields{
	Name:       "Morgan",
	Role:       "Skeptical evaluator",
	Background: "Evaluating the product for a team purchase and has been burned by marketing claims before. Looks for evidence, not promises.",
	Goals: []string{
		"Find concrete documentation and real examples",
		"Understand pricing including the fine print",
		"Identify what happens to data on cancellation",
	},
	Behaviors: []string{
		"Reads footers, terms, and pricing pages closely",
		"Distrusts vague superlatives in copy",
		"Cross-checks claims against external reviews",
	},
})

// Templates maps template names to their constructors, for lookup by the
// CLI and scaffolding.
var Templates = map[string]Template{
	"first-time-visitor":  FirstTimeVisitor,
	"power-user":          PowerUser,
	"accessibility-user":  AccessibilityUser,
	"mobile-shopper":      MobileShopper,
	"skeptical-evaluator": SkepticalEvaluator,
}

// TemplateNames returns the available template names in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for name := range Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
