// Package wizard collects a custom persona interactively for the init
// command.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/personaprobe/personaprobe/internal/persona"
	"github.com/personaprobe/personaprobe/internal/scaffold"
)

// RunPersonaWizard runs an interactive huh form to collect persona fields.
// If initialName is non-empty, it pre-populates the name field. The result
// passes the same validation as a persona loaded from a file.
func RunPersonaWizard(in io.Reader, out io.Writer, initialName string) (*persona.Descriptor, error) {
	var (
		name         = initialName
		role         string
		background   string
		goalsRaw     string
		behaviorsRaw string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Persona name").
				Description("A short display name for the simulated user").
				Placeholder("Jordan").
				Value(&name).
				Validate(func(s string) error {
					return scaffold.ValidateName(strings.TrimSpace(s))
				}),
			huh.NewInput().
				Title("Role").
				Description("Who is this user? e.g. First-time visitor").
				Placeholder("First-time visitor").
				Value(&role).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("role is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Background").
				Description("A sentence or two of context for this user").
				Placeholder("Arrived from a search result, no prior exposure").
				Value(&background).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("background is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Goals").
				Description("Comma-separated things this user is trying to do").
				Placeholder("understand the product, find pricing").
				Value(&goalsRaw),
			huh.NewInput().
				Title("Behaviors").
				Description("Comma-separated habits that shape how they browse").
				Placeholder("scans headlines, hesitates before clicking").
				Value(&behaviorsRaw),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return persona.Define(persona.Fields{
		Name:       name,
		Role:       role,
		Background: background,
		Goals:      splitAndTrim(goalsRaw),
		Behaviors:  splitAndTrim(behaviorsRaw),
	})
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
