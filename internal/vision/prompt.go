package vision

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/personaprobe/personaprobe/internal/models"
)

// buildSystemPrompt embeds the persona's full descriptor and the analysis
// task definition.
func buildSystemPrompt(results *models.PersonaTestResults) string {
	var b strings.Builder

	b.WriteString("You are a senior UX researcher reviewing screenshots from a scripted usability session.\n\n")
	fmt.Fprintf(&b, "The session was performed as the persona %q.\n", results.Persona)
	fmt.Fprintf(&b, "Background: %s\n", results.Background)

	if len(results.Goals) > 0 {
		b.WriteString("Goals:\n")
		for _, g := range results.Goals {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}
	if len(results.Behaviors) > 0 {
		b.WriteString("Behaviors:\n")
		for _, bh := range results.Behaviors {
			fmt.Fprintf(&b, "- %s\n", bh)
		}
	}

	b.WriteString(`
Analyze every screenshot through this persona's eyes. Cover all five of:
1. UX issues: friction, unclear affordances, missing feedback.
2. Accessibility: contrast, target sizes, text alternatives, keyboard paths.
3. Design consistency: typography, spacing, component reuse across pages.
4. Goal achievability: can this persona accomplish each stated goal?
5. Recommendations: concrete, prioritized changes.

Respond in Markdown with: an executive summary, a per-screenshot analysis,
a prioritized recommendation list, and an overall letter grade (A-F) with a
one-line justification.`)

	return b.String()
}

// buildUserContent interleaves each forwarded screenshot's image with a
// text block naming it, then appends the recorded observations and task
// outcomes for the model to validate and extend.
func buildUserContent(results *models.PersonaTestResults, maxScreenshots int) []contentBlock {
	shots := results.Screenshots
	if len(shots) > maxScreenshots {
		shots = shots[:maxScreenshots]
	}

	var blocks []contentBlock
	for i, s := range shots {
		if s.EncodedImage != "" {
			blocks = append(blocks, contentBlock{
				Type: "image",
				Source: &imageSource{
					Type:      "base64",
					MediaType: screenshotMediaType(s.Filepath),
					Data:      s.EncodedImage,
				},
			})
		}
		blocks = append(blocks, contentBlock{
			Type: "text",
			Text: fmt.Sprintf("Screenshot %d: %s\nContext: %s\nURL: %s", i+1, s.Name, s.Context, s.URL),
		})
	}

	var tail strings.Builder
	tail.WriteString(formatObservationLog(results))
	tail.WriteString("\n")
	tail.WriteString(formatTaskLog(results))
	tail.WriteString("\nValidate these observations against the screenshots and extend them where the persona would have struggled.")
	blocks = append(blocks, contentBlock{Type: "text", Text: tail.String()})

	return blocks
}

// formatObservationLog renders prior observations grouped by type, with the
// type uppercased.
func formatObservationLog(results *models.PersonaTestResults) string {
	var b strings.Builder
	b.WriteString("Observations recorded during the session:\n")

	if len(results.Observations) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}

	for _, t := range models.ObservationTypes {
		for _, o := range results.Observations {
			if o.Type != t {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s (%s)\n", strings.ToUpper(string(t)), o.Description, o.Location)
		}
	}
	return b.String()
}

// formatTaskLog renders task outcomes with durations in seconds to one
// decimal place.
func formatTaskLog(results *models.PersonaTestResults) string {
	var b strings.Builder
	b.WriteString("Task outcomes:\n")

	if len(results.Tasks) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}

	for _, task := range results.Tasks {
		status := "FAILED"
		if task.Success {
			status = "PASSED"
		}
		fmt.Fprintf(&b, "- %s: %s in %.1fs", task.Name, status, float64(task.DurationMs)/1000.0)
		if task.Notes != "" {
			fmt.Fprintf(&b, " (%s)", task.Notes)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func screenshotMediaType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
