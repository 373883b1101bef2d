package vision

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/personaprobe/personaprobe/internal/errdefs"
	"github.com/personaprobe/personaprobe/internal/models"
)

// Analyze sends the artifact to the completion API and returns the full
// Markdown report. A session with zero screenshots still produces exactly
// one text-only request.
func Analyze(ctx context.Context, results *models.PersonaTestResults, opts Options) (string, error) {
	if err := checkInput(results); err != nil {
		return "", err
	}

	resolved, err := opts.resolve()
	if err != nil {
		return "", err
	}

	req := &apiRequest{
		Model:     resolved.Model,
		MaxTokens: resolved.MaxTokens,
		System:    buildSystemPrompt(results),
		Messages: []apiMessage{
			{Role: "user", Content: buildUserContent(results, resolved.MaxScreenshots)},
		},
	}

	text, err := complete(ctx, resolved, req)
	if err != nil {
		return "", err
	}

	return renderReport(results, resolved.Model, text, time.Now().UTC()), nil
}

// WriteReport runs Analyze and writes the Markdown report to outputPath,
// overwriting any existing file. On any analysis failure no file is
// written.
func WriteReport(ctx context.Context, results *models.PersonaTestResults, outputPath string, opts Options) error {
	report, err := Analyze(ctx, results, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(report), 0o644); err != nil {
		return &errdefs.IOError{Op: "writing analysis report", Path: outputPath, Err: err}
	}
	return nil
}

// checkInput rejects artifacts that lack the shape the analysis depends
// on. A missing screenshot list distinguishes "no screenshots captured"
// (empty, fine) from "not a collector artifact" (absent).
func checkInput(results *models.PersonaTestResults) error {
	if results == nil || strings.TrimSpace(results.Persona) == "" {
		return &errdefs.InputError{Hint: "missing persona identity"}
	}
	if results.Screenshots == nil {
		return &errdefs.InputError{Hint: "missing screenshot list"}
	}
	return nil
}

// renderReport wraps the model's raw text in the fixed report scaffold.
func renderReport(results *models.PersonaTestResults, model, text string, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# UX Analysis Report: %s\n\n", results.Persona)
	fmt.Fprintf(&b, "**Background:** %s\n\n", results.Background)

	s := results.Session
	b.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Pages visited | %d |\n", s.PagesVisited)
	fmt.Fprintf(&b, "| Clicks | %d |\n", s.ClickCount)
	fmt.Fprintf(&b, "| Searches | %d |\n", s.SearchCount)
	fmt.Fprintf(&b, "| Back navigations | %d |\n", s.BackNavCount)
	fmt.Fprintf(&b, "| Screenshots captured | %d |\n", s.ScreenshotsCaptured)
	fmt.Fprintf(&b, "| Console errors | %d |\n", len(s.ConsoleErrors))
	fmt.Fprintf(&b, "| Tasks passed | %d/%d |\n", results.SuccessfulTasks(), len(results.Tasks))

	b.WriteString("\n---\n\n")
	b.WriteString(text)
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "*Generated by personaprobe using %s at %s*\n", model, generatedAt.Format(time.RFC3339))

	return b.String()
}
