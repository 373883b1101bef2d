package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/personaprobe/personaprobe/internal/models"
)

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// FormatDigest renders a short terminal summary of the artifact: persona,
// observation counts by type, task success rate, and session counters.
func FormatDigest(results *models.PersonaTestResults) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Persona:  %s\n", results.Persona)
	fmt.Fprintf(&b, "Tasks:    %d total, %d passed (%d%%)\n",
		len(results.Tasks), results.SuccessfulTasks(), results.TaskSuccessRate())

	counts := results.ObservationCounts()
	rows := make([][2]string, 0, len(models.ObservationTypes))
	labelWidth := 0
	for _, t := range models.ObservationTypes {
		label := string(t)
		if w := runewidth.StringWidth(label); w > labelWidth {
			labelWidth = w
		}
		rows = append(rows, [2]string{label, fmt.Sprintf("%d", counts[t])})
	}

	b.WriteString("Observations:\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s %s\n", padRight(row[0], labelWidth), row[1])
	}

	s := results.Session
	fmt.Fprintf(&b, "Session:  %d pages, %d clicks, %d searches, %d back, %d console errors\n",
		s.PagesVisited, s.ClickCount, s.SearchCount, s.BackNavCount, len(s.ConsoleErrors))
	fmt.Fprintf(&b, "Captures: %d screenshot(s)\n", s.ScreenshotsCaptured)

	return b.String()
}
