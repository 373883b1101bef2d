// Package report renders a persisted session artifact as a single
// self-contained HTML document: no external assets, no network calls, all
// screenshot bytes embedded inline as data URIs.
package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/personaprobe/personaprobe/internal/errdefs"
	"github.com/personaprobe/personaprobe/internal/models"
)

// typeBadges maps observation types to their badge colors.
var typeBadges = map[models.ObservationType]string{
	models.ObservationSuccess:     "#2e7d32",
	models.ObservationNote:        "#1565c0",
	models.ObservationConfusion:   "#ef6c00",
	models.ObservationFrustration: "#c62828",
}

// esc escapes the five HTML-special characters in user-supplied free text.
func esc(s string) string {
	return html.EscapeString(s)
}

// mediaType maps a screenshot file extension to its image media type.
func mediaType(path string) string {
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

// RenderHTML renders the artifact as a complete HTML document. Output is
// deterministic for identical input, except for the generation timestamp in
// the footer.
func RenderHTML(results *models.PersonaTestResults) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>UX Report: %s</title>\n", esc(results.Persona))
	b.WriteString("<style>\n")
	b.WriteString(styleSheet)
	b.WriteString("</style>\n</head>\n<body>\n")

	writeHeader(&b, results)
	writeMetrics(&b, results)
	writeObservationSummary(&b, results)
	writeTasks(&b, results)
	writeObservations(&b, results)
	writeScreenshots(&b, results)
	writeSummary(&b, results)

	fmt.Fprintf(&b, "<footer>Generated by personaprobe at %s</footer>\n",
		time.Now().UTC().Format(time.RFC3339))
	b.WriteString("</body>\n</html>\n")

	return b.String()
}

func writeHeader(b *strings.Builder, results *models.PersonaTestResults) {
	fmt.Fprintf(b, "<header>\n<h1>%s</h1>\n", esc(results.Persona))
	fmt.Fprintf(b, "<p class=\"background\">%s</p>\n", esc(results.Background))

	if len(results.Goals) > 0 {
		b.WriteString("<h2>Goals</h2>\n<ul>\n")
		for _, g := range results.Goals {
			fmt.Fprintf(b, "<li>%s</li>\n", esc(g))
		}
		b.WriteString("</ul>\n")
	}
	if len(results.Behaviors) > 0 {
		b.WriteString("<h2>Behaviors</h2>\n<ul>\n")
		for _, bh := range results.Behaviors {
			fmt.Fprintf(b, "<li>%s</li>\n", esc(bh))
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</header>\n")
}

func writeMetrics(b *strings.Builder, results *models.PersonaTestResults) {
	s := results.Session

	b.WriteString("<section>\n<h2>Session Metrics</h2>\n<div class=\"metrics\">\n")
	writeMetricCard(b, "Pages visited", fmt.Sprintf("%d", s.PagesVisited))
	writeMetricCard(b, "Clicks", fmt.Sprintf("%d", s.ClickCount))
	writeMetricCard(b, "Searches", fmt.Sprintf("%d", s.SearchCount))
	writeMetricCard(b, "Back navigations", fmt.Sprintf("%d", s.BackNavCount))
	writeMetricCard(b, "Screenshots", fmt.Sprintf("%d", s.ScreenshotsCaptured))
	writeMetricCard(b, "Console errors", fmt.Sprintf("%d", len(s.ConsoleErrors)))
	if !s.EndTime.IsZero() && !s.StartTime.IsZero() {
		writeMetricCard(b, "Duration", s.EndTime.Sub(s.StartTime).Round(time.Second).String())
	}
	b.WriteString("</div>\n")

	if len(s.ConsoleErrors) > 0 {
		b.WriteString("<details>\n<summary>Console errors</summary>\n<ul>\n")
		for _, e := range s.ConsoleErrors {
			fmt.Fprintf(b, "<li><code>%s</code></li>\n", esc(e))
		}
		b.WriteString("</ul>\n</details>\n")
	}
	b.WriteString("</section>\n")
}

func writeMetricCard(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<div class=\"card\"><span class=\"value\">%s</span><span class=\"label\">%s</span></div>\n",
		esc(value), esc(label))
}

func writeObservationSummary(b *strings.Builder, results *models.PersonaTestResults) {
	counts := results.ObservationCounts()

	b.WriteString("<section>\n<h2>Observations</h2>\n<div class=\"badges\">\n")
	for _, t := range models.ObservationTypes {
		fmt.Fprintf(b, "<span class=\"badge\" style=\"background:%s\">%s: %d</span>\n",
			typeBadges[t], esc(string(t)), counts[t])
	}
	b.WriteString("</div>\n</section>\n")
}

func writeTasks(b *strings.Builder, results *models.PersonaTestResults) {
	b.WriteString("<section>\n<h2>Tasks</h2>\n")
	fmt.Fprintf(b, "<p class=\"rate\">Success rate: %d%%</p>\n", results.TaskSuccessRate())

	if len(results.Tasks) == 0 {
		b.WriteString("<p>No tasks recorded.</p>\n</section>\n")
		return
	}

	b.WriteString("<table>\n<thead><tr><th>Task</th><th>Result</th><th>Duration</th><th>Notes</th></tr></thead>\n<tbody>\n")
	for _, task := range results.Tasks {
		result := "&#10007; failed"
		if task.Success {
			result = "&#10003; passed"
		}
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%.1fs</td><td>%s</td></tr>\n",
			esc(task.Name), result, float64(task.DurationMs)/1000.0, esc(task.Notes))
	}
	b.WriteString("</tbody>\n</table>\n</section>\n")
}

func writeObservations(b *strings.Builder, results *models.PersonaTestResults) {
	if len(results.Observations) == 0 {
		return
	}

	b.WriteString("<section>\n<h2>Observation Log</h2>\n<ol class=\"observations\">\n")
	for _, o := range results.Observations {
		fmt.Fprintf(b, "<li class=\"obs obs-%s\">\n", esc(string(o.Type)))
		fmt.Fprintf(b, "<span class=\"badge\" style=\"background:%s\">%s</span>\n",
			typeBadges[o.Type], esc(string(o.Type)))
		fmt.Fprintf(b, "<p>%s</p>\n<p class=\"location\">%s</p>\n", esc(o.Description), esc(o.Location))
		if o.Severity != "" {
			fmt.Fprintf(b, "<p class=\"severity\">Severity: %s</p>\n", esc(o.Severity))
		}
		if o.Recommendation != "" {
			fmt.Fprintf(b, "<p class=\"recommendation\">Recommendation: %s</p>\n", esc(o.Recommendation))
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n</section>\n")
}

func writeScreenshots(b *strings.Builder, results *models.PersonaTestResults) {
	if len(results.Screenshots) == 0 {
		return
	}

	b.WriteString("<section>\n<h2>Screenshots</h2>\n<div class=\"gallery\">\n")
	for _, s := range results.Screenshots {
		b.WriteString("<figure>\n")
		if s.EncodedImage != "" {
			fmt.Fprintf(b, "<img src=\"data:%s;base64,%s\" alt=\"%s\">\n",
				mediaType(s.Filepath), s.EncodedImage, esc(s.Name))
		} else {
			// Captured with embedding disabled; only the on-disk path is known.
			fmt.Fprintf(b, "<p class=\"missing\">image not embedded (%s)</p>\n", esc(s.Filepath))
		}
		fmt.Fprintf(b, "<figcaption><strong>%s</strong> &mdash; %s<br><a href=\"%s\">%s</a></figcaption>\n",
			esc(s.Name), esc(s.Context), esc(s.URL), esc(s.URL))
		b.WriteString("</figure>\n")
	}
	b.WriteString("</div>\n</section>\n")
}

// writeSummary renders the optional analysis summary (Markdown produced by
// the analyze command) into the document. Raw HTML inside the Markdown is
// escaped by goldmark's default renderer, so observation content cannot
// inject markup through this path either.
func writeSummary(b *strings.Builder, results *models.PersonaTestResults) {
	if results.Summary == "" {
		return
	}

	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(results.Summary), &buf); err != nil {
		// Fall back to the escaped raw text rather than dropping the summary.
		fmt.Fprintf(b, "<section>\n<h2>Analysis Summary</h2>\n<pre>%s</pre>\n</section>\n", esc(results.Summary))
		return
	}

	b.WriteString("<section>\n<h2>Analysis Summary</h2>\n")
	b.Write(buf.Bytes())
	b.WriteString("</section>\n")
}

// WriteHTML renders the artifact and writes it to path.
func WriteHTML(results *models.PersonaTestResults, path string) error {
	if err := os.WriteFile(path, []byte(RenderHTML(results)), 0o644); err != nil {
		return &errdefs.IOError{Op: "writing report", Path: path, Err: err}
	}
	return nil
}

const styleSheet = `body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:960px;padding:0 1rem;color:#222}
header{border-bottom:2px solid #eee;padding-bottom:1rem}
h1{margin-bottom:.25rem}
.background{color:#555}
.metrics{display:flex;flex-wrap:wrap;gap:.75rem}
.card{border:1px solid #ddd;border-radius:8px;padding:.75rem 1.25rem;text-align:center}
.card .value{display:block;font-size:1.5rem;font-weight:600}
.card .label{color:#777;font-size:.8rem}
.badges{display:flex;gap:.5rem}
.badge{color:#fff;border-radius:999px;padding:.15rem .7rem;font-size:.8rem}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #ddd;padding:.5rem;text-align:left}
.rate{font-weight:600}
.observations li{margin:.75rem 0;border-left:3px solid #ddd;padding-left:.75rem;list-style:none}
.location{color:#777;font-size:.85rem}
.gallery{display:grid;grid-template-columns:repeat(auto-fill,minmax(280px,1fr));gap:1rem}
.gallery img{width:100%;border:1px solid #ddd;border-radius:4px}
figcaption{font-size:.85rem;color:#555}
footer{margin-top:2rem;border-top:1px solid #eee;padding-top:.5rem;color:#999;font-size:.8rem}
`
