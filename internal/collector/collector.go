// Package collector accumulates observations, screenshots, task results,
// and session metrics during one scripted persona session, and serializes
// the whole session to a JSON artifact.
//
// A Collector is single-writer: one session is exercised by one sequential
// script, and callers must not invoke two methods of the same instance
// concurrently. Each instance is independent; nothing is shared across
// sessions.
package collector

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/personaprobe/personaprobe/internal/errdefs"
	"github.com/personaprobe/personaprobe/internal/models"
	"github.com/personaprobe/personaprobe/internal/persona"
	"github.com/personaprobe/personaprobe/internal/sessionlog"
)

//go:generate go tool mockgen -source collector.go -destination page_mock_test.go -package collector

// Page is the narrow capability interface the collector needs from the
// external page-automation collaborator. Screenshot must capture
// synchronously at the point of the call.
type Page interface {
	Screenshot() ([]byte, error)
	URL() string
	Title() string
}

// Options configures a Collector.
type Options struct {
	// OutputDir is where the artifact and screenshot files are written.
	OutputDir string
	// EmbedScreenshots controls whether captured bytes are base64-embedded
	// in the artifact in addition to being written to disk.
	EmbedScreenshots bool
	// ImageFormat is the screenshot file extension; defaults to "png".
	ImageFormat string
	// EventLog receives a typed event for every collector operation.
	// Defaults to a no-op logger.
	EventLog sessionlog.Logger
}

// Collector owns all session state for the duration of one test session.
type Collector struct {
	persona *persona.Descriptor
	opts    Options
	log     sessionlog.Logger

	metrics      models.SessionMetrics
	observations []models.Observation
	screenshots  []models.Screenshot
	tasks        []models.TaskResult

	// taskStart is the pending task start; zero means no task in flight.
	taskStart time.Time

	captureSeq int

	now func() time.Time
}

// New creates a Collector for the given persona. The session's start time
// is stamped at construction.
func New(p *persona.Descriptor, opts Options) *Collector {
	if opts.ImageFormat == "" {
		opts.ImageFormat = "png"
	}
	log := opts.EventLog
	if log == nil {
		log = sessionlog.NopLogger{}
	}

	c := &Collector{
		persona: p,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
	c.metrics = models.SessionMetrics{
		StartTime:     c.now().UTC(),
		ConsoleErrors: []string{},
	}

	c.log.Log(sessionlog.NewEvent(sessionlog.EventSessionStart, //nolint:errcheck
		sessionlog.SessionStartData(p.Identity(), opts.OutputDir)))

	return c
}

// unsafeChars matches characters that are replaced in screenshot filenames.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// sanitizeScreenshotName replaces every character outside [A-Za-z0-9_-]
// with a dash.
func sanitizeScreenshotName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "-")
	if s == "" {
		s = "screenshot"
	}
	return s
}

// whitespaceRuns matches runs of whitespace in persona names.
var whitespaceRuns = regexp.MustCompile(`\s+`)

// sanitizePersonaName lowercases the name and replaces whitespace runs with
// a single dash.
func sanitizePersonaName(name string) string {
	return whitespaceRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Capture takes a screenshot of the given page, writes the raw bytes under
// {outputDir}/screenshots/, and appends a Screenshot record. The disk write
// must complete before the record is appended; on failure nothing is
// appended and previously accumulated state is untouched.
func (c *Collector) Capture(page Page, name, context string) (*models.Screenshot, error) {
	data, err := page.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot %q: %w", name, err)
	}

	dir := filepath.Join(c.opts.OutputDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &errdefs.IOError{Op: "creating screenshots directory", Path: dir, Err: err}
	}

	c.captureSeq++
	filename := fmt.Sprintf("%s-%s-%02d.%s",
		sanitizeScreenshotName(name),
		c.now().UTC().Format("20060102-150405"),
		c.captureSeq,
		c.opts.ImageFormat,
	)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, &errdefs.IOError{Op: "writing screenshot", Path: path, Err: err}
	}

	shot := models.Screenshot{
		Name:      name,
		Context:   context,
		URL:       page.URL(),
		PageTitle: page.Title(),
		Filepath:  path,
		Timestamp: c.now().UTC(),
	}
	if c.opts.EmbedScreenshots {
		shot.EncodedImage = base64.StdEncoding.EncodeToString(data)
	}

	c.screenshots = append(c.screenshots, shot)

	c.log.Log(sessionlog.NewEvent(sessionlog.EventScreenshot, //nolint:errcheck
		sessionlog.ScreenshotData(name, shot.URL, path)))

	return &shot, nil
}

// ObservationOption sets an optional field on a recorded observation.
type ObservationOption func(*models.Observation)

// WithSeverity sets the observation's severity.
func WithSeverity(severity string) ObservationOption {
	return func(o *models.Observation) { o.Severity = severity }
}

// WithRecommendation sets the observation's recommendation.
func WithRecommendation(rec string) ObservationOption {
	return func(o *models.Observation) { o.Recommendation = rec }
}

// Record appends an observation with the current timestamp. Description and
// location are free text; no content validation is performed.
func (c *Collector) Record(t models.ObservationType, description, location string, opts ...ObservationOption) models.Observation {
	obs := models.Observation{
		Type:        t,
		Description: description,
		Location:    location,
		Timestamp:   c.now().UTC(),
	}
	for _, opt := range opts {
		opt(&obs)
	}

	c.observations = append(c.observations, obs)

	c.log.Log(sessionlog.NewEvent(sessionlog.EventObservation, //nolint:errcheck
		sessionlog.ObservationData(string(t), description, location)))

	return obs
}

// StartTask stamps the current time as the pending task start. Only one
// task may be in flight: calling StartTask again overwrites an unfinished
// pending start.
func (c *Collector) StartTask() {
	c.taskStart = c.now()
	c.log.Log(sessionlog.NewEvent(sessionlog.EventTaskStart, nil)) //nolint:errcheck
}

// FinishTask computes the duration against the pending start, appends the
// result, and clears the pending start. When no StartTask preceded the
// call, the duration is 0. That degenerate case is deliberate: the
// collector records whatever the caller tells it, so a forgotten StartTask
// yields a misleadingly fast task rather than an error.
func (c *Collector) FinishTask(name string, success bool, notes string) models.TaskResult {
	var durationMs int64
	if !c.taskStart.IsZero() {
		durationMs = c.now().Sub(c.taskStart).Milliseconds()
	}
	c.taskStart = time.Time{}

	result := models.TaskResult{
		Name:       name,
		Success:    success,
		DurationMs: durationMs,
		Notes:      notes,
	}
	c.tasks = append(c.tasks, result)

	c.log.Log(sessionlog.NewEvent(sessionlog.EventTaskComplete, //nolint:errcheck
		sessionlog.TaskCompleteData(name, success, durationMs)))

	return result
}

// TrackPageLoad increments the pages-visited counter.
func (c *Collector) TrackPageLoad() { c.metrics.PagesVisited++ }

// TrackClick increments the click counter.
func (c *Collector) TrackClick() { c.metrics.ClickCount++ }

// TrackSearch increments the search counter.
func (c *Collector) TrackSearch() { c.metrics.SearchCount++ }

// TrackBackNav increments the back-navigation counter.
func (c *Collector) TrackBackNav() { c.metrics.BackNavCount++ }

// LogConsoleError appends a console error message to the session metrics.
func (c *Collector) LogConsoleError(message string) {
	c.metrics.ConsoleErrors = append(c.metrics.ConsoleErrors, message)
	c.log.Log(sessionlog.NewEvent(sessionlog.EventConsoleError, //nolint:errcheck
		sessionlog.ConsoleErrorData(message)))
}

// Results assembles the full aggregate from current session state. The
// returned value owns its own slices and shares nothing with the collector.
// Tasks, Observations, and Screenshots are never nil, so an empty session
// serializes them as [] rather than null and the artifact stays valid
// against the schema.
func (c *Collector) Results() models.PersonaTestResults {
	metrics := c.metrics
	metrics.ConsoleErrors = append([]string(nil), c.metrics.ConsoleErrors...)
	metrics.ScreenshotsCaptured = len(c.screenshots)

	tasks := make([]models.TaskResult, len(c.tasks))
	copy(tasks, c.tasks)
	observations := make([]models.Observation, len(c.observations))
	copy(observations, c.observations)
	screenshots := make([]models.Screenshot, len(c.screenshots))
	copy(screenshots, c.screenshots)

	return models.PersonaTestResults{
		Persona:      c.persona.Identity(),
		Role:         c.persona.Role(),
		Background:   c.persona.Background(),
		Goals:        c.persona.Goals(),
		Behaviors:    c.persona.Behaviors(),
		Session:      metrics,
		Tasks:        tasks,
		Observations: observations,
		Screenshots:  screenshots,
	}
}

// Persist stamps the session end time, computes the screenshot count, and
// writes the full aggregate as formatted JSON to
// {outputDir}/{sanitized-persona-name}-observations.json, creating the
// output directory if absent. Any existing file at that path is overwritten
// without warning. Returns the path written.
func (c *Collector) Persist() (string, error) {
	c.metrics.EndTime = c.now().UTC()

	results := c.Results()

	if err := os.MkdirAll(c.opts.OutputDir, 0o755); err != nil {
		return "", &errdefs.IOError{Op: "creating output directory", Path: c.opts.OutputDir, Err: err}
	}

	filename := fmt.Sprintf("%s-observations.json", sanitizePersonaName(c.persona.Name()))
	path := filepath.Join(c.opts.OutputDir, filename)

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling results: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &errdefs.IOError{Op: "writing results file", Path: path, Err: err}
	}

	c.log.Log(sessionlog.NewEvent(sessionlog.EventSessionSaved, //nolint:errcheck
		sessionlog.SessionSavedData(path, len(c.observations), len(c.tasks), len(c.screenshots))))

	return path, nil
}

// Reset clears all accumulated observations, screenshots, tasks, and the
// pending task start, and reinitializes metrics with a fresh start time.
// The persona identity is retained: the collector outlives any one
// session's data.
func (c *Collector) Reset() {
	c.observations = nil
	c.screenshots = nil
	c.tasks = nil
	c.taskStart = time.Time{}
	c.captureSeq = 0
	c.metrics = models.SessionMetrics{
		StartTime:     c.now().UTC(),
		ConsoleErrors: []string{},
	}
	c.log.Log(sessionlog.NewEvent(sessionlog.EventSessionReset, nil)) //nolint:errcheck
}

// Persona returns the collector's persona descriptor.
func (c *Collector) Persona() *persona.Descriptor { return c.persona }

// Observations returns a copy of the recorded observations.
func (c *Collector) Observations() []models.Observation {
	return append([]models.Observation(nil), c.observations...)
}

// Screenshots returns a copy of the captured screenshot records.
func (c *Collector) Screenshots() []models.Screenshot {
	return append([]models.Screenshot(nil), c.screenshots...)
}

// Tasks returns a copy of the recorded task results.
func (c *Collector) Tasks() []models.TaskResult {
	return append([]models.TaskResult(nil), c.tasks...)
}

// Metrics returns a snapshot of the session metrics. Mutating the snapshot
// does not affect the collector.
func (c *Collector) Metrics() models.SessionMetrics {
	m := c.metrics
	m.ConsoleErrors = append([]string(nil), c.metrics.ConsoleErrors...)
	m.ScreenshotsCaptured = len(c.screenshots)
	return m
}
