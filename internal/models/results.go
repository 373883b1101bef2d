// Package models defines the persisted data model for a persona test
// session. The JSON artifact written by the collector is the sole durable
// interchange format; the report renderer and the vision analysis client
// both consume it.
package models

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/personaprobe/personaprobe/internal/errdefs"
)

// ObservationType categorizes a recorded observation.
type ObservationType string

const (
	ObservationSuccess     ObservationType = "success"
	ObservationNote        ObservationType = "note"
	ObservationConfusion   ObservationType = "confusion"
	ObservationFrustration ObservationType = "frustration"
)

// ObservationTypes lists all types in display order.
var ObservationTypes = []ObservationType{
	ObservationSuccess,
	ObservationNote,
	ObservationConfusion,
	ObservationFrustration,
}

// Observation is a single timestamped, categorized note recorded during a
// session. Append-only; never mutated after creation.
type Observation struct {
	Type           ObservationType `json:"type"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	Timestamp      time.Time       `json:"timestamp"`
	Severity       string          `json:"severity,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
}

// Screenshot records one capture. EncodedImage holds a base64 encoding of
// the raw bytes and may be empty when embedding is disabled; Filepath points
// at the raw bytes written to disk at capture time.
type Screenshot struct {
	Name         string    `json:"name"`
	Context      string    `json:"context"`
	URL          string    `json:"url"`
	PageTitle    string    `json:"pageTitle"`
	Filepath     string    `json:"filepath"`
	EncodedImage string    `json:"encodedImage,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// TaskResult is the outcome of one scripted task. DurationMs is the
// wall-clock delta between StartTask and FinishTask; 0 when no start was
// recorded.
type TaskResult struct {
	Name       string `json:"name"`
	Success    bool   `json:"success"`
	DurationMs int64  `json:"durationMs"`
	Notes      string `json:"notes"`
}

// SessionMetrics holds the per-session counters. All counters are monotonic
// non-negative and incremented by exactly one per tracking call.
type SessionMetrics struct {
	StartTime           time.Time `json:"startTime"`
	EndTime             time.Time `json:"endTime,omitzero"`
	PagesVisited        int       `json:"pagesVisited"`
	ClickCount          int       `json:"clickCount"`
	SearchCount         int       `json:"searchCount"`
	BackNavCount        int       `json:"backNavCount"`
	ConsoleErrors       []string  `json:"consoleErrors"`
	ScreenshotsCaptured int       `json:"screenshotsCaptured"`
}

// PersonaTestResults is the root aggregate persisted to storage.
// Persona is the identity string "{name} - {role}". Summary is populated by
// a separate analysis pass, never by the collector, and may be absent.
type PersonaTestResults struct {
	Persona      string         `json:"persona"`
	Role         string         `json:"role"`
	Background   string         `json:"background"`
	Goals        []string       `json:"goals"`
	Behaviors    []string       `json:"behaviors"`
	Session      SessionMetrics `json:"session"`
	Tasks        []TaskResult   `json:"tasks"`
	Observations []Observation  `json:"observations"`
	Screenshots  []Screenshot   `json:"screenshots"`
	Summary      string         `json:"summary,omitempty"`
}

// ObservationCounts returns the number of observations per type. All four
// buckets are always present.
func (r *PersonaTestResults) ObservationCounts() map[ObservationType]int {
	counts := make(map[ObservationType]int, len(ObservationTypes))
	for _, t := range ObservationTypes {
		counts[t] = 0
	}
	for _, o := range r.Observations {
		counts[o.Type]++
	}
	return counts
}

// SuccessfulTasks returns the number of tasks that succeeded.
func (r *PersonaTestResults) SuccessfulTasks() int {
	n := 0
	for _, t := range r.Tasks {
		if t.Success {
			n++
		}
	}
	return n
}

// TaskSuccessRate returns round(100 * successful / total), or 0 when the
// session recorded no tasks.
func (r *PersonaTestResults) TaskSuccessRate() int {
	if len(r.Tasks) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(r.SuccessfulTasks()) / float64(len(r.Tasks))))
}

// Load reads and decodes a persisted artifact. Read failures surface as
// IOError, decode failures as InputError with a hint about the expected
// shape.
func Load(path string) (*PersonaTestResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errdefs.IOError{Op: "reading results file", Path: path, Err: err}
	}

	var results PersonaTestResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, &errdefs.InputError{Path: path, Hint: "not valid JSON", Err: err}
	}

	return &results, nil
}
