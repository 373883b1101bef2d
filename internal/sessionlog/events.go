// Package sessionlog streams collector activity as newline-delimited JSON
// events, giving a live, append-only view of a session alongside the final
// artifact.
package sessionlog

import "time"

// EventType identifies the kind of session event.
type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventSessionSaved EventType = "session_saved"
	EventSessionReset EventType = "session_reset"
	EventScreenshot   EventType = "screenshot_captured"
	EventObservation  EventType = "observation_recorded"
	EventTaskStart    EventType = "task_start"
	EventTaskComplete EventType = "task_complete"
	EventConsoleError EventType = "console_error"
)

// Event is a single timestamped entry in a session log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// SessionStartData returns event data for a session start.
func SessionStartData(personaIdentity, outputDir string) map[string]any {
	return map[string]any{
		"persona":    personaIdentity,
		"output_dir": outputDir,
	}
}

// SessionSavedData returns event data for a persisted artifact.
func SessionSavedData(path string, observations, tasks, screenshots int) map[string]any {
	return map[string]any{
		"path":         path,
		"observations": observations,
		"tasks":        tasks,
		"screenshots":  screenshots,
	}
}

// ScreenshotData returns event data for a screenshot capture.
func ScreenshotData(name, url, filepath string) map[string]any {
	return map[string]any{
		"name":     name,
		"url":      url,
		"filepath": filepath,
	}
}

// ObservationData returns event data for a recorded observation.
func ObservationData(obsType, description, location string) map[string]any {
	return map[string]any{
		"obs_type":    obsType,
		"description": description,
		"location":    location,
	}
}

// TaskCompleteData returns event data for a finished task.
func TaskCompleteData(taskName string, success bool, durationMs int64) map[string]any {
	return map[string]any{
		"task_name":   taskName,
		"success":     success,
		"duration_ms": durationMs,
	}
}

// ConsoleErrorData returns event data for a logged console error.
func ConsoleErrorData(message string) map[string]any {
	return map[string]any{
		"message": message,
	}
}
