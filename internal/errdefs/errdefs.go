// Package errdefs defines the typed errors shared across the pipeline.
// Every error here is terminal for the invoking command: no retries are
// attempted anywhere, and no partial output artifact is produced after a
// failure. The CLI maps these types to exit codes and remediation lines.
package errdefs

import "fmt"

// Remediator is implemented by errors that can suggest a fix. The CLI
// prints the remediation on its own line after the diagnosis.
type Remediator interface {
	Remediation() string
}

// ValidationError indicates malformed persona input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid persona: %s %s", e.Field, e.Reason)
}

// IOError indicates a filesystem read or write failure. Path carries the
// file or directory the operation was against.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// InputError indicates a malformed or incompatible persisted artifact.
type InputError struct {
	Path string
	Hint string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed results: %s", e.Hint)
	}
	return fmt.Sprintf("malformed results file %s: %s", e.Path, e.Hint)
}

func (e *InputError) Unwrap() error { return e.Err }

func (e *InputError) Remediation() string {
	return "Expected a JSON artifact produced by a collector session (persona, session, tasks, observations, screenshots)."
}

// ConfigError indicates a missing required credential or setting.
type ConfigError struct {
	Missing string
	Remedy  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}

func (e *ConfigError) Remediation() string { return e.Remedy }

// NetworkError indicates a transport-level failure calling the external API.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Remediation() string {
	return "Check your network connection and try again."
}

// APIError indicates a non-success response from the external API.
type APIError struct {
	StatusCode int
	Message    string
	Hint       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Remediation() string { return e.Hint }
