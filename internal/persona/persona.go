// Package persona defines and validates the immutable persona descriptors
// that frame a test session, and exposes prebuilt templates for common
// user archetypes.
package persona

import (
	"fmt"
	"strings"

	"github.com/personaprobe/personaprobe/internal/errdefs"
)

// Fields holds the raw inputs for constructing a Descriptor.
type Fields struct {
	Name       string   `yaml:"name" mapstructure:"name"`
	Role       string   `yaml:"role" mapstructure:"role"`
	Background string   `yaml:"background" mapstructure:"background"`
	Goals      []string `yaml:"goals" mapstructure:"goals"`
	Behaviors  []string `yaml:"behaviors" mapstructure:"behaviors"`
}

// Descriptor is an immutable persona. Construct via Define or a template;
// accessors return copies so callers cannot mutate internal state.
type Descriptor struct {
	name       string
	role       string
	background string
	goals      []string
	behaviors  []string
}

// Define validates fields and constructs a Descriptor. All string fields and
// string-slice elements are trimmed before validation.
func Define(f Fields) (*Descriptor, error) {
	d := &Descriptor{
		name:       strings.TrimSpace(f.Name),
		role:       strings.TrimSpace(f.Role),
		background: strings.TrimSpace(f.Background),
		goals:      trimAll(f.Goals),
		behaviors:  trimAll(f.Behaviors),
	}

	switch {
	case d.name == "":
		return nil, &errdefs.ValidationError{Field: "name", Reason: "must not be empty"}
	case d.role == "":
		return nil, &errdefs.ValidationError{Field: "role", Reason: "must not be empty"}
	case d.background == "":
		return nil, &errdefs.ValidationError{Field: "background", Reason: "must not be empty"}
	case len(d.goals) == 0:
		return nil, &errdefs.ValidationError{Field: "goals", Reason: "must contain at least one entry"}
	case len(d.behaviors) == 0:
		return nil, &errdefs.ValidationError{Field: "behaviors", Reason: "must contain at least one entry"}
	}

	return d, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

// Name returns the persona's name.
func (d *Descriptor) Name() string { return d.name }

// Role returns the persona's role.
func (d *Descriptor) Role() string { return d.role }

// Background returns the persona's free-text background.
func (d *Descriptor) Background() string { return d.background }

// Goals returns a copy of the persona's ordered goals.
func (d *Descriptor) Goals() []string {
	return append([]string(nil), d.goals...)
}

// Behaviors returns a copy of the persona's ordered behaviors.
func (d *Descriptor) Behaviors() []string {
	return append([]string(nil), d.behaviors...)
}

// Identity returns the "{name} - {role}" string used as the artifact's
// persona identity.
func (d *Descriptor) Identity() string {
	return fmt.Sprintf("%s - %s", d.name, d.role)
}

// Fields returns a copy of the descriptor's fields, e.g. for serialization.
func (d *Descriptor) Fields() Fields {
	return Fields{
		Name:       d.name,
		Role:       d.role,
		Background: d.background,
		Goals:      d.Goals(),
		Behaviors:  d.Behaviors(),
	}
}
