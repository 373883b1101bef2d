// Package scaffold generates the files laid down by personaprobe init: the
// project configuration, a starter persona, and the output directory.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/personaprobe/personaprobe/internal/errdefs"
	"github.com/personaprobe/personaprobe/internal/persona"
	"github.com/personaprobe/personaprobe/internal/projectconfig"
)

// ValidateName rejects names with path-traversal characters or empty names.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("persona name must not be empty")
	}
	cleaned := filepath.Clean(name)
	if cleaned == ".." || strings.Contains(cleaned, "/") || strings.Contains(cleaned, "\\") {
		return fmt.Errorf("persona name %q contains invalid path characters", name)
	}
	return nil
}

// Slug converts a display name to a lowercase kebab-case filename stem.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// ProjectYAML returns the default personaprobe.yaml content.
func ProjectYAML() string {
	return fmt.Sprintf(`# personaprobe project configuration.
paths:
  personas: %s
  output: %s
session:
  embed_screenshots: true
  image_format: %s
  event_log: false
analysis:
  model: %s
  max_screenshots: %d
# publish:
#   account: <storage-account-name>
#   container: %s
`,
		projectconfig.DefaultPersonasDir,
		projectconfig.DefaultOutputDir,
		projectconfig.DefaultImageFormat,
		projectconfig.DefaultModel,
		projectconfig.DefaultMaxScreenshots,
		projectconfig.DefaultPublishContainer,
	)
}

// PersonaYAML renders a persona template as a starter YAML file.
func PersonaYAML(templateName string) ([]byte, error) {
	tmpl, ok := persona.Templates[templateName]
	if !ok {
		return nil, &errdefs.InputError{
			Hint: fmt.Sprintf("unknown persona template %q (available: %s)",
				templateName, strings.Join(persona.TemplateNames(), ", ")),
		}
	}
	d, err := tmpl(nil)
	if err != nil {
		return nil, err
	}
	return persona.MarshalYAML(d.Fields())
}

// InitProject lays down the project skeleton under dir and returns the
// relative paths it created. Existing files are never overwritten; they are
// skipped and omitted from the returned list.
func InitProject(dir, personaTemplate string) ([]string, error) {
	cfg := projectconfig.New()

	personaYAML, err := PersonaYAML(personaTemplate)
	if err != nil {
		return nil, err
	}

	files := []struct {
		path    string
		content []byte
	}{
		{projectconfig.ConfigFileName, []byte(ProjectYAML())},
		{filepath.Join(cfg.Paths.Personas, personaTemplate+".yaml"), personaYAML},
		{filepath.Join(cfg.Paths.Output, ".gitkeep"), []byte{}},
	}

	var created []string
	for _, f := range files {
		target := filepath.Join(dir, f.path)
		if _, err := os.Stat(target); err == nil {
			continue // never clobber existing files
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return created, &errdefs.IOError{Op: "creating project directory", Path: filepath.Dir(target), Err: err}
		}
		if err := os.WriteFile(target, f.content, 0o644); err != nil {
			return created, &errdefs.IOError{Op: "writing project file", Path: target, Err: err}
		}
		created = append(created, f.path)
	}
	return created, nil
}
