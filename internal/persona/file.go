package persona

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/personaprobe/personaprobe/internal/errdefs"
)

// LoadFile reads a persona definition from a YAML file and validates it.
func LoadFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errdefs.IOError{Op: "reading persona file", Path: path, Err: err}
	}

	var f Fields
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &errdefs.InputError{Path: path, Hint: "not valid persona YAML", Err: err}
	}

	return Define(f)
}

// MarshalYAML renders fields as a persona YAML document, e.g. for the init
// scaffold and the wizard.
func MarshalYAML(f Fields) ([]byte, error) {
	return yaml.Marshal(f)
}
