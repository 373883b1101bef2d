package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personaprobe/personaprobe/internal/errdefs"
)

func validFields() Fields {
	return Fields{
		Name:       "Casey",
		Role:       "Researcher",
		Background: "Compares tools for a living.",
		Goals:      []string{"find pricing"},
		Behaviors:  []string{"reads everything"},
	}
}

func TestDefine_Valid(t *testing.T) {
	d, err := Define(validFields())
	require.NoError(t, err)

	assert.Equal(t, "Casey", d.Name())
	assert.Equal(t, "Researcher", d.Role())
	assert.Equal(t, "Casey - Researcher", d.Identity())
	assert.Equal(t, []string{"find pricing"}, d.Goals())
	assert.Equal(t, []string{"reads everything"}, d.Behaviors())
}

func TestDefine_TrimsFields(t *testing.T) {
	f := validFields()
	f.Name = "  Casey\t"
	f.Role = " Researcher "
	f.Background = "\n bg \n"
	f.Goals = []string{"  find pricing  "}
	f.Behaviors = []string{" reads everything "}

	d, err := Define(f)
	require.NoError(t, err)
	assert.Equal(t, "Casey", d.Name())
	assert.Equal(t, "Researcher", d.Role())
	assert.Equal(t, "bg", d.Background())
	assert.Equal(t, []string{"find pricing"}, d.Goals())
	assert.Equal(t, []string{"reads everything"}, d.Behaviors())
}

func TestDefine_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fields)
		field  string
	}{
		{"empty name", func(f *Fields) { f.Name = "" }, "name"},
		{"whitespace name", func(f *Fields) { f.Name = "   " }, "name"},
		{"empty role", func(f *Fields) { f.Role = "\t" }, "role"},
		{"empty background", func(f *Fields) { f.Background = "" }, "background"},
		{"nil goals", func(f *Fields) { f.Goals = nil }, "goals"},
		{"empty goals", func(f *Fields) { f.Goals = []string{} }, "goals"},
		{"nil behaviors", func(f *Fields) { f.Behaviors = nil }, "behaviors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)

			_, err := Define(f)
			var vErr *errdefs.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestDescriptor_AccessorsReturnCopies(t *testing.T) {
	d, err := Define(validFields())
	require.NoError(t, err)

	goals := d.Goals()
	goals[0] = "mutated"
	assert.Equal(t, []string{"find pricing"}, d.Goals())

	behaviors := d.Behaviors()
	behaviors[0] = "mutated"
	assert.Equal(t, []string{"reads everything"}, d.Behaviors())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persona.yaml")
	content := `name: Robin
role: Analyst
background: Works with dashboards all day.
goals:
  - export a report
behaviors:
  - uses keyboard shortcuts
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Robin - Analyst", d.Identity())
	assert.Equal(t, []string{"export a report"}, d.Goals())
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	var ioErr *errdefs.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestLoadFile_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0o644))

	_, err := LoadFile(path)
	var inErr *errdefs.InputError
	assert.ErrorAs(t, err, &inErr)
}
