package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/personaprobe/personaprobe/internal/errdefs"
	"github.com/personaprobe/personaprobe/internal/persona"
	"github.com/personaprobe/personaprobe/internal/projectconfig"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "jordan", false},
		{"valid with dash", "first-time-visitor", false},
		{"empty", "", true},
		{"parent traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Jordan", "jordan"},
		{"First Time Visitor", "first-time-visitor"},
		{"  Priya  ", "priya"},
		{"a_b-c d", "a-b-c-d"},
		{"Héllo!", "hllo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.input), "input %q", tt.input)
	}
}

func TestProjectYAML_ParsesIntoConfig(t *testing.T) {
	var cfg projectconfig.ProjectConfig
	require.NoError(t, yaml.Unmarshal([]byte(ProjectYAML()), &cfg))
	assert.Equal(t, projectconfig.DefaultOutputDir, cfg.Paths.Output)
	assert.Equal(t, projectconfig.DefaultModel, cfg.Analysis.Model)
}

func TestPersonaYAML_RoundtripsThroughLoader(t *testing.T) {
	data, err := PersonaYAML("first-time-visitor")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	d, err := persona.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jordan - First-time visitor", d.Identity())
}

func TestPersonaYAML_UnknownTemplate(t *testing.T) {
	_, err := PersonaYAML("nonexistent")
	var inErr *errdefs.InputError
	require.ErrorAs(t, err, &inErr)
	assert.Contains(t, inErr.Hint, "first-time-visitor")
}

func TestInitProject_CreatesSkeleton(t *testing.T) {
	dir := t.TempDir()

	created, err := InitProject(dir, "power-user")
	require.NoError(t, err)
	assert.Equal(t, []string{
		projectconfig.ConfigFileName,
		filepath.Join("personas", "power-user.yaml"),
		filepath.Join("ux-results", ".gitkeep"),
	}, created)

	for _, rel := range created {
		_, err := os.Stat(filepath.Join(dir, rel))
		assert.NoError(t, err, rel)
	}

	d, err := persona.LoadFile(filepath.Join(dir, "personas", "power-user.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Priya", d.Name())
}

func TestInitProject_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, projectconfig.ConfigFileName)
	require.NoError(t, os.WriteFile(existing, []byte("session:\n  image_format: jpeg\n"), 0o644))

	created, err := InitProject(dir, "power-user")
	require.NoError(t, err)
	assert.NotContains(t, created, projectconfig.ConfigFileName)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "jpeg")
}
