package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personaprobe/personaprobe/internal/persona"
)

func TestInitCommand_CreatesProjectStructure(t *testing.T) {
	target := filepath.Join(t.TempDir(), "my-project")

	var buf bytes.Buffer
	cmd := newInitCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{target})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(target, "personaprobe.yaml"))
	assert.FileExists(t, filepath.Join(target, "personas", "first-time-visitor.yaml"))
	assert.DirExists(t, filepath.Join(target, "ux-results"))

	output := buf.String()
	assert.Contains(t, output, "Initialized personaprobe project")
	assert.Contains(t, output, "personaprobe.yaml")
	assert.Contains(t, output, "first-time-visitor.yaml")
}

func TestInitCommand_TemplateFlag(t *testing.T) {
	target := filepath.Join(t.TempDir(), "p")

	cmd := newInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{target, "--template", "mobile-shopper"})
	require.NoError(t, cmd.Execute())

	d, err := persona.LoadFile(filepath.Join(target, "personas", "mobile-shopper.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Alex", d.Name())
}

func TestInitCommand_UnknownTemplate(t *testing.T) {
	cmd := newInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "p"), "--template", "nope"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestInitCommand_Interactive(t *testing.T) {
	target := filepath.Join(t.TempDir(), "p")

	cmd := newInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("Riley\nReturning customer\nShops here monthly\nreorder quickly\nuses saved carts\n"))
	cmd.SetArgs([]string{target, "--interactive"})
	require.NoError(t, cmd.Execute())

	d, err := persona.LoadFile(filepath.Join(target, "personas", "riley.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Riley - Returning customer", d.Identity())
}

func TestInitCommand_DoesNotOverwriteExistingConfig(t *testing.T) {
	target := filepath.Join(t.TempDir(), "p")

	cmd1 := newInitCommand()
	cmd1.SetOut(&bytes.Buffer{})
	cmd1.SetArgs([]string{target})
	require.NoError(t, cmd1.Execute())

	var buf bytes.Buffer
	cmd2 := newInitCommand()
	cmd2.SetOut(&buf)
	cmd2.SetArgs([]string{target})
	require.NoError(t, cmd2.Execute())

	// Second run creates nothing new.
	assert.NotContains(t, buf.String(), "personaprobe.yaml")
}
