package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/personaprobe/personaprobe/internal/persona"
	"github.com/personaprobe/personaprobe/internal/scaffold"
	"github.com/personaprobe/personaprobe/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var (
		interactive bool
		template    string
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new personaprobe project",
		Long: `Initialize a project directory for persona-driven UX testing.

Creates a personaprobe.yaml config file, a personas/ directory with a
starter persona, and the output directory for session artifacts.

Use --template to pick which prebuilt persona to scaffold, and
--interactive to define a custom persona through a guided wizard.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive, template)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run guided persona creation wizard")
	cmd.Flags().StringVarP(&template, "template", "t", "first-time-visitor",
		fmt.Sprintf("Persona template to scaffold (%s)", strings.Join(persona.TemplateNames(), ", ")))

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool, template string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	created, err := scaffold.InitProject(dir, template)
	if err != nil {
		return err
	}

	if interactive {
		d, err := wizard.RunPersonaWizard(cmd.InOrStdin(), cmd.OutOrStdout(), "")
		if err != nil {
			return err
		}

		data, err := persona.MarshalYAML(d.Fields())
		if err != nil {
			return fmt.Errorf("failed to marshal persona: %w", err)
		}

		rel := filepath.Join("personas", scaffold.Slug(d.Name())+".yaml")
		if err := os.WriteFile(filepath.Join(dir, rel), data, 0o644); err != nil {
			return fmt.Errorf("failed to write persona file: %w", err)
		}
		created = append(created, rel)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized personaprobe project in %s\n", dir) //nolint:errcheck
	for _, rel := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", rel) //nolint:errcheck
	}

	return nil
}
