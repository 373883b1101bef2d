package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/personaprobe/personaprobe/internal/errdefs"
	"github.com/personaprobe/personaprobe/internal/models"
	"github.com/personaprobe/personaprobe/internal/report"
	"github.com/personaprobe/personaprobe/internal/validation"
)

func newReportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report <results-file>",
		Short: "Render a session artifact as a self-contained HTML report",
		Long: `Render the JSON artifact written by a collector session into a single
self-contained HTML file with embedded styling and screenshots.

The artifact is validated against the expected schema before rendering.
By default the report is written next to the input file with an .html
extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportCommandE(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Path for the HTML report")

	return cmd
}

// loadValidatedResults checks the raw artifact against the schema before
// decoding it, printing each violation to stderr. Both report and analyze
// refuse structurally bad artifacts this way.
func loadValidatedResults(cmd *cobra.Command, resultsPath string) (*models.PersonaTestResults, error) {
	data, err := os.ReadFile(resultsPath)
	if err != nil {
		return nil, &errdefs.IOError{Op: "reading results file", Path: resultsPath, Err: err}
	}

	if violations := validation.ValidateResultsBytes(data); len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v) //nolint:errcheck
		}
		return nil, &errdefs.InputError{Path: resultsPath, Hint: fmt.Sprintf("%d schema violation(s)", len(violations))}
	}

	return models.Load(resultsPath)
}

func reportCommandE(cmd *cobra.Command, resultsPath, output string) error {
	results, err := loadValidatedResults(cmd, resultsPath)
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(resultsPath, ".json") + ".html"
	}

	if err := report.WriteHTML(results, output); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.FormatDigest(results))    //nolint:errcheck
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output) //nolint:errcheck

	return nil
}
