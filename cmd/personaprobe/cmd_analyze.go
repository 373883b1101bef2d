package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/personaprobe/personaprobe/internal/projectconfig"
	"github.com/personaprobe/personaprobe/internal/vision"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		apiKey         string
		output         string
		model          string
		maxScreenshots int
	)

	cmd := &cobra.Command{
		Use:   "analyze <results-file>",
		Short: "Analyze a session artifact with a vision model",
		Long: `Send the session artifact, including captured screenshots, to a vision
model and write a Markdown report with UX findings graded from the
persona's point of view.

The API key is taken from --api-key or the ` + vision.APIKeyEnv + `
environment variable. By default the report is written next to the input
file as <name>-analysis.md.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeCommandE(cmd, args[0], apiKey, output, model, maxScreenshots)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Vision API key")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Path for the Markdown report")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Vision model to use")
	cmd.Flags().IntVar(&maxScreenshots, "max-screenshots", 0, "Maximum screenshots to send")

	return cmd
}

func analyzeCommandE(cmd *cobra.Command, resultsPath, apiKey, output, model string, maxScreenshots int) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	results, err := loadValidatedResults(cmd, resultsPath)
	if err != nil {
		return err
	}

	if model == "" {
		model = cfg.Analysis.Model
	}
	if maxScreenshots == 0 {
		maxScreenshots = cfg.Analysis.MaxScreenshots
	}
	if output == "" {
		output = strings.TrimSuffix(resultsPath, ".json") + "-analysis.md"
	}

	opts := vision.Options{
		APIKey:         apiKey,
		BaseURL:        cfg.Analysis.BaseURL,
		Model:          model,
		MaxScreenshots: maxScreenshots,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Analyzing %d screenshot(s) with %s...\n", //nolint:errcheck
		len(results.Screenshots), model)

	if err := vision.WriteReport(cmd.Context(), results, output, opts); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Analysis written to %s\n", output) //nolint:errcheck

	return nil
}
