package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/personaprobe/personaprobe/internal/models"
	"github.com/personaprobe/personaprobe/internal/projectconfig"
	"github.com/personaprobe/personaprobe/internal/publish"
	"github.com/personaprobe/personaprobe/internal/report"
)

func newPublishCommand() *cobra.Command {
	var (
		account   string
		container string
	)

	cmd := &cobra.Command{
		Use:   "publish <results-file>",
		Short: "Upload a session's results to Azure Blob Storage",
		Long: `Upload the session artifact, its screenshots, and a rendered HTML
report to an Azure Blob Storage container.

The artifact is gzip-compressed before upload. Blobs are grouped under a
per-session path derived from the persona identity and the publish time.
Credentials come from the ambient Azure credential chain (az login,
managed identity, or AZURE_* environment variables).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return publishCommandE(cmd, args[0], account, container)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Storage account name")
	cmd.Flags().StringVar(&container, "container", "", "Target blob container")

	return cmd
}

func publishCommandE(cmd *cobra.Command, resultsPath, account, container string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}
	if account == "" {
		account = cfg.Publish.Account
	}
	if container == "" {
		container = cfg.Publish.Container
	}

	results, err := models.Load(resultsPath)
	if err != nil {
		return err
	}

	// The HTML report is rendered fresh so the upload never ships a stale
	// copy alongside a newer artifact.
	reportPath := strings.TrimSuffix(resultsPath, ".json") + ".html"
	if err := report.WriteHTML(results, reportPath); err != nil {
		return err
	}

	items, err := publish.BuildItems(results, resultsPath, []string{reportPath}, time.Now())
	if err != nil {
		return err
	}

	client, err := publish.NewClient(account)
	if err != nil {
		return err
	}

	opts := publish.Options{Account: account, Container: container}
	if err := publish.Upload(cmd.Context(), client, opts, items); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Published %d blob(s) to %s/%s\n", //nolint:errcheck
		len(items), account, container)

	return nil
}
