// Package publish uploads a completed session's files to Azure Blob
// Storage so results can be shared outside the machine that ran the
// session. The artifact is gzip-compressed; screenshots and the HTML
// report are uploaded as-is.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/personaprobe/personaprobe/internal/errdefs"
	"github.com/personaprobe/personaprobe/internal/models"
)

// maxConcurrentUploads bounds the number of in-flight blob uploads.
const maxConcurrentUploads = 4

// Options configures a publish run.
type Options struct {
	// Account is the storage account name; required.
	Account string
	// Container is the target blob container; required.
	Container string
	// Prefix is an optional path prepended to every blob name.
	Prefix string
}

// BlobUploader is the slice of the azblob client the publisher needs.
// *azblob.Client satisfies it.
type BlobUploader interface {
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// NewClient builds an azblob client for the given storage account using the
// ambient Azure credential chain (env vars, managed identity, az login).
func NewClient(account string) (*azblob.Client, error) {
	if account == "" {
		return nil, &errdefs.ConfigError{
			Missing: "storage account",
			Remedy:  "set publish.account in personaprobe.yaml or pass --account",
		}
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, &errdefs.ConfigError{
			Missing: "Azure credentials",
			Remedy:  "log in with az login or set the AZURE_* environment variables",
		}
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)
	client, err := azblob.NewClient(serviceURL, cred, &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Telemetry: policy.TelemetryOptions{ApplicationID: "personaprobe"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating blob client for %s: %w", account, err)
	}
	return client, nil
}

// Item is one blob to upload.
type Item struct {
	Blob string
	Data []byte
}

var blobUnsafe = regexp.MustCompile(`[^a-z0-9_-]+`)

// BlobPrefix derives the per-session blob path from the persona identity
// and the publish timestamp, e.g. "jordan-first-time-visitor/20260301T120000Z".
func BlobPrefix(personaIdentity string, ts time.Time) string {
	slug := blobUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(personaIdentity)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "session"
	}
	return path.Join(slug, ts.UTC().Format("20060102T150405Z"))
}

// BuildItems assembles the blobs for one session: the gzipped artifact,
// every screenshot file that exists on disk, and any extra files (e.g. the
// HTML report). Screenshot records whose file is missing are skipped; the
// artifact itself must be readable.
func BuildItems(results *models.PersonaTestResults, artifactPath string, extraFiles []string, ts time.Time) ([]Item, error) {
	prefix := BlobPrefix(results.Persona, ts)

	artifact, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, &errdefs.IOError{Op: "reading artifact", Path: artifactPath, Err: err}
	}
	compressed, err := gzipBytes(artifact)
	if err != nil {
		return nil, fmt.Errorf("compressing artifact: %w", err)
	}

	items := []Item{
		{Blob: path.Join(prefix, filepath.Base(artifactPath)+".gz"), Data: compressed},
	}

	for _, shot := range results.Screenshots {
		data, err := os.ReadFile(shot.Filepath)
		if err != nil {
			continue // embedded copy survives in the artifact
		}
		items = append(items, Item{
			Blob: path.Join(prefix, "screenshots", filepath.Base(shot.Filepath)),
			Data: data,
		})
	}

	for _, extra := range extraFiles {
		data, err := os.ReadFile(extra)
		if err != nil {
			return nil, &errdefs.IOError{Op: "reading publish file", Path: extra, Err: err}
		}
		items = append(items, Item{Blob: path.Join(prefix, filepath.Base(extra)), Data: data})
	}

	return items, nil
}

// Upload pushes all items concurrently and returns the first failure.
func Upload(ctx context.Context, client BlobUploader, opts Options, items []Item) error {
	if opts.Container == "" {
		return &errdefs.ConfigError{
			Missing: "blob container",
			Remedy:  "set publish.container in personaprobe.yaml or pass --container",
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for _, item := range items {
		g.Go(func() error {
			blob := path.Join(opts.Prefix, item.Blob)
			if _, err := client.UploadBuffer(ctx, opts.Container, blob, item.Data, nil); err != nil {
				return &errdefs.NetworkError{Err: fmt.Errorf("uploading %s: %w", blob, err)}
			}
			return nil
		})
	}
	return g.Wait()
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
