package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personaprobe/personaprobe/internal/errdefs"
	"github.com/personaprobe/personaprobe/internal/models"
)

type fakeUploader struct {
	mu    sync.Mutex
	blobs map[string][]byte
	fail  string // blob suffix that triggers a failure
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{blobs: map[string][]byte{}}
}

func (f *fakeUploader) UploadBuffer(_ context.Context, container, blob string, data []byte, _ *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != "" && strings.HasSuffix(blob, f.fail) {
		return azblob.UploadBufferResponse{}, errors.New("upload refused")
	}
	f.blobs[container+"/"+blob] = data
	return azblob.UploadBufferResponse{}, nil
}

func (f *fakeUploader) blobNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.blobs))
	for name := range f.blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestBlobPrefix(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		identity string
		want     string
	}{
		{"Jordan - First-time visitor", "jordan-first-time-visitor/20260301T120000Z"},
		{"  Priya  ", "priya/20260301T120000Z"},
		{"///", "session/20260301T120000Z"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BlobPrefix(tt.identity, ts), "identity %q", tt.identity)
	}
}

func TestBuildItems(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "jordan-observations.json")
	require.NoError(t, os.WriteFile(artifact, []byte(`{"persona":"x"}`), 0o644))

	shotPath := filepath.Join(dir, "home-01.png")
	require.NoError(t, os.WriteFile(shotPath, []byte("png-bytes"), 0o644))

	report := filepath.Join(dir, "report.html")
	require.NoError(t, os.WriteFile(report, []byte("<html></html>"), 0o644))

	results := &models.PersonaTestResults{
		Persona: "Jordan - First-time visitor",
		Screenshots: []models.Screenshot{
			{Name: "home", Filepath: shotPath},
			{Name: "gone", Filepath: filepath.Join(dir, "missing.png")},
		},
	}

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items, err := BuildItems(results, artifact, []string{report}, ts)
	require.NoError(t, err)

	// Artifact, one surviving screenshot, and the report. The missing
	// screenshot file is skipped.
	require.Len(t, items, 3)
	assert.Equal(t, "jordan-first-time-visitor/20260301T120000Z/jordan-observations.json.gz", items[0].Blob)
	assert.Equal(t, "jordan-first-time-visitor/20260301T120000Z/screenshots/home-01.png", items[1].Blob)
	assert.Equal(t, "jordan-first-time-visitor/20260301T120000Z/report.html", items[2].Blob)
	assert.Equal(t, []byte("png-bytes"), items[1].Data)

	// The artifact blob decompresses back to the original bytes.
	zr, err := gzip.NewReader(strings.NewReader(string(items[0].Data)))
	require.NoError(t, err)
	decompressed, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, `{"persona":"x"}`, string(decompressed))
}

func TestBuildItems_MissingArtifactIsIOError(t *testing.T) {
	results := &models.PersonaTestResults{Persona: "p"}
	_, err := BuildItems(results, filepath.Join(t.TempDir(), "nope.json"), nil, time.Now())
	var ioErr *errdefs.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestUpload_PushesAllItems(t *testing.T) {
	uploader := newFakeUploader()
	items := []Item{
		{Blob: "a/artifact.json.gz", Data: []byte("1")},
		{Blob: "a/screenshots/s1.png", Data: []byte("2")},
		{Blob: "a/report.html", Data: []byte("3")},
	}

	err := Upload(context.Background(), uploader, Options{Container: "ux-artifacts", Prefix: "team"}, items)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ux-artifacts/team/a/artifact.json.gz",
		"ux-artifacts/team/a/report.html",
		"ux-artifacts/team/a/screenshots/s1.png",
	}, uploader.blobNames())
}

func TestUpload_FailureSurfacesAsNetworkError(t *testing.T) {
	uploader := newFakeUploader()
	uploader.fail = "report.html"

	err := Upload(context.Background(), uploader, Options{Container: "c"}, []Item{
		{Blob: "a/report.html", Data: []byte("x")},
	})
	var netErr *errdefs.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestUpload_MissingContainerIsConfigError(t *testing.T) {
	err := Upload(context.Background(), newFakeUploader(), Options{}, nil)
	var cfgErr *errdefs.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Remediation(), "container")
}

func TestNewClient_MissingAccountIsConfigError(t *testing.T) {
	_, err := NewClient("")
	var cfgErr *errdefs.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Remediation(), "account")
}
