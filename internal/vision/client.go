// Package vision forwards a session artifact to a vision-capable
// completion API and wraps the model's analysis in a Markdown report.
//
// One synchronous request per invocation; any failure is terminal and no
// output file is produced. No retries.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/personaprobe/personaprobe/internal/errdefs"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-sonnet-4-20250514"
	// DefaultMaxScreenshots bounds how many screenshots are forwarded.
	DefaultMaxScreenshots = 10
	defaultMaxTokens      = 4096

	// APIKeyEnv is the environment fallback for the API key.
	APIKeyEnv = "ANTHROPIC_API_KEY"
	// BaseURLEnv overrides the API endpoint, e.g. for a proxy.
	BaseURLEnv = "ANTHROPIC_BASE_URL"
)

// Options configures one analysis invocation.
type Options struct {
	// APIKey is the credential; falls back to APIKeyEnv when empty.
	APIKey string
	// BaseURL overrides the API endpoint; falls back to BaseURLEnv, then
	// the public endpoint.
	BaseURL string
	// Model names the completion model; DefaultModel when empty.
	Model string
	// MaxScreenshots caps the screenshots forwarded (stable prefix in
	// capture order; later screenshots are dropped, not sampled).
	// DefaultMaxScreenshots when zero or negative.
	MaxScreenshots int
	// MaxTokens caps the model output length.
	MaxTokens int
	// HTTPClient allows injecting a client in tests.
	HTTPClient *http.Client
}

func (o *Options) resolve() (Options, error) {
	r := *o
	if r.APIKey == "" {
		r.APIKey = os.Getenv(APIKeyEnv)
	}
	if r.APIKey == "" {
		return r, &errdefs.ConfigError{
			Missing: "API key",
			Remedy:  fmt.Sprintf("Pass --api-key or set the %s environment variable.", APIKeyEnv),
		}
	}
	if r.BaseURL == "" {
		r.BaseURL = os.Getenv(BaseURLEnv)
	}
	if r.BaseURL == "" {
		r.BaseURL = defaultBaseURL
	}
	if r.Model == "" {
		r.Model = DefaultModel
	}
	if r.MaxScreenshots <= 0 {
		r.MaxScreenshots = DefaultMaxScreenshots
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = defaultMaxTokens
	}
	if r.HTTPClient == nil {
		r.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return r, nil
}

// Wire types for the messages endpoint.

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// complete sends one request to the messages endpoint and returns the
// model's text output.
func complete(ctx context.Context, opts Options, req *apiRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build analysis request: %w", err)
	}
	httpReq.Header.Set("x-api-key", opts.APIKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := opts.HTTPClient.Do(httpReq)
	if err != nil {
		return "", &errdefs.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var decoded apiResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode != http.StatusOK {
		apiErr := &errdefs.APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil && decoded.Error != nil {
			apiErr.Message = decoded.Error.Message
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			apiErr.Hint = "Check that your API key is valid and has not been revoked."
		case http.StatusTooManyRequests:
			apiErr.Hint = "You are being rate limited; wait a moment before retrying."
		}
		return "", apiErr
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decode analysis response: %w", decodeErr)
	}

	var out bytes.Buffer
	for _, block := range decoded.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}
