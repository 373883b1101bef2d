// Package projectconfig provides the ProjectConfig struct and loader for
// personaprobe.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file searched for by Load.
const ConfigFileName = "personaprobe.yaml"

// Default values for project configuration. These are the single source of
// truth: New() references them and no other code should duplicate them.
const (
	DefaultOutputDir   = "ux-results/"
	DefaultPersonasDir = "personas/"

	DefaultModel          = "claude-sonnet-4-20250514"
	DefaultMaxScreenshots = 10
	DefaultImageFormat    = "png"

	DefaultPublishContainer = "ux-artifacts"
)

// PathsConfig holds directory paths for personas and session output.
type PathsConfig struct {
	Personas string `yaml:"personas,omitempty"`
	Output   string `yaml:"output,omitempty"`
}

// SessionConfig holds collector defaults.
type SessionConfig struct {
	EmbedScreenshots *bool  `yaml:"embed_screenshots,omitempty"`
	ImageFormat      string `yaml:"image_format,omitempty"`
	EventLog         *bool  `yaml:"event_log,omitempty"`
}

// AnalysisConfig holds vision analysis defaults.
type AnalysisConfig struct {
	Model          string `yaml:"model,omitempty"`
	MaxScreenshots int    `yaml:"max_screenshots,omitempty"`
	BaseURL        string `yaml:"base_url,omitempty"`
}

// PublishConfig holds blob storage settings for the publish command.
type PublishConfig struct {
	Account   string `yaml:"account,omitempty"`
	Container string `yaml:"container,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from personaprobe.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Session  SessionConfig  `yaml:"session,omitempty"`
	Analysis AnalysisConfig `yaml:"analysis,omitempty"`
	Publish  PublishConfig  `yaml:"publish,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Personas: DefaultPersonasDir,
			Output:   DefaultOutputDir,
		},
		Session: SessionConfig{
			EmbedScreenshots: boolPtr(true),
			ImageFormat:      DefaultImageFormat,
			EventLog:         boolPtr(false),
		},
		Analysis: AnalysisConfig{
			Model:          DefaultModel,
			MaxScreenshots: DefaultMaxScreenshots,
		},
		Publish: PublishConfig{
			Container: DefaultPublishContainer,
		},
	}
}

// Load finds personaprobe.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found, defaults apply
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for personaprobe.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Paths.Personas != "" {
		dst.Paths.Personas = src.Paths.Personas
	}
	if src.Paths.Output != "" {
		dst.Paths.Output = src.Paths.Output
	}

	if src.Session.EmbedScreenshots != nil {
		dst.Session.EmbedScreenshots = src.Session.EmbedScreenshots
	}
	if src.Session.ImageFormat != "" {
		dst.Session.ImageFormat = src.Session.ImageFormat
	}
	if src.Session.EventLog != nil {
		dst.Session.EventLog = src.Session.EventLog
	}

	if src.Analysis.Model != "" {
		dst.Analysis.Model = src.Analysis.Model
	}
	if src.Analysis.MaxScreenshots != 0 {
		dst.Analysis.MaxScreenshots = src.Analysis.MaxScreenshots
	}
	if src.Analysis.BaseURL != "" {
		dst.Analysis.BaseURL = src.Analysis.BaseURL
	}

	if src.Publish.Account != "" {
		dst.Publish.Account = src.Publish.Account
	}
	if src.Publish.Container != "" {
		dst.Publish.Container = src.Publish.Container
	}
}

func boolPtr(b bool) *bool { return &b }
