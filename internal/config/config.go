// Package config loads and validates the server configuration.
//
// Configuration comes from an optional YAML file layered over built-in
// defaults, with a small set of environment overrides applied last
// (MDPRESS_ADDR, MDPRESS_OUTPUT_DIR, MDPRESS_BASE_URL, MDPRESS_STYLESHEET).
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinels matched by the cmd layer with errors.Is.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrConfigTooLarge = errors.New("config file exceeds maximum size")
	ErrInvalidConfig  = errors.New("invalid config")
)

// maxConfigSize limits config input to prevent memory exhaustion.
const maxConfigSize = 1 << 20

// Margin bounds in inches, matching the renderer's accepted range.
const (
	minMargin = 0.25
	maxMargin = 3.0
)

// classPattern matches a single CSS class token.
var classPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Output   OutputConfig   `yaml:"output"`
	Document DocumentConfig `yaml:"document"`
	Render   RenderConfig   `yaml:"render"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Listen address (default ":8000")
}

// OutputConfig defines where artifacts are written and how they are advertised.
type OutputConfig struct {
	Dir     string `yaml:"dir"`     // Artifact directory (empty = system temp)
	BaseURL string `yaml:"baseUrl"` // Origin used in download links
}

// DocumentConfig defines the rendered document's appearance.
type DocumentConfig struct {
	Stylesheet  string   `yaml:"stylesheet"`  // CSS file path (empty = embedded default)
	BodyClasses []string `yaml:"bodyClasses"` // Classes set on the document body
	PageSize    string   `yaml:"pageSize"`    // "a4", "letter", "legal"
	Margin      float64  `yaml:"margin"`      // Inches, applied to all sides
}

// RenderConfig bounds the conversion engine.
type RenderConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"` // Per-request rendering budget
}

// LoggerConfig defines log output and rotation.
type LoggerConfig struct {
	File       string `yaml:"file"` // Log file path (empty = stderr)
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
	Level      string `yaml:"level"` // Unknown levels fall back to info
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8000"},
		Output: OutputConfig{BaseURL: "http://localhost:8000"},
		Document: DocumentConfig{
			BodyClasses: []string{"markdown-body"},
			PageSize:    "a4",
			Margin:      1.0,
		},
		Render: RenderConfig{TimeoutSeconds: 30},
		Logger: LoggerConfig{Level: "info"},
	}
}

// Load builds the effective configuration: defaults, overlaid with the
// YAML file at path (optional, pass "" to skip), overlaid with
// environment variables. Unknown YAML fields are rejected.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- config path is operator-provided
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if len(data) > maxConfigSize {
			return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), maxConfigSize)
		}
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers environment overrides onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MDPRESS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MDPRESS_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("MDPRESS_BASE_URL"); v != "" {
		cfg.Output.BaseURL = v
	}
	if v := os.Getenv("MDPRESS_STYLESHEET"); v != "" {
		cfg.Document.Stylesheet = v
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
// Called automatically by Load, but available for consumers who construct
// Config manually.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("%w: server.addr %q: %v", ErrInvalidConfig, c.Server.Addr, err)
	}

	u, err := url.Parse(c.Output.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: output.baseUrl %q must be an http(s) URL", ErrInvalidConfig, c.Output.BaseURL)
	}

	switch strings.ToLower(c.Document.PageSize) {
	case "a4", "letter", "legal":
		// valid
	default:
		return fmt.Errorf("%w: document.pageSize %q (must be a4, letter, or legal)", ErrInvalidConfig, c.Document.PageSize)
	}

	if c.Document.Margin < minMargin || c.Document.Margin > maxMargin {
		return fmt.Errorf("%w: document.margin %.2f out of bounds [%.2f, %.2f]",
			ErrInvalidConfig, c.Document.Margin, minMargin, maxMargin)
	}

	for i, class := range c.Document.BodyClasses {
		if !classPattern.MatchString(class) {
			return fmt.Errorf("%w: document.bodyClasses[%d] %q is not a valid class name", ErrInvalidConfig, i, class)
		}
	}

	if c.Render.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: render.timeoutSeconds must be positive, got %d", ErrInvalidConfig, c.Render.TimeoutSeconds)
	}

	if c.Logger.MaxSizeMB < 0 || c.Logger.MaxBackups < 0 || c.Logger.MaxAgeDays < 0 {
		return fmt.Errorf("%w: logger rotation values must not be negative", ErrInvalidConfig)
	}

	return nil
}

// RenderTimeout returns the rendering budget as a duration.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}
