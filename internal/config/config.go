// Package config loads and validates the CLI's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/alnah/go-mdrender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidBaseURL = errors.New("invalid base URL")
	ErrInvalidMode    = errors.New("invalid output mode")
)

// Output modes.
const (
	ModeHTML     = "html"
	ModeText     = "text"
	ModeSections = "sections"
)

// Config holds all configuration for rendering.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Sanitize SanitizeConfig `yaml:"sanitize"`
	Output   OutputConfig   `yaml:"output"`
}

// RenderConfig defines rendering options.
type RenderConfig struct {
	BaseURL      string `yaml:"baseUrl"`      // Resolves relative link hrefs (empty = keep as written)
	MediaBaseURL string `yaml:"mediaBaseUrl"` // Resolves media src attributes (empty = baseUrl)
	HardBreaks   bool   `yaml:"hardBreaks"`   // Treat single newlines as <br>
	Inline       bool   `yaml:"inline"`       // Unwrap single-paragraph output
}

// SanitizeConfig defines sanitization options.
type SanitizeConfig struct {
	Iframes bool `yaml:"iframes"` // Admit the iframe element family
	Math    bool `yaml:"math"`    // Admit MathML/KaTeX element families
	Disable bool `yaml:"disable"` // Skip sanitization (trusted input only)

	// Allow-list extensions. Union with the defaults, never replace.
	ExtraTags       []string            `yaml:"extraTags"`
	ExtraAttributes map[string][]string `yaml:"extraAttributes"`
	ExtraClasses    map[string][]string `yaml:"extraClasses"`
}

// OutputConfig defines output options.
type OutputConfig struct {
	Mode string `yaml:"mode"` // "html" (default), "text", or "sections"
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values. Zero values are valid defaults.
func (c *Config) Validate() error {
	if err := validateURL(c.Render.BaseURL); err != nil {
		return err
	}
	if err := validateURL(c.Render.MediaBaseURL); err != nil {
		return err
	}
	switch c.Output.Mode {
	case "", ModeHTML, ModeText, ModeSections:
		return nil
	default:
		return fmt.Errorf("%w: %q (want html, text, or sections)", ErrInvalidMode, c.Output.Mode)
	}
}

func validateURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, s)
	}
	return nil
}
