package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docmark/internal/fileutil"
	"github.com/alnah/go-docmark/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength       = 4096 // Directories, policy paths
	MaxPrefixLength     = 32   // Component prefix
	MaxNameLength       = 100  // Construct, variable and policy names
	MaxValueLength      = 1000 // Variable values
	MaxTermLength       = 200  // Glossary term
	MaxDefinitionLength = 2000 // Glossary definition
)

// Config holds all configuration for the docmark CLI.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Markdown MarkdownConfig `yaml:"markdown"`
	TOC      TOCConfig      `yaml:"toc"`
	Sanitize SanitizeConfig `yaml:"sanitize"`
	Render   RenderConfig   `yaml:"render"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = stdout or next to source)
}

// MarkdownConfig defines parser options.
type MarkdownConfig struct {
	LineBreaks      string   `yaml:"lineBreaks"`      // "hard" or "soft" (default: "hard")
	Disable         []string `yaml:"disable"`         // Constructs to turn off
	DangerousHTML   *bool    `yaml:"dangerousHTML"`   // Materialize raw HTML (default: true)
	Normalize       *bool    `yaml:"normalize"`       // Normalize blank lines around magic blocks (default: true)
	ComponentPrefix string   `yaml:"componentPrefix"` // Custom element prefix (default: "x")
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	MaxDepth int `yaml:"maxDepth"` // 1-6, 0 = library default
}

// SanitizeConfig defines sanitization options.
type SanitizeConfig struct {
	Policy string `yaml:"policy"` // Policy name or path to a policy file
}

// RenderConfig defines output rendering options.
type RenderConfig struct {
	Highlight  bool              `yaml:"highlight"`
	Standalone bool              `yaml:"standalone"` // Wrap HTML output in a full document
	Variables  map[string]string `yaml:"variables"`
	Glossary   []GlossaryTerm    `yaml:"glossary"`
}

// GlossaryTerm is one glossary entry.
type GlossaryTerm struct {
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("sanitize.policy", c.Sanitize.Policy, MaxPathLength); err != nil {
		return err
	}

	// Validate markdown fields
	switch strings.ToLower(c.Markdown.LineBreaks) {
	case "", "hard", "soft":
	default:
		return fmt.Errorf("%w: markdown.lineBreaks: %q (must be hard or soft)", ErrInvalidField, c.Markdown.LineBreaks)
	}
	if err := validateFieldLength("markdown.componentPrefix", c.Markdown.ComponentPrefix, MaxPrefixLength); err != nil {
		return err
	}
	for i, name := range c.Markdown.Disable {
		if err := validateFieldLength(fmt.Sprintf("markdown.disable[%d]", i), name, MaxNameLength); err != nil {
			return err
		}
	}

	if c.TOC.MaxDepth != 0 && (c.TOC.MaxDepth < 1 || c.TOC.MaxDepth > 6) {
		return fmt.Errorf("%w: toc.maxDepth: must be between 1 and 6, got %d", ErrInvalidField, c.TOC.MaxDepth)
	}

	// Validate render fields
	for name, value := range c.Render.Variables {
		if name == "" {
			return fmt.Errorf("%w: render.variables: empty name", ErrInvalidField)
		}
		if err := validateFieldLength("render.variables."+name, name, MaxNameLength); err != nil {
			return err
		}
		if err := validateFieldLength("render.variables."+name, value, MaxValueLength); err != nil {
			return err
		}
	}
	for i, g := range c.Render.Glossary {
		if g.Term == "" {
			return fmt.Errorf("%w: render.glossary[%d].term: required", ErrInvalidField, i)
		}
		if err := validateFieldLength(fmt.Sprintf("render.glossary[%d].term", i), g.Term, MaxTermLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("render.glossary[%d].definition", i), g.Definition, MaxDefinitionLength); err != nil {
			return err
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that leaves every option at the
// library default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
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

// SearchPaths returns the candidate files for a config name, in lookup
// order: current directory first, then the user config directory
// ($XDG_CONFIG_HOME/go-docmark on Linux), each with .yaml then .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-docmark", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
