package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-docmark/internal/config"
)

// envPrefix is the prefix shared by every recognized environment variable.
const envPrefix = "DOCMARK_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // DOCMARK_CONFIG: config file name or path
	Policy     string // DOCMARK_POLICY: sanitization policy name or path
	LineBreaks string // DOCMARK_LINE_BREAKS: hard or soft
	InputDir   string // DOCMARK_INPUT_DIR: default input directory
	OutputDir  string // DOCMARK_OUTPUT_DIR: default output directory
	AssetPath  string // DOCMARK_ASSET_PATH: custom asset directory
	Workers    int    // DOCMARK_WORKERS: parallel workers
}

// knownEnvVars lists valid DOCMARK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCMARK_CONFIG":      true,
	"DOCMARK_POLICY":      true,
	"DOCMARK_LINE_BREAKS": true,
	"DOCMARK_INPUT_DIR":   true,
	"DOCMARK_OUTPUT_DIR":  true,
	"DOCMARK_ASSET_PATH":  true,
	"DOCMARK_WORKERS":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("DOCMARK_CONFIG"),
		Policy:     os.Getenv("DOCMARK_POLICY"),
		LineBreaks: os.Getenv("DOCMARK_LINE_BREAKS"),
		InputDir:   os.Getenv("DOCMARK_INPUT_DIR"),
		OutputDir:  os.Getenv("DOCMARK_OUTPUT_DIR"),
		AssetPath:  os.Getenv("DOCMARK_ASSET_PATH"),
	}

	if workers := os.Getenv("DOCMARK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized DOCMARK_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Policy != "" && cfg.Sanitize.Policy == "" {
		cfg.Sanitize.Policy = env.Policy
	}
	if env.LineBreaks != "" && cfg.Markdown.LineBreaks == "" {
		cfg.Markdown.LineBreaks = env.LineBreaks
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
}
