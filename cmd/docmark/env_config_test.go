package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-docmark/internal/config"
)

// Tests in this file use t.Setenv and cannot run in parallel.

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("DOCMARK_CONFIG", "site")
	t.Setenv("DOCMARK_POLICY", "strict")
	t.Setenv("DOCMARK_LINE_BREAKS", "soft")
	t.Setenv("DOCMARK_INPUT_DIR", "docs")
	t.Setenv("DOCMARK_OUTPUT_DIR", "public")
	t.Setenv("DOCMARK_ASSET_PATH", "assets")
	t.Setenv("DOCMARK_WORKERS", "4")

	got := loadEnvConfig()
	want := envConfig{
		ConfigPath: "site",
		Policy:     "strict",
		LineBreaks: "soft",
		InputDir:   "docs",
		OutputDir:  "public",
		AssetPath:  "assets",
		Workers:    4,
	}
	if *got != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
	}
}

func TestLoadEnvConfig_InvalidWorkers(t *testing.T) {
	for _, value := range []string{"many", "-2", "0"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("DOCMARK_WORKERS", value)
			if got := loadEnvConfig().Workers; got != 0 {
				t.Errorf("Workers = %d, want 0 for %q", got, value)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("DOCMARK_POLCY", "strict")
	t.Setenv("DOCMARK_POLICY", "strict")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "unknown environment variable DOCMARK_POLCY") {
		t.Errorf("warnings = %q, want DOCMARK_POLCY", out)
	}
	if strings.Contains(out, "DOCMARK_POLICY ") {
		t.Errorf("warnings = %q, known variable reported", out)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Policy:     "strict",
		LineBreaks: "soft",
		InputDir:   "docs",
		OutputDir:  "public",
		AssetPath:  "assets",
	}

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)
		if cfg.Sanitize.Policy != "strict" || cfg.Markdown.LineBreaks != "soft" ||
			cfg.Input.DefaultDir != "docs" || cfg.Output.DefaultDir != "public" ||
			cfg.Assets.BasePath != "assets" {
			t.Errorf("config = %+v", cfg)
		}
	})

	t.Run("config file values win", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Sanitize.Policy = "default"
		cfg.Output.DefaultDir = "site"
		applyEnvConfig(env, cfg)
		if cfg.Sanitize.Policy != "default" || cfg.Output.DefaultDir != "site" {
			t.Errorf("config = %+v, want file values kept", cfg)
		}
		if cfg.Input.DefaultDir != "docs" {
			t.Errorf("Input.DefaultDir = %q, want docs", cfg.Input.DefaultDir)
		}
	})
}
