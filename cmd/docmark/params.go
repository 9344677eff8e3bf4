package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"

	"go.uber.org/zap"

	docmark "github.com/alnah/go-docmark"
	"github.com/alnah/go-docmark/internal/assets"
	"github.com/alnah/go-docmark/internal/config"
	"github.com/alnah/go-docmark/internal/fileutil"
	"github.com/alnah/go-docmark/internal/hints"
	"github.com/alnah/go-docmark/syntax"
)

// Sentinel errors for option building.
var (
	ErrReadPolicy      = errors.New("failed to read policy file")
	ErrInvalidVariable = errors.New("invalid variable")
)

// loadConfig loads the config named by the flag, then by DOCMARK_CONFIG.
// Without either, the neutral default config is returned.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies CLI flags over the config. Flags win.
func mergeFlags(flags *commandFlags, cfg *config.Config) error {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.tocDepth != 0 {
		cfg.TOC.MaxDepth = flags.tocDepth
	}
	if flags.policy != "" {
		cfg.Sanitize.Policy = flags.policy
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}

	// Markdown
	if flags.markdown.lineBreaks != "" {
		cfg.Markdown.LineBreaks = flags.markdown.lineBreaks
	}
	if len(flags.markdown.disable) > 0 {
		cfg.Markdown.Disable = append(cfg.Markdown.Disable, flags.markdown.disable...)
	}
	if flags.markdown.noDangerousHTML {
		off := false
		cfg.Markdown.DangerousHTML = &off
	}
	if flags.markdown.noNormalize {
		off := false
		cfg.Markdown.Normalize = &off
	}
	if flags.markdown.prefix != "" {
		cfg.Markdown.ComponentPrefix = flags.markdown.prefix
	}

	// Render
	if flags.render.highlight {
		cfg.Render.Highlight = true
	}
	if flags.render.standalone {
		cfg.Render.Standalone = true
	}
	vars, err := parseVariables(flags.render.vars)
	if err != nil {
		return err
	}
	if len(vars) > 0 {
		if cfg.Render.Variables == nil {
			cfg.Render.Variables = make(map[string]string, len(vars))
		}
		maps.Copy(cfg.Render.Variables, vars)
	}

	return cfg.Validate()
}

// buildOptions translates the merged config into processor options.
func buildOptions(cfg *config.Config, logger *zap.Logger) ([]docmark.Option, error) {
	opts := []docmark.Option{docmark.WithLogger(logger)}

	md := cfg.Markdown
	if md.LineBreaks != "" {
		opts = append(opts, docmark.WithLineBreaks(syntax.LineBreaks(strings.ToLower(md.LineBreaks))))
	}
	if len(md.Disable) > 0 {
		opts = append(opts, docmark.WithDisabledConstructs(md.Disable...))
	}
	if md.DangerousHTML != nil {
		opts = append(opts, docmark.WithDangerousHTML(*md.DangerousHTML))
	}
	if md.Normalize != nil {
		opts = append(opts, docmark.WithNormalize(*md.Normalize))
	}
	if md.ComponentPrefix != "" {
		opts = append(opts, docmark.WithComponentPrefix(md.ComponentPrefix))
	}
	if cfg.TOC.MaxDepth != 0 {
		opts = append(opts, docmark.WithMaxTOCDepth(cfg.TOC.MaxDepth))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, docmark.WithAssetPath(cfg.Assets.BasePath))
	}

	policyOpt, err := policyOption(cfg.Sanitize.Policy)
	if err != nil {
		return nil, err
	}
	if policyOpt != nil {
		opts = append(opts, policyOpt)
	}

	if len(cfg.Render.Variables) > 0 {
		opts = append(opts, docmark.WithVariables(cfg.Render.Variables))
	}
	if len(cfg.Render.Glossary) > 0 {
		terms := make([]docmark.GlossaryTerm, len(cfg.Render.Glossary))
		for i, g := range cfg.Render.Glossary {
			terms[i] = docmark.GlossaryTerm{Term: g.Term, Definition: g.Definition}
		}
		opts = append(opts, docmark.WithGlossary(terms...))
	}
	if cfg.Render.Highlight {
		opts = append(opts, docmark.WithHighlighting(true))
	}

	return opts, nil
}

// policyOption resolves a policy given by name or file path.
func policyOption(nameOrPath string) (docmark.Option, error) {
	if nameOrPath == "" {
		return nil, nil
	}
	if !fileutil.IsFilePath(nameOrPath) {
		return docmark.WithPolicyName(nameOrPath), nil
	}

	data, err := os.ReadFile(nameOrPath) // #nosec G304 -- policy path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w%s", ErrReadPolicy, err, hints.ForPolicyNotFound(nameOrPath, nil))
	}
	policy, err := docmark.ParsePolicy(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v%s", docmark.ErrInvalidOptions, docmark.ErrInvalidPolicy, err,
			hints.ForPolicyNotFound(nameOrPath, nil))
	}
	return docmark.WithPolicy(policy), nil
}

// newProcessor builds the processor and attaches hints to option errors.
func newProcessor(cfg *config.Config, opts []docmark.Option) (*docmark.Processor, error) {
	proc, err := docmark.New(opts...)
	if err == nil {
		return proc, nil
	}

	switch {
	case errors.Is(err, docmark.ErrUnknownConstruct):
		return nil, fmt.Errorf("%w%s", err, hints.ForUnknownConstruct(docmark.ConstructNames()))
	case errors.Is(err, docmark.ErrInvalidPolicy) && !fileutil.IsFilePath(cfg.Sanitize.Policy):
		return nil, fmt.Errorf("%w%s", err, hints.ForPolicyNotFound(cfg.Sanitize.Policy, availablePolicies(cfg.Assets.BasePath)))
	}
	return nil, err
}

// availablePolicies lists policies from the asset directory and the
// embedded set.
func availablePolicies(assetPath string) []string {
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return assets.PolicyNames()
	}
	return resolver.PolicyNames()
}
