package docmark

import (
	"maps"

	"go.uber.org/zap"

	"github.com/alnah/go-docmark/render"
	"github.com/alnah/go-docmark/syntax"
)

// Option configures a Processor.
type Option func(*processorConfig)

// processorConfig holds the options before validation.
type processorConfig struct {
	lineBreaks    syntax.LineBreaks
	disabled      []string
	dangerousHTML bool
	maxTOCDepth   int
	prefix        string
	policy        *Policy
	policyName    string
	assetPath     string
	constructs    []syntax.Construct
	logger        *zap.Logger
	variables     map[string]string
	glossary      []GlossaryTerm
	highlight     bool
	components    map[string]Component
	normalize     bool
}

// Defaults applied by New.
const (
	DefaultLineBreaks      = syntax.HardBreaks
	DefaultMaxTOCDepth     = 2
	DefaultComponentPrefix = "x"
)

func defaultConfig() processorConfig {
	return processorConfig{
		lineBreaks:    DefaultLineBreaks,
		dangerousHTML: true,
		maxTOCDepth:   DefaultMaxTOCDepth,
		prefix:        DefaultComponentPrefix,
		normalize:     true,
	}
}

// WithLineBreaks sets how single newlines inside paragraphs are treated:
// syntax.HardBreaks turns them into line breaks, syntax.SoftBreaks keeps
// them as spaces.
func WithLineBreaks(mode syntax.LineBreaks) Option {
	return func(c *processorConfig) { c.lineBreaks = mode }
}

// WithDisabledConstructs turns off base tokenizers or constructs by name.
func WithDisabledConstructs(names ...string) Option {
	return func(c *processorConfig) { c.disabled = append(c.disabled, names...) }
}

// WithDangerousHTML controls raw HTML. When true, raw HTML is parsed into
// the tree and then sanitized; when false it is escaped as text.
func WithDangerousHTML(allow bool) Option {
	return func(c *processorConfig) { c.dangerousHTML = allow }
}

// WithMaxTOCDepth sets the deepest normalized heading level listed in
// tables of contents. It must be between 1 and 6.
func WithMaxTOCDepth(depth int) Option {
	return func(c *processorConfig) { c.maxTOCDepth = depth }
}

// WithComponentPrefix sets the prefix of caller component elements.
// Components registered as "card" render elements named "<prefix>-card".
func WithComponentPrefix(prefix string) Option {
	return func(c *processorConfig) { c.prefix = prefix }
}

// WithPolicy replaces the sanitization policy.
func WithPolicy(p *Policy) Option {
	return func(c *processorConfig) { c.policy = p }
}

// WithPolicyName selects a named policy from the asset directory or the
// embedded policies ("default", "strict"). WithPolicy takes precedence.
func WithPolicyName(name string) Option {
	return func(c *processorConfig) { c.policyName = name }
}

// WithAssetPath adds a directory searched for policies and templates
// before the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *processorConfig) { c.assetPath = dir }
}

// WithConstructs registers additional syntax constructs.
func WithConstructs(constructs ...syntax.Construct) Option {
	return func(c *processorConfig) { c.constructs = append(c.constructs, constructs...) }
}

// WithLogger sets the logger receiving warnings about degraded input.
func WithLogger(logger *zap.Logger) Option {
	return func(c *processorConfig) { c.logger = logger }
}

// WithVariables sets the values substituted for variable references.
func WithVariables(vars map[string]string) Option {
	return func(c *processorConfig) {
		if c.variables == nil {
			c.variables = make(map[string]string, len(vars))
		}
		maps.Copy(c.variables, vars)
	}
}

// WithGlossary adds terms explained by glossary references.
func WithGlossary(terms ...GlossaryTerm) Option {
	return func(c *processorConfig) { c.glossary = append(c.glossary, terms...) }
}

// WithHighlighting enables syntax highlighting of code blocks with a known
// language. Highlighted markup uses CSS classes.
func WithHighlighting(enable bool) Option {
	return func(c *processorConfig) { c.highlight = enable }
}

// WithComponents registers markup renderers for custom elements, keyed by
// name without the component prefix.
func WithComponents(components map[string]Component) Option {
	return func(c *processorConfig) {
		if c.components == nil {
			c.components = make(map[string]Component, len(components))
		}
		maps.Copy(c.components, components)
	}
}

// WithNormalize controls the blank lines inserted around magic blocks
// before parsing.
func WithNormalize(enable bool) Option {
	return func(c *processorConfig) { c.normalize = enable }
}

func (c *processorConfig) renderOptions() render.Options {
	return render.Options{
		Variables: maps.Clone(c.variables),
		Glossary:  append([]GlossaryTerm(nil), c.glossary...),
		Highlight: c.highlight,
	}
}
