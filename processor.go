package docmark

import (
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-docmark/internal/assets"
	"github.com/alnah/go-docmark/internal/pipeline"
	"github.com/alnah/go-docmark/internal/serialize"
	"github.com/alnah/go-docmark/internal/toc"
	"github.com/alnah/go-docmark/mdast"
	"github.com/alnah/go-docmark/render"
	"github.com/alnah/go-docmark/syntax"
)

// Heading depth bounds accepted by WithMaxTOCDepth.
const (
	minTOCDepth = 1
	maxTOCDepth = 6
)

var prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Processor compiles flavored markdown. Create one with New; it holds only
// read-only configuration and is safe for concurrent use.
type Processor struct {
	cfg        processorConfig
	registry   *syntax.Registry
	compiler   *pipeline.Compiler
	printer    *serialize.Printer
	policy     *Policy
	render     render.Options
	components render.Map[render.Nodes]
	document   *template.Template
	logger     *zap.Logger
}

// New validates the options and builds a Processor. Every returned error
// wraps ErrInvalidOptions.
func New(opts ...Option) (*Processor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	constructs := append(syntax.Builtins(), cfg.constructs...)
	registry, err := syntax.NewRegistry(constructs, cfg.disabled)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	loader, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrInvalidOptions, ErrInvalidAssetPath, err)
	}

	policy, err := resolvePolicy(cfg, loader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrInvalidOptions, ErrInvalidPolicy, err)
	}
	policy = policy.WithPrefix(cfg.prefix + "-")

	document, err := loadDocumentTemplate(loader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	ropts := cfg.renderOptions()
	ropts.Sanitizer = policy.Bluemonday()

	components := make(render.Map[render.Nodes], len(cfg.components))
	for name, fn := range cfg.components {
		components[cfg.prefix+"-"+name] = fn
	}

	return &Processor{
		cfg:      cfg,
		registry: registry,
		compiler: pipeline.NewCompiler(pipeline.CompileOptions{
			ParseOptions: pipeline.ParseOptions{
				Registry:   registry,
				LineBreaks: cfg.lineBreaks,
				Normalize:  cfg.normalize,
				Logger:     logger,
			},
			DangerousHTML: cfg.dangerousHTML,
			Policy:        policy,
			Known:         registry.Handles,
		}),
		printer:    serialize.New(registry, logger),
		policy:     policy,
		render:     ropts,
		components: components,
		document:   document,
		logger:     logger,
	}, nil
}

func (c *processorConfig) validate() error {
	if c.maxTOCDepth < minTOCDepth || c.maxTOCDepth > maxTOCDepth {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidTOCDepth, c.maxTOCDepth, minTOCDepth, maxTOCDepth)
	}
	if !c.lineBreaks.Valid() {
		return fmt.Errorf("%w: %q (must be %q or %q)", ErrInvalidLineBreakMode, c.lineBreaks, syntax.HardBreaks, syntax.SoftBreaks)
	}
	if !prefixPattern.MatchString(c.prefix) {
		return fmt.Errorf("%w: %q", ErrInvalidComponentPrefix, c.prefix)
	}
	for name := range c.components {
		if name == "" {
			return fmt.Errorf("%w: empty component name", ErrInvalidComponentPrefix)
		}
	}
	return nil
}

func resolvePolicy(cfg processorConfig, loader assets.AssetLoader) (*Policy, error) {
	if cfg.policy != nil {
		return cfg.policy, nil
	}
	name := cfg.policyName
	if name == "" {
		name = assets.DefaultPolicy
	}
	data, err := loader.LoadPolicy(name)
	if err != nil {
		return nil, err
	}
	return ParsePolicy(data)
}

func loadDocumentTemplate(loader assets.AssetLoader) (*template.Template, error) {
	content, err := loader.LoadTemplate(assets.DefaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading document template: %w", err)
	}
	tmpl, err := template.New(assets.DefaultTemplate).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	return tmpl, nil
}

// Policy returns the sanitization policy in effect, component prefix
// included.
func (p *Processor) Policy() *Policy { return p.policy }

// Parse returns the document tree of text, or nil when text is empty.
func (p *Processor) Parse(text string) *mdast.Node {
	return p.compiler.Parse(text)
}

// HAST returns the sanitized hypertext tree of text, or nil when text is
// empty.
func (p *Processor) HAST(text string) *html.Node {
	return p.compiler.Compile(text)
}

// HTML renders text to markup. ok is false when text is empty.
func (p *Processor) HTML(text string) (out string, ok bool) {
	return p.markup(p.HAST(text))
}

// Text renders text to plain text with custom constructs left out. ok is
// false when text is empty.
func (p *Processor) Text(text string) (out string, ok bool) {
	root := p.HAST(text)
	if root == nil {
		return "", false
	}
	return render.Text(root), true
}

// Render renders text to a composite element tree, or nil when text is
// empty. Variables are resolved; other custom elements are kept for the
// caller.
func (p *Processor) Render(text string) []*render.Element {
	root := p.HAST(text)
	if root == nil {
		return nil
	}
	return render.Tree(root, p.render, nil)
}

// TOCTree extracts the table of contents of root, or nil when it has no
// headings.
func (p *Processor) TOCTree(root *mdast.Node) *TOCTree {
	return toc.Extract(root, p.cfg.maxTOCDepth)
}

// TOC renders the table of contents of root as a nav element. ok is false
// when root has no headings.
func (p *Processor) TOC(root *mdast.Node) (out string, ok bool) {
	tree := p.TOCTree(root)
	if tree == nil {
		return "", false
	}
	body, ok := p.markup(p.compiler.Hypertext(toc.Document(tree)))
	if !ok {
		return "", false
	}
	return `<nav class="toc">` + body + `</nav>`, true
}

// Markdown prints root back to flavored markdown. ok is false when root
// is nil.
func (p *Processor) Markdown(root *mdast.Node) (out string, ok bool) {
	if root == nil {
		return "", false
	}
	return p.printer.Markdown(root), true
}

// PlainText returns the text carried by node and its descendants.
func (p *Processor) PlainText(node *mdast.Node) string {
	return mdast.TextContent(node)
}

// Standalone renders text as a complete HTML document with its table of
// contents. The title comes from the front matter "title" key or the first
// heading. ok is false when text is empty.
func (p *Processor) Standalone(text string) (out string, ok bool) {
	root := p.Parse(text)
	if root == nil {
		return "", false
	}
	body, _ := p.markup(p.compiler.Hypertext(root))
	nav, _ := p.TOC(root)

	data := struct {
		Lang  string
		Title string
		TOC   template.HTML
		Body  template.HTML
	}{
		Lang:  frontMatterString(root, "lang", "en"),
		Title: frontMatterString(root, "title", firstHeading(root)),
		TOC:   template.HTML(nav),
		Body:  template.HTML(body),
	}

	var b strings.Builder
	if err := p.document.Execute(&b, data); err != nil {
		p.logger.Warn("document template failed", zap.Error(err))
		return "", false
	}
	return b.String(), true
}

func (p *Processor) markup(root *html.Node) (string, bool) {
	if root == nil {
		return "", false
	}
	out, err := render.HTML(root, p.render, p.components)
	if err != nil {
		p.logger.Warn("rendering markup failed", zap.Error(err))
		return "", false
	}
	return out, true
}

func frontMatterString(root *mdast.Node, key, fallback string) string {
	a, ok := mdast.As[*mdast.RootAttrs](root)
	if !ok || a.FrontMatter == nil {
		return fallback
	}
	if s, ok := a.FrontMatter.Data[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func firstHeading(root *mdast.Node) string {
	if hs := mdast.OfType(root, mdast.Heading); len(hs) > 0 {
		return mdast.TextContent(hs[0])
	}
	return ""
}

// IsConfigError reports whether err came from option validation.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidOptions)
}
