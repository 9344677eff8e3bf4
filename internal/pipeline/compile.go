package pipeline

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-docmark/internal/sanitize"
	"github.com/alnah/go-docmark/mdast"
)

// CompileOptions configures a Compiler.
type CompileOptions struct {
	ParseOptions

	// DangerousHTML materializes raw HTML instead of escaping it.
	DangerousHTML bool
	// Policy filters the hypertext tree. Nil disables sanitization.
	Policy *sanitize.Policy
	// Known reports whether a caller node type has a lowering rule.
	Known func(mdast.Type) bool
}

// Compiler runs every stage from text to sanitized hypertext tree.
// It holds only read-only configuration and is safe for concurrent use.
type Compiler struct {
	parser *Parser
	lower  LowerOptions
	policy *sanitize.Policy
}

// NewCompiler assembles the stages. The registry and policy are shared and
// must not change afterwards.
func NewCompiler(opts CompileOptions) *Compiler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Compiler{
		parser: NewParser(opts.ParseOptions),
		lower: LowerOptions{
			DangerousHTML: opts.DangerousHTML,
			Known:         opts.Known,
			Logger:        opts.Logger,
		},
		policy: opts.Policy,
	}
}

// Parse returns the document tree of content, or nil when content is empty.
func (c *Compiler) Parse(content string) *mdast.Node {
	return c.parser.Parse(content)
}

// Compile returns the sanitized hypertext tree of content, or nil when
// content is empty.
func (c *Compiler) Compile(content string) *html.Node {
	return c.Hypertext(c.Parse(content))
}

// Hypertext runs the stages after parsing on an existing document tree:
// lowering, raw HTML materialization and sanitization.
func (c *Compiler) Hypertext(root *mdast.Node) *html.Node {
	doc := Materialize(Lower(root, c.lower))
	if doc == nil || c.policy == nil {
		return doc
	}
	return c.policy.Apply(doc)
}
