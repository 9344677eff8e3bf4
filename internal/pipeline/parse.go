package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/alnah/go-docmark/mdast"
	"github.com/alnah/go-docmark/syntax"
)

// maxNesting bounds how deep constructs may parse their own content.
const maxNesting = 32

// ParseOptions configures a Parser.
type ParseOptions struct {
	Registry   *syntax.Registry
	LineBreaks syntax.LineBreaks
	Normalize  bool
	Logger     *zap.Logger
}

// Parser runs the parsing stages: preprocessing, front matter, grammar and
// constructs, and slug assignment. It holds no per-document state and is
// safe for concurrent use.
type Parser struct {
	md        parser.Parser
	normalize bool
	logger    *zap.Logger
}

// NewParser builds a parser for an already validated registry.
func NewParser(opts ParseOptions) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		md:        opts.Registry.NewParser(opts.LineBreaks),
		normalize: opts.Normalize,
		logger:    logger,
	}
}

// Parse returns the document tree of content, or nil when content is empty.
func (p *Parser) Parse(content string) *mdast.Node {
	if content == "" {
		return nil
	}
	content = NormalizeLineEndings(content)
	fm, body, fmLines := SplitFrontMatter(content, p.logger)
	offset := len(content) - len(body)

	src := []byte(Preprocess(body, p.normalize))
	root := p.tree(src, newLineIndex(src, offset, fmLines), 0)
	if fm != nil {
		root.Attrs = &mdast.RootAttrs{FrontMatter: fm}
	}
	AssignSlugs(root)
	return root
}

func (p *Parser) tree(src []byte, lines *lineIndex, depth int) *mdast.Node {
	pc := parser.NewContext()
	syntax.WithContext(pc, nested{p: p, depth: depth})
	doc := p.md.Parse(text.NewReader(src), parser.WithContext(pc))

	c := &converter{src: src, logger: p.logger, lines: lines}
	return c.convert(doc)[0]
}

// nested lets constructs parse their own content with the same grammar.
type nested struct {
	p     *Parser
	depth int
}

func (n nested) Blocks(src []byte) []*mdast.Node {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil
	}
	if n.depth >= maxNesting {
		n.p.logger.Warn("construct nesting too deep, kept as text", zap.Int("depth", n.depth))
		return []*mdast.Node{mdast.New(mdast.Paragraph, nil, mdast.NewText(string(src)))}
	}
	if n.p.normalize {
		src = []byte(SeparateMagicBlocks(string(src)))
	}
	return n.p.tree(src, nil, n.depth+1).Children
}

func (n nested) Inlines(src []byte) []*mdast.Node {
	blocks := n.Blocks(src)
	if len(blocks) == 1 && blocks[0].Type == mdast.Paragraph {
		return blocks[0].Children
	}
	if len(src) == 0 {
		return nil
	}
	return []*mdast.Node{mdast.NewText(string(src))}
}

func (n nested) Logger() *zap.Logger { return n.p.logger }
