package syntax

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"

	"github.com/alnah/go-docmark/mdast"
)

// Goldmark node kinds holding a produced document tree node.
var (
	KindBlock  = ast.NewNodeKind("ConstructBlock")
	KindInline = ast.NewNodeKind("ConstructInline")
)

// BlockNode is a goldmark block wrapping the node a block construct produced.
// Start and Stop are the byte offsets of the consumed source lines.
type BlockNode struct {
	ast.BaseBlock
	Tree        *mdast.Node
	Construct   string
	Start, Stop int
}

// Kind implements ast.Node.
func (n *BlockNode) Kind() ast.NodeKind { return KindBlock }

// Dump implements ast.Node.
func (n *BlockNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Construct": n.Construct,
		"Type":      string(n.Tree.Type),
	}, nil)
}

// InlineNode is a goldmark inline wrapping the node an inline construct produced.
type InlineNode struct {
	ast.BaseInline
	Tree        *mdast.Node
	Construct   string
	Start, Stop int
}

// Kind implements ast.Node.
func (n *InlineNode) Kind() ast.NodeKind { return KindInline }

// Dump implements ast.Node.
func (n *InlineNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Construct": n.Construct,
		"Type":      string(n.Tree.Type),
	}, nil)
}

var contextKey = parser.NewContextKey()

// WithContext attaches the nested-parsing context producers receive.
func WithContext(pc parser.Context, c Context) {
	pc.Set(contextKey, c)
}

func contextOf(pc parser.Context) Context {
	if c, ok := pc.Get(contextKey).(Context); ok {
		return c
	}
	return nopContext{}
}

type nopContext struct{}

func (nopContext) Blocks(src []byte) []*mdast.Node {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil
	}
	return []*mdast.Node{mdast.New(mdast.Paragraph, nil, mdast.NewText(string(src)))}
}

func (nopContext) Inlines(src []byte) []*mdast.Node {
	if len(src) == 0 {
		return nil
	}
	return []*mdast.Node{mdast.NewText(string(src))}
}

func (nopContext) Logger() *zap.Logger { return zap.NewNop() }

func produce(c Construct, span []byte, ctx Context) *mdast.Node {
	node, err := c.Produce(span, ctx)
	if err != nil || node == nil {
		ctx.Logger().Warn("construct fell back to literal text",
			zap.String("construct", c.Name),
			zap.Error(err))
		return nil
	}
	return node
}

// blockAdapter runs a block construct as a goldmark block parser. It opens
// only at document level and consumes whole lines.
type blockAdapter struct {
	c Construct
}

func (b *blockAdapter) Trigger() []byte { return b.c.Trigger }

func (b *blockAdapter) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if parent.Kind() != ast.KindDocument {
		return nil, parser.NoChildren
	}
	offset := pc.BlockOffset()
	if offset < 0 {
		return nil, parser.NoChildren
	}
	_, seg := reader.PeekLine()
	src := reader.Source()
	start := seg.Start + offset
	if start >= len(src) {
		return nil, parser.NoChildren
	}
	n := b.c.Recognize(src[start:])
	if n <= 0 {
		return nil, parser.NoChildren
	}
	stop, ok := lineStop(src, start+n)
	if !ok {
		return nil, parser.NoChildren
	}
	tree := produce(b.c, src[start:start+n], contextOf(pc))
	if tree == nil {
		return nil, parser.NoChildren
	}
	return &BlockNode{Tree: tree, Construct: b.c.Name, Start: start, Stop: stop}, parser.NoChildren
}

func (b *blockAdapter) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	_, seg := reader.PeekLine()
	if seg.Start >= node.(*BlockNode).Stop {
		return parser.Close
	}
	return parser.Continue | parser.NoChildren
}

func (b *blockAdapter) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *blockAdapter) CanInterruptParagraph() bool { return true }

func (b *blockAdapter) CanAcceptIndentedLine() bool { return false }

// lineStop returns the offset just past the line containing end. The span
// must be followed by nothing but whitespace on that line.
func lineStop(src []byte, end int) (int, bool) {
	if end > 0 && src[end-1] == '\n' {
		return end, true
	}
	for i := end; i < len(src); i++ {
		switch src[i] {
		case '\n':
			return i + 1, true
		case ' ', '\t', '\r':
		default:
			return 0, false
		}
	}
	return len(src), true
}

// inlineAdapter runs an inline construct as a goldmark inline parser.
type inlineAdapter struct {
	c Construct
}

func (a *inlineAdapter) Trigger() []byte { return a.c.Trigger }

func (a *inlineAdapter) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	n := a.c.Recognize(line)
	if n <= 0 || n > len(line) {
		return nil
	}
	tree := produce(a.c, line[:n], contextOf(pc))
	if tree == nil {
		return nil
	}
	block.Advance(n)
	return &InlineNode{Tree: tree, Construct: a.c.Name, Start: seg.Start, Stop: seg.Start + n}
}

// hardBreaks turns every soft line break into a hard one.
type hardBreaks struct{}

func (hardBreaks) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering && t.SoftLineBreak() {
			t.SetHardLineBreak(true)
		}
		return ast.WalkContinue, nil
	})
}

// NewParser assembles a goldmark parser from the enabled base tokenizers and
// the registry's constructs. The parser is safe for concurrent use.
func (r *Registry) NewParser(breaks LineBreaks) parser.Parser {
	var set parserSet
	for _, t := range tokenizers {
		if !r.disabled[t.name] {
			t.install(&set)
		}
	}
	set.blocks = append(set.blocks, util.Prioritized(parser.NewParagraphParser(), paragraphPriority))
	set.paragraphs = append(set.paragraphs, parser.DefaultParagraphTransformers()...)

	for _, c := range r.constructs {
		switch c.Kind {
		case Block:
			set.blocks = append(set.blocks, util.Prioritized(&blockAdapter{c: c}, c.Order))
		case Inline:
			set.inlines = append(set.inlines, util.Prioritized(&inlineAdapter{c: c}, c.Order))
		}
	}

	if breaks == HardBreaks {
		set.transformers = append(set.transformers, util.Prioritized(hardBreaks{}, 1000))
	}

	return parser.NewParser(
		parser.WithBlockParsers(set.blocks...),
		parser.WithInlineParsers(set.inlines...),
		parser.WithParagraphTransformers(set.paragraphs...),
		parser.WithASTTransformers(set.transformers...),
	)
}
