// Package syntax holds the ordered registry of custom markdown constructs and
// assembles them, together with the base grammar, into a goldmark parser.
//
// A construct is plain data: a recognizer, a parse order, a producer that
// builds a document tree node from the matched span, and an optional
// serializer used to print that node back to markdown. Constructs run in
// ascending Order ahead of any base tokenizer with a higher priority, so a
// construct can claim syntax the base grammar would otherwise consume.
//
// Base tokenizer priorities (lower runs earlier):
//
//	block:  setext-heading 100, thematic-break 200, list 300, indented-code 500,
//	        heading 600, fenced-code 700, blockquote 800, html 900, paragraph 1000
//	inline: task-list 0, code-span 100, link 200, autolink 300, raw-html 400,
//	        emphasis 500, strikethrough 500, linkify 999
package syntax

import (
	"go.uber.org/zap"

	"github.com/alnah/go-docmark/mdast"
)

// Kind tells whether a construct is recognized at block or inline level.
type Kind int

// Construct kinds.
const (
	Block Kind = iota
	Inline
)

func (k Kind) String() string {
	if k == Inline {
		return "inline"
	}
	return "block"
}

// LineBreaks selects how a single newline inside a paragraph is parsed.
type LineBreaks string

// Line break modes.
const (
	HardBreaks LineBreaks = "hard" // newline becomes a line break
	SoftBreaks LineBreaks = "soft" // newline is a soft break (rendered as whitespace)
)

// Valid reports whether m is a known mode.
func (m LineBreaks) Valid() bool {
	return m == HardBreaks || m == SoftBreaks
}

// Context gives producers access to nested parsing.
type Context interface {
	// Blocks parses src as a sequence of block-level nodes.
	Blocks(src []byte) []*mdast.Node
	// Inlines parses src as the inline content of a single paragraph.
	Inlines(src []byte) []*mdast.Node
	// Logger receives warnings about degraded constructs.
	Logger() *zap.Logger
}

// Printer gives serializers access to the base markdown writer.
type Printer interface {
	// Blocks prints block-level nodes separated by blank lines.
	Blocks(nodes []*mdast.Node) string
	// Inlines prints inline nodes.
	Inlines(nodes []*mdast.Node) string
}

// RecognizeFunc returns the length of the construct at the start of src, or
// zero if src does not start with it. Block recognizers see the rest of the
// document; inline recognizers see the rest of the current line.
type RecognizeFunc func(src []byte) int

// ProduceFunc builds a node from a recognized span. Returning an error makes
// the span fall back to literal text.
type ProduceFunc func(span []byte, ctx Context) (*mdast.Node, error)

// SerializeFunc prints a node. ok is false when the node cannot be printed by
// this construct and the next serializer should be tried.
type SerializeFunc func(n *mdast.Node, p Printer) (out string, ok bool)

// Construct describes one custom syntax.
type Construct struct {
	Name      string
	Kind      Kind
	Order     int
	Trigger   []byte       // first bytes the construct can start with
	Types     []mdast.Type // node types Serialize handles
	Recognize RecognizeFunc
	Produce   ProduceFunc
	Serialize SerializeFunc
}
