package syntax

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-docmark/mdast"
)

// parserSet collects goldmark components before the parser is assembled.
type parserSet struct {
	blocks       []util.PrioritizedValue
	inlines      []util.PrioritizedValue
	paragraphs   []util.PrioritizedValue
	transformers []util.PrioritizedValue
}

// tokenizer is one base-grammar construct that callers may disable by name.
type tokenizer struct {
	name       string
	kind       Kind
	priorities []int // priorities reserved in the kind's parser list
	install    func(*parserSet)
}

func blockTokenizer(name string, prio int, newParser func() parser.BlockParser) tokenizer {
	return tokenizer{name: name, kind: Block, priorities: []int{prio}, install: func(s *parserSet) {
		s.blocks = append(s.blocks, util.Prioritized(newParser(), prio))
	}}
}

func inlineTokenizer(name string, prio int, newParser func() parser.InlineParser) tokenizer {
	return tokenizer{name: name, kind: Inline, priorities: []int{prio}, install: func(s *parserSet) {
		s.inlines = append(s.inlines, util.Prioritized(newParser(), prio))
	}}
}

// tokenizers lists the base grammar in priority order. Paragraph parsing is
// always installed and cannot be disabled.
var tokenizers = []tokenizer{
	blockTokenizer("setext-heading", 100, func() parser.BlockParser { return parser.NewSetextHeadingParser() }),
	blockTokenizer("thematic-break", 200, parser.NewThematicBreakParser),
	{name: "list", kind: Block, priorities: []int{300, 400}, install: func(s *parserSet) {
		s.blocks = append(s.blocks,
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400))
	}},
	blockTokenizer("indented-code", 500, parser.NewCodeBlockParser),
	blockTokenizer("heading", 600, func() parser.BlockParser { return parser.NewATXHeadingParser() }),
	blockTokenizer("fenced-code", 700, parser.NewFencedCodeBlockParser),
	blockTokenizer("blockquote", 800, parser.NewBlockquoteParser),
	blockTokenizer("html", 900, parser.NewHTMLBlockParser),
	{name: "table", kind: Block, install: func(s *parserSet) {
		s.paragraphs = append(s.paragraphs, util.Prioritized(extension.NewTableParagraphTransformer(), 200))
		s.transformers = append(s.transformers, util.Prioritized(extension.NewTableASTTransformer(), 0))
	}},
	inlineTokenizer("task-list", 0, extension.NewTaskCheckBoxParser),
	inlineTokenizer("code-span", 100, parser.NewCodeSpanParser),
	inlineTokenizer("link", 200, parser.NewLinkParser),
	inlineTokenizer("autolink", 300, parser.NewAutoLinkParser),
	inlineTokenizer("raw-html", 400, parser.NewRawHTMLParser),
	inlineTokenizer("emphasis", 500, parser.NewEmphasisParser),
	inlineTokenizer("strikethrough", 500, extension.NewStrikethroughParser),
	{name: "linkify", kind: Inline, priorities: []int{999}, install: func(s *parserSet) {
		s.inlines = append(s.inlines, util.Prioritized(extension.NewLinkifyParser(), 999))
	}},
}

const paragraphPriority = 1000

// BaseNames returns the names of the base tokenizers that can be disabled.
func BaseNames() []string {
	names := make([]string, len(tokenizers))
	for i, t := range tokenizers {
		names[i] = t.name
	}
	return names
}

// Registry is the immutable, ordered set of enabled constructs plus the set
// of disabled base tokenizers. It is safe for concurrent use.
type Registry struct {
	constructs []Construct
	disabled   map[string]bool
}

// NewRegistry validates constructs and disabled names and returns a registry
// sorted by kind and order. Disabled names may refer to base tokenizers or to
// constructs; disabled constructs are dropped before order validation.
func NewRegistry(constructs []Construct, disabled []string) (*Registry, error) {
	known := make(map[string]bool, len(tokenizers)+len(constructs))
	for _, t := range tokenizers {
		known[t.name] = true
	}

	seen := make(map[string]bool, len(constructs))
	for _, c := range constructs {
		if err := validateConstruct(c); err != nil {
			return nil, err
		}
		if seen[c.Name] || known[c.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateConstruct, c.Name)
		}
		seen[c.Name] = true
	}

	off := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		if !known[name] && !seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownConstruct, name)
		}
		off[name] = true
	}

	enabled := make([]Construct, 0, len(constructs))
	for _, c := range constructs {
		if !off[c.Name] {
			enabled = append(enabled, c)
		}
	}
	if err := checkOrders(enabled, off); err != nil {
		return nil, err
	}

	slices.SortFunc(enabled, func(a, b Construct) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return a.Order - b.Order
	})
	return &Registry{constructs: enabled, disabled: off}, nil
}

func validateConstruct(c Construct) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidConstruct)
	case c.Recognize == nil || c.Produce == nil:
		return fmt.Errorf("%w: %q needs a recognizer and a producer", ErrInvalidConstruct, c.Name)
	case len(c.Trigger) == 0:
		return fmt.Errorf("%w: %q has no trigger", ErrInvalidConstruct, c.Name)
	case c.Order == paragraphPriority && c.Kind == Block:
		return fmt.Errorf("%w: %q uses the paragraph priority", ErrOrderConflict, c.Name)
	}
	if c.Kind == Inline {
		for _, b := range c.Trigger {
			if !util.IsPunct(b) {
				return fmt.Errorf("%w: %q inline trigger %q is not ASCII punctuation", ErrInvalidConstruct, c.Name, b)
			}
		}
	}
	return nil
}

// checkOrders rejects two enabled constructs, or a construct and an enabled
// base tokenizer, sharing a priority within the same kind.
func checkOrders(enabled []Construct, off map[string]bool) error {
	type slot struct {
		kind  Kind
		order int
	}
	taken := make(map[slot]string)
	for _, t := range tokenizers {
		if off[t.name] {
			continue
		}
		for _, p := range t.priorities {
			taken[slot{t.kind, p}] = t.name
		}
	}
	for _, c := range enabled {
		s := slot{c.Kind, c.Order}
		if owner, ok := taken[s]; ok {
			return fmt.Errorf("%w: %q and %q both use %s order %d", ErrOrderConflict, c.Name, owner, c.Kind, c.Order)
		}
		taken[s] = c.Name
	}
	return nil
}

// Constructs returns the enabled constructs in parse order.
func (r *Registry) Constructs() []Construct {
	return slices.Clone(r.constructs)
}

// Disabled reports whether a base tokenizer or construct was disabled.
func (r *Registry) Disabled(name string) bool {
	return r.disabled[name]
}

// Serializers returns, in parse order, the serializers of enabled constructs
// declaring node type t.
func (r *Registry) Serializers(t mdast.Type) []SerializeFunc {
	var out []SerializeFunc
	for _, c := range r.constructs {
		if c.Serialize != nil && slices.Contains(c.Types, t) {
			out = append(out, c.Serialize)
		}
	}
	return out
}

// Handles reports whether some enabled construct declares node type t.
func (r *Registry) Handles(t mdast.Type) bool {
	for _, c := range r.constructs {
		if slices.Contains(c.Types, t) {
			return true
		}
	}
	return false
}
