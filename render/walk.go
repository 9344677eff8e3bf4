package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/alnah/go-docmark/internal/pipeline"
)

// Func renders one element. It can render the element's children through s.
type Func[T any] func(n *html.Node, s *State[T]) T

// Map assigns renderers to element names.
type Map[T any] map[string]Func[T]

// Target defines an output form.
type Target[T any] struct {
	// Text renders a text node.
	Text func(s string) T
	// Element renders an element without a mapped renderer.
	Element Func[T]
	// Join combines sibling outputs in document order.
	Join func(parts []T) T
}

// GlossaryTerm is a term the glossary renderer can explain.
type GlossaryTerm struct {
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
}

// Options are the read-only inputs of a render call.
type Options struct {
	// Variables holds the values of variable references by name.
	Variables map[string]string
	// Glossary holds the definitions of glossary references.
	Glossary []GlossaryTerm
	// Highlight enables syntax highlighting of code blocks.
	Highlight bool
	// Sanitizer cleans the payload of HTML blocks that do not run scripts.
	// Nil keeps payloads verbatim.
	Sanitizer *bluemonday.Policy
}

// Lookup returns the definition of term, compared case-insensitively.
func (o *Options) Lookup(term string) (GlossaryTerm, bool) {
	for _, g := range o.Glossary {
		if strings.EqualFold(g.Term, term) {
			return g, true
		}
	}
	return GlossaryTerm{}, false
}

// State is the scope of one render call.
type State[T any] struct {
	target    Target[T]
	renderers Map[T]
	opts      *Options
	anchors   *pipeline.Slugger
}

// Options returns the options of the call.
func (s *State[T]) Options() *Options { return s.opts }

// Anchor returns id, or id with a numeric suffix when the call already
// handed it out. An empty id is derived from fallback text.
func (s *State[T]) Anchor(id, fallback string) string {
	if id == "" {
		id = fallback
	}
	return s.anchors.Slug(id)
}

// Render renders n and its descendants.
func (s *State[T]) Render(n *html.Node) T {
	switch n.Type {
	case html.TextNode:
		return s.target.Text(n.Data)
	case html.DocumentNode:
		return s.Children(n)
	case html.ElementNode:
		if fn, ok := s.renderers[n.Data]; ok && fn != nil {
			return fn(n, s)
		}
		return s.target.Element(n, s)
	}
	return s.target.Join(nil)
}

// Children renders the children of n and joins them.
func (s *State[T]) Children(n *html.Node) T {
	var parts []T
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = append(parts, s.Render(c))
	}
	return s.target.Join(parts)
}

// Walk renders root with a fresh State.
func Walk[T any](root *html.Node, target Target[T], renderers Map[T], opts Options) T {
	s := &State[T]{
		target:    target,
		renderers: renderers,
		opts:      &opts,
		anchors:   pipeline.NewSlugger(),
	}
	if root == nil {
		return target.Join(nil)
	}
	return s.Render(root)
}

// Merge returns a map holding the entries of base overridden by those of
// extra.
func Merge[T any](base Map[T], extra Map[T]) Map[T] {
	out := make(Map[T], len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// attr returns the value of the attribute key of n.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates the text nodes under n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
