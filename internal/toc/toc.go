// Package toc builds a table of contents from the headings of a document
// tree.
//
// Heading depths are renormalized so the shallowest heading in the document
// becomes depth 1. Entries nest under the nearest preceding entry of lesser
// depth and are numbered hierarchically ("1.", "1.1.", "2."), so a skipped
// level does not leave a gap in the numbering.
package toc

import (
	"strconv"

	"github.com/alnah/go-docmark/internal/pipeline"
	"github.com/alnah/go-docmark/mdast"
)

// maxHeadingDepth is the deepest heading level of the markup language.
const maxHeadingDepth = 6

// Entry is one heading in the table of contents.
type Entry struct {
	Depth    int           `yaml:"depth" json:"depth"`
	Number   string        `yaml:"number" json:"number"`
	Slug     string        `yaml:"slug" json:"slug"`
	Text     string        `yaml:"text" json:"text"`
	Content  []*mdast.Node `yaml:"content,omitempty" json:"content,omitempty"`
	Children []*Entry      `yaml:"children,omitempty" json:"children,omitempty"`
}

// Tree is an extracted table of contents. MinLevel is the absolute depth
// that was mapped to depth 1.
type Tree struct {
	MinLevel int      `yaml:"minLevel" json:"minLevel"`
	Entries  []*Entry `yaml:"entries" json:"entries"`
}

// Extract returns the table of contents of root, or nil when root has no
// headings. Headings whose normalized depth exceeds maxDepth are left out;
// a maxDepth outside [1,6] means no limit. root is not modified.
func Extract(root *mdast.Node, maxDepth int) *Tree {
	headings := mdast.OfType(mdast.Normalize(root), mdast.Heading)
	if len(headings) == 0 {
		return nil
	}
	if maxDepth < 1 || maxDepth > maxHeadingDepth {
		maxDepth = maxHeadingDepth
	}

	minLevel := maxHeadingDepth
	for _, h := range headings {
		minLevel = min(minLevel, depthOf(h))
	}

	t := &Tree{MinLevel: minLevel}
	slugger := pipeline.NewSlugger()
	var stack []*Entry
	for _, h := range headings {
		depth := depthOf(h) - minLevel + 1
		if depth > maxDepth {
			continue
		}
		e := &Entry{
			Depth:   depth,
			Slug:    slugOf(h, slugger),
			Text:    mdast.TextContent(h),
			Content: cloneAll(h.Children),
		}

		for len(stack) > 0 && stack[len(stack)-1].Depth >= depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			t.Entries = append(t.Entries, e)
			e.Number = strconv.Itoa(len(t.Entries)) + "."
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, e)
			e.Number = parent.Number + strconv.Itoa(len(parent.Children)) + "."
		}
		stack = append(stack, e)
	}
	return t
}

// Flatten returns the entries of t in document order.
func (t *Tree) Flatten() []*Entry {
	if t == nil {
		return nil
	}
	var out []*Entry
	var walk func([]*Entry)
	walk = func(entries []*Entry) {
		for _, e := range entries {
			out = append(out, e)
			walk(e.Children)
		}
	}
	walk(t.Entries)
	return out
}

func depthOf(h *mdast.Node) int {
	if a, ok := mdast.As[*mdast.HeadingAttrs](h); ok {
		return a.Depth
	}
	return 1
}

// slugOf returns the heading's assigned ID, deriving one when the tree was
// built without slugs.
func slugOf(h *mdast.Node, slugger *pipeline.Slugger) string {
	if a, ok := mdast.As[*mdast.HeadingAttrs](h); ok && a.ID != "" {
		return a.ID
	}
	return slugger.Slug(mdast.TextContent(h))
}

func cloneAll(nodes []*mdast.Node) []*mdast.Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*mdast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
