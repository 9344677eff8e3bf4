package toc

import "github.com/alnah/go-docmark/mdast"

// Document converts t into a document tree of nested tight lists whose
// items link to the heading anchors. It returns nil for a nil tree.
func Document(t *Tree) *mdast.Node {
	if t == nil {
		return nil
	}
	return mdast.New(mdast.Root, nil, list(t.Entries))
}

func list(entries []*Entry) *mdast.Node {
	l := mdast.New(mdast.List, &mdast.ListAttrs{Ordered: false, Spread: false})
	for _, e := range entries {
		link := mdast.New(mdast.Link, &mdast.LinkAttrs{URL: "#" + e.Slug}, unlink(e.Content)...)
		item := mdast.New(mdast.ListItem, nil, mdast.New(mdast.Paragraph, nil, link))
		if len(e.Children) > 0 {
			item.Children = append(item.Children, list(e.Children))
		}
		l.Children = append(l.Children, item)
	}
	return l
}

// unlink copies heading content with nested links replaced by their
// content.
func unlink(nodes []*mdast.Node) []*mdast.Node {
	var out []*mdast.Node
	for _, n := range nodes {
		if n.Type == mdast.Link {
			out = append(out, unlink(n.Children)...)
			continue
		}
		c := n.Clone()
		c.Children = unlink(n.Children)
		out = append(out, c)
	}
	return out
}
