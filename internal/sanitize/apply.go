package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// Apply returns a filtered copy of root; root is not modified. The result
// is always a document node: when root is not one, the filtered copy of
// root is placed under a new document node. Applying a policy to its own
// output returns an identical tree.
func (p *Policy) Apply(root *html.Node) *html.Node {
	if root == nil {
		return nil
	}
	doc := &html.Node{Type: html.DocumentNode}
	if root.Type == html.DocumentNode {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			doc.AppendChild(clone(c))
		}
	} else {
		doc.AppendChild(clone(root))
	}
	p.filterChildren(doc)
	return doc
}

func clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if n.Attr != nil {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(clone(ch))
	}
	return c
}

func (p *Policy) filterChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
		case html.RawNode:
			c.Type = html.TextNode
		case html.ElementNode:
			p.filterElement(n, c)
		default:
			n.RemoveChild(c)
		}
		c = next
	}
}

func (p *Policy) filterElement(parent, el *html.Node) {
	tag := strings.ToLower(el.Data)
	if p.strip[tag] {
		parent.RemoveChild(el)
		return
	}
	p.filterChildren(el)
	if !p.AllowsTag(tag) {
		for gc := el.FirstChild; gc != nil; gc = el.FirstChild {
			el.RemoveChild(gc)
			parent.InsertBefore(gc, el)
		}
		parent.RemoveChild(el)
		return
	}

	kept := el.Attr[:0]
	seen := make(map[string]bool, len(el.Attr))
	for _, a := range el.Attr {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" || seen[key] || !p.AllowsAttr(tag, key, a.Val) {
			continue
		}
		seen[key] = true
		a.Key = key
		kept = append(kept, a)
	}
	el.Attr = kept
}
