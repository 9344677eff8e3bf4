package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bodyContext is the fragment context used for the children of a document
// node.
func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
}

// Materialize replaces raw HTML nodes with parsed elements. Each element
// whose children include raw nodes has its whole child list re-parsed in
// that element's context, so a start tag and its end tag held by separate
// raw nodes pair up around the content between them. The tree is modified
// in place and returned.
func Materialize(root *html.Node) *html.Node {
	if root == nil {
		return nil
	}
	materialize(root)
	return root
}

func materialize(n *html.Node) {
	hasRaw := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.RawNode {
			hasRaw = true
			continue
		}
		materialize(c)
	}
	if !hasRaw {
		return
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return
		}
	}

	context := n
	if n.Type != html.ElementNode {
		context = bodyContext()
	}
	nodes, err := parseFragment(buf.String(), context)
	if err != nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	appendAll(n, nodes)
}

// parseFragment parses HTML in the given context. The returned nodes are
// detached from any parent.
func parseFragment(content string, context *html.Node) ([]*html.Node, error) {
	// The parser reads only the type, atom, name and namespace of the context.
	ctx := &html.Node{Type: html.ElementNode, DataAtom: context.DataAtom, Data: context.Data, Namespace: context.Namespace}
	return html.ParseFragment(strings.NewReader(content), ctx)
}

// ParseHTML parses an HTML fragment into a document node whose children are
// the top-level nodes.
func ParseHTML(content string) (*html.Node, error) {
	nodes, err := parseFragment(content, bodyContext())
	if err != nil {
		return nil, err
	}
	container := &html.Node{Type: html.DocumentNode}
	return appendAll(container, nodes), nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if doc == nil {
		return "", nil
	}

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
