package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-docmark/internal/pipeline"
)

// Nodes is the output type of the markup target.
type Nodes = []*html.Node

// HTMLTarget renders to fresh hypertext nodes. Unmapped elements are copied
// with their attributes.
func HTMLTarget() Target[Nodes] {
	return Target[Nodes]{
		Text:    func(s string) Nodes { return Nodes{textNode(s)} },
		Element: passthrough,
		Join:    flatten[*html.Node],
	}
}

// HTMLRenderers returns the default markup renderers for headings, code
// blocks and the custom elements produced by lowering.
func HTMLRenderers() Map[Nodes] {
	m := Map[Nodes]{
		"pre":                 codeBlock,
		pipeline.TagCallout:   callout,
		pipeline.TagCodeTabs:  codeTabs,
		pipeline.TagEmbed:     embed,
		pipeline.TagHTMLBlock: htmlBlock,
		pipeline.TagVariable:  variable,
		pipeline.TagGlossary:  glossary,
	}
	for _, h := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		m[h] = heading
	}
	return m
}

// HTML renders root to markup. Components are merged over the default
// renderers, keyed by element name.
func HTML(root *html.Node, opts Options, components Map[Nodes]) (string, error) {
	nodes := Walk(root, HTMLTarget(), Merge(HTMLRenderers(), components), opts)
	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func flatten[E any](parts [][]E) []E {
	var out []E
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// NewElement returns a new element named tag. Attributes are given as
// key, value pairs.
func NewElement(tag string, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

// Append adds children to parent and returns parent.
func Append(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

// shallow copies n without its children.
func shallow(n *html.Node) *html.Node {
	c := &html.Node{Type: n.Type, Data: n.Data, DataAtom: n.DataAtom, Namespace: n.Namespace}
	if n.Attr != nil {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	return c
}

func passthrough(n *html.Node, s *State[Nodes]) Nodes {
	return Nodes{Append(shallow(n), s.Children(n)...)}
}

func heading(n *html.Node, s *State[Nodes]) Nodes {
	id := s.Anchor(attr(n, "id"), textContent(n))
	h := shallow(n)
	h.Attr = h.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != "id" {
			h.Attr = append(h.Attr, a)
		}
	}
	h.Attr = append([]html.Attribute{{Key: "id", Val: id}}, h.Attr...)
	anchor := NewElement("a", "class", "heading-anchor", "href", "#section-"+id, "name", "section-"+id)
	return Nodes{Append(Append(h, anchor), s.Children(n)...)}
}

func callout(n *html.Node, s *State[Nodes]) Nodes {
	theme, icon, title := attr(n, "theme"), attr(n, "icon"), attr(n, "heading")
	if theme == "" {
		theme = "default"
	}
	bq := NewElement("blockquote", "class", "callout callout_"+theme, "theme", icon)
	cls := "callout-heading"
	if title == "" {
		cls += " empty"
	}
	h := NewElement("h3", "class", cls)
	if icon != "" {
		h.AppendChild(Append(NewElement("span", "class", "callout-icon"), textNode(icon)))
	}
	if title != "" {
		h.AppendChild(textNode(title))
	}
	bq.AppendChild(h)
	return Nodes{Append(bq, s.Children(n)...)}
}

func codeTabs(n *html.Node, s *State[Nodes]) Nodes {
	toolbar := NewElement("div", "class", "CodeTabs-toolbar")
	inner := NewElement("div", "class", "CodeTabs-inner")
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "pre" {
			continue
		}
		lang := codeLang(c)
		label := attr(c, "title")
		if label == "" {
			label = lang
		}
		if label == "" {
			label = "Text"
		}
		btn := NewElement("button", "type", "button", "value", lang)
		if i == 0 {
			btn.Attr = append(btn.Attr, html.Attribute{Key: "class", Val: "CodeTabs_active"})
		}
		toolbar.AppendChild(Append(btn, textNode(label)))
		Append(inner, s.Render(c)...)
		i++
	}
	return Nodes{Append(NewElement("div", "class", "CodeTabs CodeTabs_initial"), toolbar, inner)}
}

func embed(n *html.Node, _ *State[Nodes]) Nodes {
	url, title, provider := attr(n, "url"), attr(n, "title"), attr(n, "provider")
	if title == "" {
		title = url
	}
	div := NewElement("div", "class", "embed")
	if provider != "" {
		div.Attr = append(div.Attr, html.Attribute{Key: "data-provider", Val: provider})
	}
	link := NewElement("a", "class", "embed-link", "href", url, "target", "_blank", "rel", "noopener noreferrer")
	return Nodes{Append(div, Append(link, textNode(title)))}
}

// htmlBlock renders the already filtered payload. Blocks that do not run
// scripts go through the Sanitizer once more.
func htmlBlock(n *html.Node, s *State[Nodes]) Nodes {
	div := NewElement("div", "class", "html-block")
	children := s.Children(n)
	if attr(n, "runscripts") == "true" || s.Options().Sanitizer == nil {
		return Nodes{Append(div, children...)}
	}
	var buf strings.Builder
	for _, c := range children {
		if err := html.Render(&buf, c); err != nil {
			return Nodes{div}
		}
	}
	payload := s.Options().Sanitizer.Sanitize(buf.String())
	return Nodes{Append(div, &html.Node{Type: html.RawNode, Data: payload})}
}

func variable(n *html.Node, s *State[Nodes]) Nodes {
	name := attr(n, "name")
	if v, ok := s.Options().Variables[name]; ok {
		return Nodes{textNode(v)}
	}
	return Nodes{textNode("<<" + name + ">>")}
}

func glossary(n *html.Node, s *State[Nodes]) Nodes {
	term := attr(n, "term")
	g, ok := s.Options().Lookup(term)
	if !ok {
		return Nodes{textNode(term)}
	}
	body := Append(NewElement("span", "class", "tooltip-content-body"),
		Append(NewElement("strong", "class", "term"), textNode(g.Term)),
		textNode(" - "+g.Definition),
	)
	return Nodes{Append(NewElement("span", "class", "glossary-tooltip"),
		Append(NewElement("span", "class", "glossary-item highlight"), textNode(term)),
		Append(NewElement("span", "class", "tooltip-content"), body),
	)}
}

// codeLang returns the language of a pre element from its code child's
// language-* class.
func codeLang(pre *html.Node) string {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "code" {
			continue
		}
		for _, cls := range strings.Fields(attr(c, "class")) {
			if lang, ok := strings.CutPrefix(cls, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}
