package pipeline

import (
	"maps"
	"regexp"
	"slices"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-docmark/mdast"
)

// Custom element names produced for the built-in constructs.
const (
	TagCallout   = "md-callout"
	TagCodeTabs  = "md-code-tabs"
	TagEmbed     = "md-embed"
	TagHTMLBlock = "md-html-block"
	TagVariable  = "md-variable"
	TagGlossary  = "md-glossary"
)

// customTag is the shape a caller node type must have to be lowered to an
// element of the same name.
var customTag = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// LowerOptions configures lowering.
type LowerOptions struct {
	// DangerousHTML keeps raw HTML as raw nodes for materialization.
	// Otherwise it becomes text and is escaped on output.
	DangerousHTML bool
	// Known reports whether a non built-in node type was registered.
	Known  func(mdast.Type) bool
	Logger *zap.Logger
}

type lowerer struct {
	LowerOptions
}

// Lower turns a document tree into a hypertext tree rooted at a document
// node. It returns nil for a nil tree.
func Lower(root *mdast.Node, opts LowerOptions) *html.Node {
	if root == nil {
		return nil
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	l := lowerer{opts}
	doc := &html.Node{Type: html.DocumentNode}
	appendAll(doc, l.all(mdast.Normalize(root).Children, false))
	return doc
}

// attrsOr returns the attributes of n, or def when n carries none of type T.
func attrsOr[T mdast.Attrs](n *mdast.Node, def T) T {
	if a, ok := mdast.As[T](n); ok {
		return a
	}
	return def
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag)), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendAll(parent *html.Node, children []*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

func (l lowerer) all(nodes []*mdast.Node, tight bool) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		out = append(out, l.lower(n, tight)...)
	}
	return out
}

func (l lowerer) wrap(tag string, n *mdast.Node, attrs ...html.Attribute) []*html.Node {
	return []*html.Node{appendAll(element(tag, attrs...), l.all(n.Children, false))}
}

func (l lowerer) raw(value string) *html.Node {
	if l.DangerousHTML {
		return &html.Node{Type: html.RawNode, Data: value}
	}
	return textNode(value)
}

// lower maps one node. tight is set for the children of a tight list item,
// whose paragraphs are unwrapped.
func (l lowerer) lower(n *mdast.Node, tight bool) []*html.Node {
	switch n.Type {
	case mdast.Root:
		return l.all(n.Children, false)

	case mdast.Paragraph:
		if tight {
			return l.all(n.Children, false)
		}
		return l.wrap("p", n)

	case mdast.Heading:
		h := attrsOr(n, &mdast.HeadingAttrs{})
		var attrs []html.Attribute
		if h.ID != "" {
			attrs = append(attrs, attr("id", h.ID))
		}
		return l.wrap("h"+strconv.Itoa(h.Depth), n, attrs...)

	case mdast.ThematicBreak:
		return []*html.Node{element("hr")}

	case mdast.Blockquote:
		return l.wrap("blockquote", n)

	case mdast.List:
		return []*html.Node{l.list(n)}

	case mdast.ListItem:
		return []*html.Node{l.listItem(n, tight)}

	case mdast.Code:
		return []*html.Node{l.code(n)}

	case mdast.HTML:
		return []*html.Node{l.raw(n.Value)}

	case mdast.Text:
		return []*html.Node{textNode(n.Value)}

	case mdast.Emphasis:
		return l.wrap("em", n)

	case mdast.Strong:
		return l.wrap("strong", n)

	case mdast.Delete:
		return l.wrap("del", n)

	case mdast.InlineCode:
		return []*html.Node{appendAll(element("code"), []*html.Node{textNode(n.Value)})}

	case mdast.Break:
		return []*html.Node{element("br")}

	case mdast.Link:
		a := attrsOr(n, &mdast.LinkAttrs{})
		attrs := []html.Attribute{attr("href", a.URL)}
		if a.Title != "" {
			attrs = append(attrs, attr("title", a.Title))
		}
		return l.wrap("a", n, attrs...)

	case mdast.Image:
		return []*html.Node{l.image(n)}

	case mdast.Table:
		return []*html.Node{l.table(n)}

	case mdast.TableRow:
		return []*html.Node{l.row(n)}

	case mdast.Callout:
		c := attrsOr(n, &mdast.CalloutAttrs{})
		attrs := []html.Attribute{attr("theme", c.Theme), attr("icon", c.Icon)}
		if c.Title != "" {
			attrs = append(attrs, attr("heading", c.Title))
		}
		return l.wrap(TagCallout, n, attrs...)

	case mdast.CodeTabs:
		tabs := element(TagCodeTabs)
		for _, c := range n.Children {
			if c.Type == mdast.Code {
				tabs.AppendChild(l.code(c))
			}
		}
		return []*html.Node{tabs}

	case mdast.Embed:
		e := attrsOr(n, &mdast.EmbedAttrs{})
		return []*html.Node{element(TagEmbed, attr("url", e.URL), attr("title", e.Title), attr("provider", e.Provider))}

	case mdast.HTMLBlock:
		if !l.DangerousHTML {
			return []*html.Node{textNode(n.Value)}
		}
		var attrs []html.Attribute
		if h, ok := mdast.As[*mdast.HTMLBlockAttrs](n); ok && h.RunScripts {
			attrs = append(attrs, attr("runscripts", "true"))
		}
		// The payload is materialized and filtered like any other raw HTML.
		block := element(TagHTMLBlock, attrs...)
		block.AppendChild(&html.Node{Type: html.RawNode, Data: n.Value})
		return []*html.Node{block}

	case mdast.Variable:
		v := attrsOr(n, &mdast.VariableAttrs{})
		return []*html.Node{element(TagVariable, attr("name", v.Name))}

	case mdast.Glossary:
		g := attrsOr(n, &mdast.GlossaryAttrs{})
		return []*html.Node{element(TagGlossary, attr("term", g.Term))}
	}

	return l.custom(n, tight)
}

// custom lowers a node type outside the built-in set. Registered types
// become an element of the same name carrying their props; anything else
// degrades to its text.
func (l lowerer) custom(n *mdast.Node, tight bool) []*html.Node {
	known := l.Known != nil && l.Known(n.Type)
	if known && customTag.MatchString(string(n.Type)) {
		var attrs []html.Attribute
		if props, ok := mdast.As[mdast.Props](n); ok {
			for _, k := range slices.Sorted(maps.Keys(props)) {
				attrs = append(attrs, attr(k, props[k]))
			}
		}
		el := appendAll(element(string(n.Type), attrs...), l.all(n.Children, false))
		if n.Value != "" && len(n.Children) == 0 {
			el.AppendChild(textNode(n.Value))
		}
		return []*html.Node{el}
	}

	l.Logger.Warn("no lowering rule for node type", zap.String("type", string(n.Type)))
	if n.Value != "" {
		return []*html.Node{textNode(n.Value)}
	}
	return l.all(n.Children, tight)
}

func (l lowerer) list(n *mdast.Node) *html.Node {
	a := attrsOr(n, &mdast.ListAttrs{})
	tag := "ul"
	var attrs []html.Attribute
	if a.Ordered {
		tag = "ol"
		if a.Start != 1 {
			attrs = append(attrs, attr("start", strconv.Itoa(a.Start)))
		}
	}
	list := element(tag, attrs...)
	for _, item := range n.Children {
		appendAll(list, l.lower(item, !a.Spread))
	}
	return list
}

func (l lowerer) listItem(n *mdast.Node, tight bool) *html.Node {
	li := element("li")
	if a, ok := mdast.As[*mdast.ListItemAttrs](n); ok && a.Checked != nil {
		li.Attr = append(li.Attr, attr("class", "task-list-item"))
		box := element("input", attr("type", "checkbox"), attr("disabled", ""))
		if *a.Checked {
			box.Attr = append(box.Attr, attr("checked", ""))
		}
		li.AppendChild(box)
		li.AppendChild(textNode(" "))
	}
	return appendAll(li, l.all(n.Children, tight))
}

func (l lowerer) code(n *mdast.Node) *html.Node {
	code := element("code")
	pre := element("pre")
	if a, ok := mdast.As[*mdast.CodeAttrs](n); ok {
		if a.Lang != "" {
			code.Attr = append(code.Attr, attr("class", "language-"+a.Lang))
		}
		if a.Meta != "" {
			pre.Attr = append(pre.Attr, attr("title", a.Meta))
		}
	}
	code.AppendChild(textNode(n.Value))
	pre.AppendChild(code)
	return pre
}

func (l lowerer) image(n *mdast.Node) *html.Node {
	a := attrsOr(n, &mdast.ImageAttrs{})
	img := element("img", attr("src", a.URL), attr("alt", a.Alt))
	if a.Title != "" {
		img.Attr = append(img.Attr, attr("title", a.Title))
	}
	if a.Width != "" {
		img.Attr = append(img.Attr, attr("width", a.Width))
	}
	if a.Align != "" {
		img.Attr = append(img.Attr, attr("align", a.Align))
	}
	if a.Caption == "" {
		return img
	}
	figure := element("figure")
	figure.AppendChild(img)
	figure.AppendChild(appendAll(element("figcaption"), []*html.Node{textNode(a.Caption)}))
	return figure
}

func (l lowerer) table(n *mdast.Node) *html.Node {
	table := element("table")
	rows := n.Children
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		table.AppendChild(appendAll(element("thead"), []*html.Node{l.row(rows[0])}))
		rows = rows[1:]
	}
	if len(rows) > 0 {
		body := element("tbody")
		for _, r := range rows {
			body.AppendChild(l.row(r))
		}
		table.AppendChild(body)
	}
	return table
}

func isHeaderRow(row *mdast.Node) bool {
	for _, c := range row.Children {
		if a, ok := mdast.As[*mdast.TableCellAttrs](c); ok && a.Header {
			return true
		}
	}
	return false
}

func (l lowerer) row(n *mdast.Node) *html.Node {
	tr := element("tr")
	for _, c := range n.Children {
		if c.Type != mdast.TableCell {
			continue
		}
		tag := "td"
		var attrs []html.Attribute
		if a, ok := mdast.As[*mdast.TableCellAttrs](c); ok {
			if a.Header {
				tag = "th"
			}
			if a.Align != mdast.AlignNone {
				attrs = append(attrs, attr("align", string(a.Align)))
			}
		}
		tr.AppendChild(appendAll(element(tag, attrs...), l.all(c.Children, false)))
	}
	return tr
}

// String renders a hypertext tree, or the children of a document node.
func String(n *html.Node) (string, error) {
	return renderHTML(n, n != nil && n.Type == html.DocumentNode)
}
