// Package serialize prints a document tree back to flavored markdown.
//
// Every node is first offered to the serializers of the registry's enabled
// constructs declaring its type. Standard types not claimed by a construct
// use the base grammar rules below; any other node prints its Value, or
// nothing.
//
// Output is a best-effort inverse of parsing: parsing the printed text with
// the same registry yields a structurally equal tree for everything the
// registry can both produce and serialize.
package serialize

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-docmark/mdast"
	"github.com/alnah/go-docmark/syntax"
)

// Printer prints document trees. It holds no per-document state and is safe
// for concurrent use.
type Printer struct {
	registry *syntax.Registry
	logger   *zap.Logger
}

// New returns a printer consulting registry for custom node types. A nil
// logger discards warnings.
func New(registry *syntax.Registry, logger *zap.Logger) *Printer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Printer{registry: registry, logger: logger}
}

// Markdown prints root. It returns an empty string for a nil tree. The
// output ends with a single newline unless it is empty.
func (p *Printer) Markdown(root *mdast.Node) string {
	if root == nil {
		return ""
	}
	root = mdast.Normalize(root)

	var out string
	if root.Type == mdast.Root {
		out = p.Blocks(root.Children)
		if a, ok := mdast.As[*mdast.RootAttrs](root); ok && a.FrontMatter != nil {
			out = frontMatter(a.FrontMatter) + "\n\n" + out
		}
	} else {
		out = p.node(root)
	}
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

// Blocks prints block nodes separated by blank lines.
func (p *Printer) Blocks(nodes []*mdast.Node) string {
	return p.join(nodes, "\n\n")
}

// Inlines prints inline nodes.
func (p *Printer) Inlines(nodes []*mdast.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(p.node(n))
	}
	return b.String()
}

// paragraph prints inline nodes. Text that begins a line is kept from
// reading as a block marker.
func (p *Printer) paragraph(nodes []*mdast.Node) string {
	var b strings.Builder
	lineStart := true
	for _, n := range nodes {
		if n.Type == mdast.Text {
			b.WriteString(escapeText(n.Value, lineStart))
		} else {
			b.WriteString(p.node(n))
		}
		lineStart = n.Type == mdast.Break
	}
	return b.String()
}

func (p *Printer) join(nodes []*mdast.Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := p.node(n); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func (p *Printer) node(n *mdast.Node) string {
	if p.registry != nil {
		for _, fn := range p.registry.Serializers(n.Type) {
			if out, ok := fn(n, p); ok {
				return out
			}
		}
	}

	switch n.Type {
	case mdast.Root:
		return p.Blocks(n.Children)
	case mdast.Paragraph:
		return p.paragraph(n.Children)
	case mdast.Heading:
		depth := 1
		if a, ok := mdast.As[*mdast.HeadingAttrs](n); ok {
			depth = a.Depth
		}
		return strings.Repeat("#", depth) + " " + p.Inlines(n.Children)
	case mdast.ThematicBreak:
		return "***"
	case mdast.Blockquote:
		return prefixLines(p.Blocks(n.Children), "> ", ">")
	case mdast.List:
		return p.list(n)
	case mdast.ListItem:
		return p.listItem(n, "-", true)
	case mdast.Code:
		return syntax.FenceCode(n)
	case mdast.HTML:
		return n.Value
	case mdast.Text:
		return escapeText(n.Value, false)
	case mdast.Emphasis:
		return "*" + p.Inlines(n.Children) + "*"
	case mdast.Strong:
		return "**" + p.Inlines(n.Children) + "**"
	case mdast.Delete:
		return "~~" + p.Inlines(n.Children) + "~~"
	case mdast.InlineCode:
		return codeSpan(n.Value)
	case mdast.Break:
		return "\\\n"
	case mdast.Link:
		a, _ := mdast.As[*mdast.LinkAttrs](n)
		if a == nil {
			a = &mdast.LinkAttrs{}
		}
		return "[" + p.Inlines(n.Children) + "](" + destination(a.URL, a.Title) + ")"
	case mdast.Image:
		a, _ := mdast.As[*mdast.ImageAttrs](n)
		if a == nil {
			a = &mdast.ImageAttrs{}
		}
		return "![" + escapeText(a.Alt, false) + "](" + destination(a.URL, a.Title) + ")"
	case mdast.Table:
		return p.table(n)
	}

	p.logger.Warn("no serializer for node type", zap.String("type", string(n.Type)))
	return n.Value
}

func frontMatter(fm *mdast.FrontMatter) string {
	fence := "---"
	if fm.Format == "toml" {
		fence = "+++"
	}
	if fm.Raw == "" {
		return fence + "\n" + fence
	}
	return fence + "\n" + fm.Raw + "\n" + fence
}

func (p *Printer) list(n *mdast.Node) string {
	a, _ := mdast.As[*mdast.ListAttrs](n)
	if a == nil {
		a = &mdast.ListAttrs{}
	}
	start := a.Start
	if start == 0 {
		start = 1
	}
	sep := "\n"
	if a.Spread {
		sep = "\n\n"
	}

	items := make([]string, 0, len(n.Children))
	for i, item := range n.Children {
		marker := "-"
		if a.Ordered {
			marker = strconv.Itoa(start+i) + "."
		}
		items = append(items, p.listItem(item, marker, !a.Spread))
	}
	return strings.Join(items, sep)
}

func (p *Printer) listItem(n *mdast.Node, marker string, tight bool) string {
	sep := "\n\n"
	if tight {
		sep = "\n"
	}
	body := p.join(n.Children, sep)
	if a, ok := mdast.As[*mdast.ListItemAttrs](n); ok && a.Checked != nil {
		box := "[ ] "
		if *a.Checked {
			box = "[x] "
		}
		body = box + body
	}
	indent := strings.Repeat(" ", len(marker)+1)
	if body == "" {
		return marker
	}
	return marker + " " + indentRest(body, indent)
}

func (p *Printer) table(n *mdast.Node) string {
	if len(n.Children) == 0 {
		return ""
	}
	var align []mdast.Alignment
	if a, ok := mdast.As[*mdast.TableAttrs](n); ok {
		align = a.Align
	}

	cols := len(align)
	for _, row := range n.Children {
		cols = max(cols, len(row.Children))
	}
	lines := make([]string, 0, len(n.Children)+1)
	for i, row := range n.Children {
		cells := make([]string, cols)
		for j, c := range row.Children {
			cells[j] = strings.ReplaceAll(p.Inlines(c.Children), "|", `\|`)
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			lines = append(lines, delimiterRow(align, cols))
		}
	}
	return strings.Join(lines, "\n")
}

func delimiterRow(align []mdast.Alignment, cols int) string {
	cells := make([]string, cols)
	for i := range cells {
		var a mdast.Alignment
		if i < len(align) {
			a = align[i]
		}
		switch a {
		case mdast.AlignLeft:
			cells[i] = ":---"
		case mdast.AlignCenter:
			cells[i] = ":---:"
		case mdast.AlignRight:
			cells[i] = "---:"
		default:
			cells[i] = "---"
		}
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// prefixLines prefixes every line of s; empty lines get bare.
func prefixLines(s, prefix, bare string) string {
	if s == "" {
		return bare
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = bare
		} else {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// indentRest indents every non-empty line of s but the first.
func indentRest(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`~`, `\~`,
	`&`, `\&`,
)

// escapeText backslash-escapes the characters that would otherwise start
// emphasis, code, links, raw HTML, strikethrough or entities. When
// lineStart is set, s begins a line; block markers are escaped there and
// after every line break within s.
func escapeText(s string, lineStart bool) string {
	s = textEscaper.Replace(s)
	if !lineStart && !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if i > 0 || lineStart {
			lines[i] = escapeBlockStart(l)
		}
	}
	return strings.Join(lines, "\n")
}

// escapeBlockStart escapes the marker of a heading, blockquote, list item or
// setext underline at the start of line.
func escapeBlockStart(line string) string {
	rest := strings.TrimLeft(line, " ")
	if rest == "" {
		return line
	}
	indent := line[:len(line)-len(rest)]
	switch rest[0] {
	case '#', '>', '-', '+', '=':
		return indent + `\` + rest
	}
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(rest) && (rest[digits] == '.' || rest[digits] == ')') {
		return indent + rest[:digits] + `\` + rest[digits:]
	}
	return line
}

func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}

func destination(url, title string) string {
	if strings.ContainsAny(url, " ()") || url == "" {
		url = "<" + url + ">"
	}
	if title == "" {
		return url
	}
	return url + ` "` + strings.ReplaceAll(title, `"`, `\"`) + `"`
}
