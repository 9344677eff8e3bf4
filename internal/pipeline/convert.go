package pipeline

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"

	"github.com/alnah/go-docmark/mdast"
	"github.com/alnah/go-docmark/syntax"
)

// lineIndex maps byte offsets of a parsed source to points. base shifts
// offsets and lines to account for text removed before parsing.
type lineIndex struct {
	starts     []int
	baseOffset int
	baseLine   int
}

func newLineIndex(src []byte, baseOffset, baseLine int) *lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts, baseOffset: baseOffset, baseLine: baseLine}
}

func (l *lineIndex) point(off int) mdast.Point {
	line := sort.SearchInts(l.starts, off+1) - 1
	return mdast.Point{
		Line:   l.baseLine + line + 1,
		Column: off - l.starts[line] + 1,
		Offset: l.baseOffset + off,
	}
}

// converter turns a goldmark AST into a document tree.
type converter struct {
	src    []byte
	logger *zap.Logger
	lines  *lineIndex // nil for nested parses, which carry no positions
}

func (c *converter) at(n *mdast.Node, start, stop int) *mdast.Node {
	if c.lines == nil || start < 0 || stop < start || stop > len(c.src) {
		return n
	}
	n.Position = &mdast.Position{Start: c.lines.point(start), End: c.lines.point(stop)}
	return n
}

func (c *converter) atLines(n *mdast.Node, b ast.Node) *mdast.Node {
	lines := b.Lines()
	if lines.Len() == 0 {
		return n
	}
	stop := lines.At(lines.Len() - 1).Stop
	if stop > 0 && c.src[stop-1] == '\n' {
		stop--
	}
	return c.at(n, lines.At(0).Start, stop)
}

func (c *converter) children(n ast.Node) []*mdast.Node {
	var out []*mdast.Node
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		out = append(out, c.convert(ch)...)
	}
	return mergeTexts(out)
}

func (c *converter) container(t mdast.Type, attrs mdast.Attrs, n ast.Node) *mdast.Node {
	node := mdast.New(t, attrs, c.children(n)...)
	spanChildren(node)
	return node
}

func (c *converter) convert(n ast.Node) []*mdast.Node {
	switch n := n.(type) {
	case *ast.Document:
		return []*mdast.Node{c.container(mdast.Root, nil, n)}

	case *ast.Paragraph, *ast.TextBlock:
		kids := trimBreaks(c.children(n))
		if len(kids) == 0 {
			return nil
		}
		p := mdast.New(mdast.Paragraph, nil, kids...)
		c.atLines(p, n)
		return []*mdast.Node{p}

	case *ast.Heading:
		h := mdast.New(mdast.Heading, &mdast.HeadingAttrs{Depth: n.Level}, trimBreaks(c.children(n))...)
		return []*mdast.Node{c.atLines(h, n)}

	case *ast.ThematicBreak:
		return []*mdast.Node{mdast.NewLeaf(mdast.ThematicBreak, nil, "")}

	case *ast.Blockquote:
		return []*mdast.Node{c.container(mdast.Blockquote, nil, n)}

	case *ast.List:
		attrs := &mdast.ListAttrs{Ordered: n.IsOrdered(), Spread: !n.IsTight}
		if n.IsOrdered() {
			attrs.Start = n.Start
		}
		return []*mdast.Node{c.container(mdast.List, attrs, n)}

	case *ast.ListItem:
		return []*mdast.Node{c.listItem(n)}

	case *ast.FencedCodeBlock:
		attrs := &mdast.CodeAttrs{}
		if n.Info != nil {
			info := strings.TrimSpace(string(n.Info.Segment.Value(c.src)))
			lang, meta, _ := strings.Cut(info, " ")
			attrs.Lang, attrs.Meta = string(util.UnescapePunctuations([]byte(lang))), strings.TrimSpace(meta)
		}
		code := mdast.NewLeaf(mdast.Code, attrs, c.linesValue(n))
		return []*mdast.Node{c.atLines(code, n)}

	case *ast.CodeBlock:
		return []*mdast.Node{c.atLines(mdast.NewLeaf(mdast.Code, nil, c.linesValue(n)), n)}

	case *ast.HTMLBlock:
		value := string(n.Lines().Value(c.src))
		if n.HasClosure() {
			value += string(n.ClosureLine.Value(c.src))
		}
		return []*mdast.Node{c.atLines(mdast.NewLeaf(mdast.HTML, nil, strings.TrimRight(value, "\n")), n)}

	case *ast.Text:
		return c.text(n)

	case *ast.String:
		return []*mdast.Node{mdast.NewText(string(n.Value))}

	case *ast.Emphasis:
		t := mdast.Emphasis
		if n.Level >= 2 {
			t = mdast.Strong
		}
		return []*mdast.Node{c.container(t, nil, n)}

	case *ast.CodeSpan:
		var b strings.Builder
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			if t, ok := ch.(*ast.Text); ok {
				b.Write(t.Segment.Value(c.src))
				if t.SoftLineBreak() {
					b.WriteByte(' ')
				}
			} else if s, ok := ch.(*ast.String); ok {
				b.Write(s.Value)
			}
		}
		code := mdast.NewLeaf(mdast.InlineCode, nil, b.String())
		if first, ok := n.FirstChild().(*ast.Text); ok {
			if last, ok := n.LastChild().(*ast.Text); ok {
				c.at(code, first.Segment.Start, last.Segment.Stop)
			}
		}
		return []*mdast.Node{code}

	case *ast.Link:
		return []*mdast.Node{c.container(mdast.Link, &mdast.LinkAttrs{
			URL:   string(util.UnescapePunctuations(n.Destination)),
			Title: string(util.UnescapePunctuations(n.Title)),
		}, n)}

	case *ast.AutoLink:
		return []*mdast.Node{mdast.New(mdast.Link,
			&mdast.LinkAttrs{URL: string(n.URL(c.src))},
			mdast.NewText(string(n.Label(c.src))))}

	case *ast.Image:
		alt := mdast.New(mdast.Paragraph, nil, c.children(n)...)
		return []*mdast.Node{mdast.NewLeaf(mdast.Image, &mdast.ImageAttrs{
			URL:   string(util.UnescapePunctuations(n.Destination)),
			Alt:   mdast.TextContent(alt),
			Title: string(util.UnescapePunctuations(n.Title)),
		}, "")}

	case *ast.RawHTML:
		raw := mdast.NewLeaf(mdast.HTML, nil, string(n.Segments.Value(c.src)))
		if n.Segments.Len() > 0 {
			c.at(raw, n.Segments.At(0).Start, n.Segments.At(n.Segments.Len()-1).Stop)
		}
		return []*mdast.Node{raw}

	case *extast.Strikethrough:
		return []*mdast.Node{c.container(mdast.Delete, nil, n)}

	case *extast.Table:
		align := make([]mdast.Alignment, len(n.Alignments))
		for i, a := range n.Alignments {
			align[i] = alignment(a)
		}
		return []*mdast.Node{c.container(mdast.Table, &mdast.TableAttrs{Align: align}, n)}

	case *extast.TableHeader:
		row := c.container(mdast.TableRow, nil, n)
		for _, cell := range row.Children {
			if a, ok := mdast.As[*mdast.TableCellAttrs](cell); ok {
				a.Header = true
			}
		}
		return []*mdast.Node{row}

	case *extast.TableRow:
		return []*mdast.Node{c.container(mdast.TableRow, nil, n)}

	case *extast.TableCell:
		cell := mdast.New(mdast.TableCell, &mdast.TableCellAttrs{Align: alignment(n.Alignment)}, trimBreaks(c.children(n))...)
		return []*mdast.Node{c.atLines(cell, n)}

	case *extast.TaskCheckBox:
		return nil // folded into the list item

	case *syntax.BlockNode:
		stop := n.Stop
		if stop > n.Start && c.src[stop-1] == '\n' {
			stop--
		}
		return []*mdast.Node{c.at(n.Tree, n.Start, stop)}

	case *syntax.InlineNode:
		return []*mdast.Node{c.at(n.Tree, n.Start, n.Stop)}
	}

	return c.unknown(n)
}

// unknown keeps the text of a goldmark node this converter has no rule for.
func (c *converter) unknown(n ast.Node) []*mdast.Node {
	c.logger.Warn("unknown syntax node kept as text", zap.String("kind", n.Kind().String()))
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return []*mdast.Node{mdast.New(mdast.Paragraph, nil, mdast.NewText(c.linesValue(n)))}
	}
	return c.children(n)
}

func (c *converter) linesValue(n ast.Node) string {
	return strings.TrimSuffix(string(n.Lines().Value(c.src)), "\n")
}

func (c *converter) text(n *ast.Text) []*mdast.Node {
	value := n.Segment.Value(c.src)
	if !n.IsRaw() {
		value = util.UnescapePunctuations(value)
		value = util.ResolveNumericReferences(value)
		value = util.ResolveEntityNames(value)
	}
	t := c.at(mdast.NewText(string(value)), n.Segment.Start, n.Segment.Stop)
	switch {
	case n.HardLineBreak():
		return []*mdast.Node{t, mdast.NewLeaf(mdast.Break, nil, "")}
	case n.SoftLineBreak():
		t.Value += "\n"
	}
	return []*mdast.Node{t}
}

func (c *converter) listItem(n *ast.ListItem) *mdast.Node {
	attrs := &mdast.ListItemAttrs{}
	if first := n.FirstChild(); first != nil {
		if box, ok := first.FirstChild().(*extast.TaskCheckBox); ok {
			checked := box.IsChecked
			attrs.Checked = &checked
		}
	}
	item := c.container(mdast.ListItem, attrs, n)
	if attrs.Checked != nil && len(item.Children) > 0 && item.Children[0].Type == mdast.Paragraph {
		para := item.Children[0]
		if len(para.Children) > 0 && para.Children[0].Type == mdast.Text {
			para.Children[0].Value = strings.TrimLeft(para.Children[0].Value, " \t")
			if para.Children[0].Value == "" {
				para.Children = para.Children[1:]
			}
		}
	}
	return item
}

func alignment(a extast.Alignment) mdast.Alignment {
	switch a {
	case extast.AlignLeft:
		return mdast.AlignLeft
	case extast.AlignCenter:
		return mdast.AlignCenter
	case extast.AlignRight:
		return mdast.AlignRight
	}
	return mdast.AlignNone
}

// mergeTexts joins adjacent text nodes.
func mergeTexts(nodes []*mdast.Node) []*mdast.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if last := len(out) - 1; last >= 0 && n.Type == mdast.Text && out[last].Type == mdast.Text {
			prev := out[last]
			prev.Value += n.Value
			if prev.Position != nil && n.Position != nil {
				prev.Position.End = n.Position.End
			}
			continue
		}
		out = append(out, n)
	}
	return out
}

// trimBreaks drops trailing line breaks and trailing newlines of the last
// text node, which carry no content at the end of a block.
func trimBreaks(nodes []*mdast.Node) []*mdast.Node {
	for len(nodes) > 0 {
		last := nodes[len(nodes)-1]
		if last.Type == mdast.Break {
			nodes = nodes[:len(nodes)-1]
			continue
		}
		if last.Type == mdast.Text {
			last.Value = strings.TrimRight(last.Value, "\n")
			if last.Value == "" {
				nodes = nodes[:len(nodes)-1]
				continue
			}
		}
		break
	}
	return nodes
}

// spanChildren sets the position of a container from its first and last
// positioned children.
func spanChildren(n *mdast.Node) {
	if n.Position != nil {
		return
	}
	var first, last *mdast.Position
	for _, c := range n.Children {
		if c.Position == nil {
			continue
		}
		if first == nil {
			first = c.Position
		}
		last = c.Position
	}
	if first != nil {
		n.Position = &mdast.Position{Start: first.Start, End: last.End}
	}
}
