package syntax

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alnah/go-docmark/mdast"
)

// Default orders of the built-in block constructs.
const (
	OrderCodeTabs = 650 // before fenced code
	OrderCallout  = 750 // before blockquote
)

// fence describes an opening code fence line.
type fence struct {
	char   byte
	length int
	info   string
}

func openFence(line []byte) (fence, bool) {
	trimmed := bytes.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return fence{}, false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return fence{}, false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	info := strings.TrimSpace(string(trimmed[n:]))
	if c == '`' && strings.ContainsRune(info, '`') {
		return fence{}, false
	}
	return fence{char: c, length: n, info: info}, true
}

func (f fence) closes(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) < f.length {
		return false
	}
	for _, b := range trimmed {
		if b != f.char {
			return false
		}
	}
	return true
}

// nextLine returns the line starting at off (without its newline) and the
// offset of the following line.
func nextLine(src []byte, off int) ([]byte, int) {
	if i := bytes.IndexByte(src[off:], '\n'); i >= 0 {
		return src[off : off+i], off + i + 1
	}
	return src[off:], len(src)
}

type fencedBlock struct {
	fence
	body string
}

// scanFences reads consecutive fenced code blocks with no blank line between
// them and returns them with the offset just past the last closing fence.
func scanFences(src []byte) ([]fencedBlock, int) {
	var blocks []fencedBlock
	off, end := 0, 0
	for off < len(src) {
		line, next := nextLine(src, off)
		f, ok := openFence(line)
		if !ok {
			break
		}
		var body []string
		closed := false
		for pos := next; pos < len(src); {
			l, n := nextLine(src, pos)
			pos = n
			if f.closes(l) {
				closed = true
				next = n
				break
			}
			body = append(body, string(l))
		}
		if !closed {
			break
		}
		blocks = append(blocks, fencedBlock{fence: f, body: strings.Join(body, "\n")})
		off, end = next, next
	}
	return blocks, end
}

func splitInfo(info string) (lang, meta string) {
	lang, meta, _ = strings.Cut(info, " ")
	return lang, strings.TrimSpace(meta)
}

// CodeTabs recognizes two or more adjacent fenced code blocks. The meta text
// after the language names each tab.
func CodeTabs() Construct {
	return Construct{
		Name:    "code-tabs",
		Kind:    Block,
		Order:   OrderCodeTabs,
		Trigger: []byte{'`', '~'},
		Types:   []mdast.Type{mdast.CodeTabs},
		Recognize: func(src []byte) int {
			blocks, end := scanFences(src)
			if len(blocks) < 2 {
				return 0
			}
			return end
		},
		Produce: func(span []byte, _ Context) (*mdast.Node, error) {
			blocks, _ := scanFences(span)
			if len(blocks) < 2 {
				return nil, fmt.Errorf("%w: code tabs need two fences", ErrMalformed)
			}
			tabs := mdast.New(mdast.CodeTabs, nil)
			for _, b := range blocks {
				lang, meta := splitInfo(b.info)
				tabs.Children = append(tabs.Children, mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: lang, Meta: meta}, b.body))
			}
			return tabs, nil
		},
		Serialize: func(n *mdast.Node, _ Printer) (string, bool) {
			parts := make([]string, 0, len(n.Children))
			for _, c := range n.Children {
				if c.Type != mdast.Code {
					return "", false
				}
				parts = append(parts, FenceCode(c))
			}
			return strings.Join(parts, "\n"), true
		},
	}
}

// FenceCode prints a code node as a backtick fence long enough to contain
// its content.
func FenceCode(n *mdast.Node) string {
	longest, run := 0, 0
	for _, r := range n.Value {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	marker := strings.Repeat("`", max(3, longest+1))

	var b strings.Builder
	b.WriteString(marker)
	if c, ok := mdast.As[*mdast.CodeAttrs](n); ok {
		b.WriteString(c.Lang)
		if c.Meta != "" {
			b.WriteString(" " + c.Meta)
		}
	}
	b.WriteString("\n")
	if n.Value != "" {
		b.WriteString(n.Value)
		b.WriteString("\n")
	}
	b.WriteString(marker)
	return b.String()
}

// calloutIcons maps the leading emoji of a callout blockquote to its theme.
var calloutIcons = []struct{ icon, theme string }{
	{"📘", "info"},
	{"ℹ️", "info"},
	{"👍", "okay"},
	{"✅", "okay"},
	{"🚧", "warn"},
	{"⚠️", "warn"},
	{"❗️", "error"},
	{"❗", "error"},
	{"🛑", "error"},
}

// CalloutTheme returns the theme for a callout icon, or "" if unknown.
func CalloutTheme(icon string) string {
	for _, c := range calloutIcons {
		if c.icon == icon {
			return c.theme
		}
	}
	return ""
}

// quoteContent strips the blockquote marker from a line.
func quoteContent(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) == 0 || trimmed[0] != '>' {
		return nil, false
	}
	rest := trimmed[1:]
	if len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}
	return rest, true
}

func calloutHead(line []byte) (icon, title string, ok bool) {
	content, ok := quoteContent(line)
	if !ok {
		return "", "", false
	}
	for _, c := range calloutIcons {
		if rest, found := bytes.CutPrefix(content, []byte(c.icon)); found {
			return c.icon, strings.TrimSpace(string(rest)), true
		}
	}
	return "", "", false
}

// Callout recognizes a blockquote whose first line starts with a callout
// emoji. The rest of that line is the title; following quoted lines are the
// body. Lazy continuation lines are not part of a callout.
func Callout() Construct {
	return Construct{
		Name:    "callout",
		Kind:    Block,
		Order:   OrderCallout,
		Trigger: []byte{'>'},
		Types:   []mdast.Type{mdast.Callout},
		Recognize: func(src []byte) int {
			first, off := nextLine(src, 0)
			if _, _, ok := calloutHead(first); !ok {
				return 0
			}
			for off < len(src) {
				line, next := nextLine(src, off)
				if _, ok := quoteContent(line); !ok {
					break
				}
				off = next
			}
			return off
		},
		Produce: func(span []byte, ctx Context) (*mdast.Node, error) {
			first, off := nextLine(span, 0)
			icon, title, ok := calloutHead(first)
			if !ok {
				return nil, fmt.Errorf("%w: callout without icon", ErrMalformed)
			}
			var body [][]byte
			for off < len(span) {
				line, next := nextLine(span, off)
				content, _ := quoteContent(line)
				body = append(body, content)
				off = next
			}
			return mdast.New(mdast.Callout,
				&mdast.CalloutAttrs{Icon: icon, Theme: CalloutTheme(icon), Title: title},
				ctx.Blocks(bytes.Join(body, []byte("\n")))...), nil
		},
		Serialize: func(n *mdast.Node, p Printer) (string, bool) {
			c, ok := mdast.As[*mdast.CalloutAttrs](n)
			if !ok {
				return "", false
			}
			var b strings.Builder
			b.WriteString("> " + c.Icon)
			if c.Title != "" {
				b.WriteString(" " + c.Title)
			}
			if body := p.Blocks(n.Children); body != "" {
				for _, line := range strings.Split(body, "\n") {
					b.WriteString("\n>")
					if line != "" {
						b.WriteString(" " + line)
					}
				}
			}
			return b.String(), true
		},
	}
}

// Builtins returns the custom constructs shipped with this module.
func Builtins() []Construct {
	return []Construct{
		Glossary(),
		Variable(),
		Embed(),
		HTMLBlock(),
		MagicBlock(),
		CodeTabs(),
		Callout(),
	}
}
