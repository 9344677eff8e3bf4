package render

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags end their text with a line break in plain-text output.
var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "pre": true, "blockquote": true, "tr": true, "hr": true,
	"figcaption": true, "dt": true, "dd": true, "div": true,
}

// TextTarget concatenates text. Custom elements, whose names contain a
// hyphen, are elided along with their content.
func TextTarget() Target[string] {
	return Target[string]{
		Text: func(s string) string { return s },
		Element: func(n *html.Node, s *State[string]) string {
			switch {
			case strings.Contains(n.Data, "-"):
				return ""
			case n.Data == "br":
				return "\n"
			case n.Data == "td" || n.Data == "th":
				return s.Children(n) + "\t"
			}
			out := s.Children(n)
			if blockTags[n.Data] && !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			return out
		},
		Join: func(parts []string) string { return strings.Join(parts, "") },
	}
}

// Text renders root to plain text without trailing line breaks.
func Text(root *html.Node) string {
	out := Walk(root, TextTarget(), nil, Options{})
	return strings.TrimRight(out, "\n")
}
