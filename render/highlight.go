package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
)

// highlightStyle names the chroma style. Output uses CSS classes, so the
// style only matters for callers generating a stylesheet.
const highlightStyle = "github"

// codeBlock highlights a pre element when highlighting is on and its
// language has a lexer. Anything else is copied.
func codeBlock(n *html.Node, s *State[Nodes]) Nodes {
	if !s.Options().Highlight {
		return passthrough(n, s)
	}
	lang := codeLang(n)
	if lang == "" {
		return passthrough(n, s)
	}
	out, ok := highlight(textContent(n), lang)
	if !ok {
		return passthrough(n, s)
	}
	return Nodes{{Type: html.RawNode, Data: out}}
}

func highlight(code, lang string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).Format(&b, style, iterator); err != nil {
		return "", false
	}
	return b.String(), true
}
