package syntax

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/alnah/go-docmark/mdast"
)

// Default orders of the built-in inline constructs.
const (
	OrderGlossary = 40
	OrderVariable = 45
	OrderEmbed    = 150 // before links
)

var (
	glossaryPattern = regexp.MustCompile(`^<<glossary:([^<>\n]+?)>>`)
	variablePattern = regexp.MustCompile(`^<<([\w:.\- ]+)>>`)
	embedPattern    = regexp.MustCompile(`^\[([^\[\]\n]*)\]\(\s*(\S+?)\s+"@embed"\s*\)`)
)

func matchLen(re *regexp.Regexp) RecognizeFunc {
	return func(src []byte) int {
		loc := re.FindIndex(src)
		if loc == nil {
			return 0
		}
		return loc[1]
	}
}

// Glossary recognizes <<glossary:term>> references.
func Glossary() Construct {
	return Construct{
		Name:      "glossary",
		Kind:      Inline,
		Order:     OrderGlossary,
		Trigger:   []byte{'<'},
		Types:     []mdast.Type{mdast.Glossary},
		Recognize: matchLen(glossaryPattern),
		Produce: func(span []byte, _ Context) (*mdast.Node, error) {
			m := glossaryPattern.FindSubmatch(span)
			term := strings.TrimSpace(string(m[1]))
			if term == "" {
				return nil, fmt.Errorf("%w: empty glossary term", ErrMalformed)
			}
			return mdast.NewLeaf(mdast.Glossary, &mdast.GlossaryAttrs{Term: term}, ""), nil
		},
		Serialize: func(n *mdast.Node, _ Printer) (string, bool) {
			g, ok := mdast.As[*mdast.GlossaryAttrs](n)
			if !ok {
				return "", false
			}
			return "<<glossary:" + g.Term + ">>", true
		},
	}
}

// Variable recognizes <<name>> references.
func Variable() Construct {
	return Construct{
		Name:      "variable",
		Kind:      Inline,
		Order:     OrderVariable,
		Trigger:   []byte{'<'},
		Types:     []mdast.Type{mdast.Variable},
		Recognize: matchLen(variablePattern),
		Produce: func(span []byte, _ Context) (*mdast.Node, error) {
			m := variablePattern.FindSubmatch(span)
			name := strings.TrimSpace(string(m[1]))
			if name == "" {
				return nil, fmt.Errorf("%w: empty variable name", ErrMalformed)
			}
			return mdast.NewLeaf(mdast.Variable, &mdast.VariableAttrs{Name: name}, ""), nil
		},
		Serialize: func(n *mdast.Node, _ Printer) (string, bool) {
			v, ok := mdast.As[*mdast.VariableAttrs](n)
			if !ok {
				return "", false
			}
			return "<<" + v.Name + ">>", true
		},
	}
}

// Embed recognizes [title](url "@embed") links.
func Embed() Construct {
	return Construct{
		Name:      "embed",
		Kind:      Inline,
		Order:     OrderEmbed,
		Trigger:   []byte{'['},
		Types:     []mdast.Type{mdast.Embed},
		Recognize: matchLen(embedPattern),
		Produce: func(span []byte, _ Context) (*mdast.Node, error) {
			m := embedPattern.FindSubmatch(span)
			return NewEmbed(string(m[2]), strings.TrimSpace(string(m[1])), "")
		},
		Serialize: func(n *mdast.Node, _ Printer) (string, bool) {
			e, ok := mdast.As[*mdast.EmbedAttrs](n)
			if !ok {
				return "", false
			}
			return "[" + e.Title + "](" + e.URL + ` "@embed")`, true
		},
	}
}

// NewEmbed builds an embed node. The provider defaults to the URL host
// without its "www." prefix and top-level domain.
func NewEmbed(rawURL, title, provider string) (*mdast.Node, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: embed url %q", ErrMalformed, rawURL)
	}
	if provider == "" {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if i := strings.LastIndexByte(host, '.'); i > 0 {
			host = host[:i]
		}
		provider = host
	}
	return mdast.NewLeaf(mdast.Embed, &mdast.EmbedAttrs{URL: rawURL, Title: title, Provider: provider}, ""), nil
}
