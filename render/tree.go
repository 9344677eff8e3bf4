package render

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-docmark/internal/pipeline"
)

// Element is a node of the composite output tree. Text nodes have an empty
// Tag and carry Text.
type Element struct {
	Tag      string            `yaml:"tag,omitempty" json:"tag,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Text     string            `yaml:"text,omitempty" json:"text,omitempty"`
	Children []*Element        `yaml:"children,omitempty" json:"children,omitempty"`
}

// Elements is the output type of the composite target.
type Elements = []*Element

// TreeTarget renders to composite elements mirroring the input.
func TreeTarget() Target[Elements] {
	return Target[Elements]{
		Text: func(s string) Elements { return Elements{{Text: s}} },
		Element: func(n *html.Node, s *State[Elements]) Elements {
			el := &Element{Tag: n.Data, Children: s.Children(n)}
			if len(n.Attr) > 0 {
				el.Attrs = make(map[string]string, len(n.Attr))
				for _, a := range n.Attr {
					el.Attrs[a.Key] = a.Val
				}
			}
			return Elements{el}
		},
		Join: flatten[*Element],
	}
}

// TreeRenderers resolves variables to their values. Other elements, custom
// ones included, are kept for the caller to interpret.
func TreeRenderers() Map[Elements] {
	return Map[Elements]{
		pipeline.TagVariable: func(n *html.Node, s *State[Elements]) Elements {
			name := attr(n, "name")
			if v, ok := s.Options().Variables[name]; ok {
				return Elements{{Text: v}}
			}
			return Elements{{Tag: n.Data, Attrs: map[string]string{"name": name}}}
		},
	}
}

// Tree renders root to a composite tree. Components are merged over the
// default renderers.
func Tree(root *html.Node, opts Options, components Map[Elements]) Elements {
	return Walk(root, TreeTarget(), Merge(TreeRenderers(), components), opts)
}
