package docmark

import (
	"github.com/alnah/go-docmark/internal/sanitize"
	"github.com/alnah/go-docmark/internal/toc"
	"github.com/alnah/go-docmark/render"
	"github.com/alnah/go-docmark/syntax"
)

// Policy is a compiled sanitization allow-list.
type Policy = sanitize.Policy

// PolicyRules is the serialized form of a Policy.
type PolicyRules = sanitize.Rules

// TOCTree is an extracted table of contents.
type TOCTree = toc.Tree

// TOCEntry is one heading of a TOCTree.
type TOCEntry = toc.Entry

// GlossaryTerm is a term explained by glossary references.
type GlossaryTerm = render.GlossaryTerm

// Component renders one custom element to markup.
type Component = render.Func[render.Nodes]

// NewPolicy compiles rules into a Policy.
func NewPolicy(rules PolicyRules) (*Policy, error) {
	return sanitize.New(rules)
}

// ParsePolicy decodes a YAML policy.
func ParsePolicy(data []byte) (*Policy, error) {
	return sanitize.Parse(data)
}

// ConstructNames returns every name accepted by WithDisabledConstructs when
// no extra constructs are registered: the base tokenizers followed by the
// built-in constructs.
func ConstructNames() []string {
	names := syntax.BaseNames()
	for _, c := range syntax.Builtins() {
		names = append(names, c.Name)
	}
	return names
}
