// Package mdast defines the document tree produced by parsing flavored markdown.
//
// A tree is a value: nodes carry no identity beyond their content, and every
// transformation in this module returns a new tree rather than editing one in
// place. The node Type selects which Attrs variant is legal; see Legal.
package mdast

// Type identifies the construct a node represents.
type Type string

// Standard construct types.
const (
	Root          Type = "root"
	Paragraph     Type = "paragraph"
	Heading       Type = "heading"
	ThematicBreak Type = "thematicBreak"
	Blockquote    Type = "blockquote"
	List          Type = "list"
	ListItem      Type = "listItem"
	Code          Type = "code"
	HTML          Type = "html"
	Text          Type = "text"
	Emphasis      Type = "emphasis"
	Strong        Type = "strong"
	Delete        Type = "delete"
	InlineCode    Type = "inlineCode"
	Break         Type = "break"
	Link          Type = "link"
	Image         Type = "image"
	Table         Type = "table"
	TableRow      Type = "tableRow"
	TableCell     Type = "tableCell"
)

// Custom construct types produced by the built-in extensions.
const (
	Callout   Type = "callout"
	CodeTabs  Type = "code-tabs"
	Embed     Type = "embed"
	HTMLBlock Type = "html-block"
	Variable  Type = "variable"
	Glossary  Type = "glossary"
)

// Standard reports whether t belongs to the base grammar.
func (t Type) Standard() bool {
	switch t {
	case Root, Paragraph, Heading, ThematicBreak, Blockquote, List, ListItem,
		Code, HTML, Text, Emphasis, Strong, Delete, InlineCode, Break, Link,
		Image, Table, TableRow, TableCell:
		return true
	}
	return false
}

// Builtin reports whether t is a standard type or one of the custom types
// shipped with this module.
func (t Type) Builtin() bool {
	switch t {
	case Callout, CodeTabs, Embed, HTMLBlock, Variable, Glossary:
		return true
	}
	return t.Standard()
}

// Leaf reports whether nodes of type t carry a Value instead of children.
func (t Type) Leaf() bool {
	switch t {
	case Text, InlineCode, Code, HTML, Break, ThematicBreak, Image,
		Variable, Glossary, Embed, HTMLBlock:
		return true
	}
	return false
}

// Point is a location in the source text. Line and Column are 1-based.
type Point struct {
	Line   int `yaml:"line" json:"line"`
	Column int `yaml:"column" json:"column"`
	Offset int `yaml:"offset" json:"offset"`
}

// Position spans a node's source text.
type Position struct {
	Start Point `yaml:"start" json:"start"`
	End   Point `yaml:"end" json:"end"`
}

// Node is the universal tree unit.
type Node struct {
	Type     Type      `yaml:"type" json:"type"`
	Attrs    Attrs     `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Value    string    `yaml:"value,omitempty" json:"value,omitempty"`
	Children []*Node   `yaml:"children,omitempty" json:"children,omitempty"`
	Position *Position `yaml:"position,omitempty" json:"position,omitempty"`
}

// New builds a node with the given children.
func New(t Type, attrs Attrs, children ...*Node) *Node {
	return &Node{Type: t, Attrs: attrs, Children: children}
}

// NewText builds a text leaf.
func NewText(value string) *Node {
	return &Node{Type: Text, Value: value}
}

// NewLeaf builds a leaf of any type.
func NewLeaf(t Type, attrs Attrs, value string) *Node {
	return &Node{Type: t, Attrs: attrs, Value: value}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Type: n.Type, Value: n.Value}
	if n.Attrs != nil {
		c.Attrs = n.Attrs.clone()
	}
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// As returns the attributes of n as the variant T.
func As[T Attrs](n *Node) (T, bool) {
	var zero T
	if n == nil || n.Attrs == nil {
		return zero, false
	}
	a, ok := n.Attrs.(T)
	return a, ok
}
