package mdast

import "maps"

// Attrs is the closed set of per-type attribute variants.
// Only the variants declared in this package implement it.
type Attrs interface {
	clone() Attrs
}

// FrontMatter is the metadata header split off before parsing.
type FrontMatter struct {
	Format string         `yaml:"format" json:"format"` // "yaml" or "toml"
	Raw    string         `yaml:"raw" json:"raw"`
	Data   map[string]any `yaml:"data,omitempty" json:"data,omitempty"` // nil when Raw did not parse
}

// RootAttrs carries document-level side-channel data.
type RootAttrs struct {
	FrontMatter *FrontMatter `yaml:"frontMatter,omitempty" json:"frontMatter,omitempty"`
}

// HeadingAttrs holds the absolute depth and the assigned slug.
type HeadingAttrs struct {
	Depth int    `yaml:"depth" json:"depth"`
	ID    string `yaml:"id,omitempty" json:"id,omitempty"`
}

// CodeAttrs holds the info string of a fenced block.
type CodeAttrs struct {
	Lang string `yaml:"lang,omitempty" json:"lang,omitempty"`
	Meta string `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// ListAttrs describes a list container.
type ListAttrs struct {
	Ordered bool `yaml:"ordered" json:"ordered"`
	Start   int  `yaml:"start,omitempty" json:"start,omitempty"`
	Spread  bool `yaml:"spread" json:"spread"`
}

// ListItemAttrs describes one item; Checked is nil for non-task items.
type ListItemAttrs struct {
	Checked *bool `yaml:"checked,omitempty" json:"checked,omitempty"`
}

// LinkAttrs is the destination of a link.
type LinkAttrs struct {
	URL   string `yaml:"url" json:"url"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}

// ImageAttrs describes an image leaf. Alt is the plain-text description.
type ImageAttrs struct {
	URL     string `yaml:"url" json:"url"`
	Alt     string `yaml:"alt,omitempty" json:"alt,omitempty"`
	Title   string `yaml:"title,omitempty" json:"title,omitempty"`
	Caption string `yaml:"caption,omitempty" json:"caption,omitempty"`
	Width   string `yaml:"width,omitempty" json:"width,omitempty"`
	Align   string `yaml:"align,omitempty" json:"align,omitempty"`
}

// Alignment of a table column.
type Alignment string

// Column alignments.
const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TableAttrs lists column alignments.
type TableAttrs struct {
	Align []Alignment `yaml:"align,omitempty" json:"align,omitempty"`
}

// TableCellAttrs marks header cells and their alignment.
type TableCellAttrs struct {
	Header bool      `yaml:"header,omitempty" json:"header,omitempty"`
	Align  Alignment `yaml:"align,omitempty" json:"align,omitempty"`
}

// CalloutAttrs describes a callout box.
type CalloutAttrs struct {
	Icon  string `yaml:"icon" json:"icon"`
	Theme string `yaml:"theme" json:"theme"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}

// EmbedAttrs describes an embedded resource.
type EmbedAttrs struct {
	URL      string `yaml:"url" json:"url"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"`
}

// HTMLBlockAttrs describes a raw HTML block; its markup is the node Value.
type HTMLBlockAttrs struct {
	RunScripts bool `yaml:"runScripts,omitempty" json:"runScripts,omitempty"`
}

// VariableAttrs names a variable reference.
type VariableAttrs struct {
	Name string `yaml:"name" json:"name"`
}

// GlossaryAttrs names a glossary term reference.
type GlossaryAttrs struct {
	Term string `yaml:"term" json:"term"`
}

// Props carries free-form attributes for node types registered by callers.
// It is not legal on built-in types.
type Props map[string]string

func (a *RootAttrs) clone() Attrs {
	c := *a
	if a.FrontMatter != nil {
		fm := *a.FrontMatter
		fm.Data = maps.Clone(a.FrontMatter.Data)
		c.FrontMatter = &fm
	}
	return &c
}

func (a *HeadingAttrs) clone() Attrs   { c := *a; return &c }
func (a *CodeAttrs) clone() Attrs      { c := *a; return &c }
func (a *ListAttrs) clone() Attrs      { c := *a; return &c }
func (a *LinkAttrs) clone() Attrs      { c := *a; return &c }
func (a *ImageAttrs) clone() Attrs     { c := *a; return &c }
func (a *CalloutAttrs) clone() Attrs   { c := *a; return &c }
func (a *EmbedAttrs) clone() Attrs     { c := *a; return &c }
func (a *HTMLBlockAttrs) clone() Attrs { c := *a; return &c }
func (a *VariableAttrs) clone() Attrs  { c := *a; return &c }
func (a *GlossaryAttrs) clone() Attrs  { c := *a; return &c }
func (a *TableCellAttrs) clone() Attrs { c := *a; return &c }
func (p Props) clone() Attrs           { return maps.Clone(p) }

func (a *ListItemAttrs) clone() Attrs {
	c := *a
	if a.Checked != nil {
		v := *a.Checked
		c.Checked = &v
	}
	return &c
}

func (a *TableAttrs) clone() Attrs {
	return &TableAttrs{Align: append([]Alignment(nil), a.Align...)}
}

// Legal reports whether attrs may appear on a node of type t.
// Nil attributes are legal everywhere.
func Legal(t Type, attrs Attrs) bool {
	switch attrs.(type) {
	case nil:
		return true
	case *RootAttrs:
		return t == Root
	case *HeadingAttrs:
		return t == Heading
	case *CodeAttrs:
		return t == Code
	case *ListAttrs:
		return t == List
	case *ListItemAttrs:
		return t == ListItem
	case *LinkAttrs:
		return t == Link
	case *ImageAttrs:
		return t == Image
	case *TableAttrs:
		return t == Table
	case *TableCellAttrs:
		return t == TableCell
	case *CalloutAttrs:
		return t == Callout
	case *EmbedAttrs:
		return t == Embed
	case *HTMLBlockAttrs:
		return t == HTMLBlock
	case *VariableAttrs:
		return t == Variable
	case *GlossaryAttrs:
		return t == Glossary
	case Props:
		return !t.Builtin()
	}
	return false
}
