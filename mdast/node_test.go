package mdast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDoc() *Node {
	return New(Root, &RootAttrs{},
		New(Heading, &HeadingAttrs{Depth: 2, ID: "intro"}, NewText("Intro "), NewLeaf(InlineCode, nil, "x")),
		New(Paragraph, nil,
			NewText("see "),
			New(Link, &LinkAttrs{URL: "https://example.com"}, NewText("here")),
			NewLeaf(Image, &ImageAttrs{URL: "a.png", Alt: "pic"}, ""),
		),
	)
}

// ---------------------------------------------------------------------------
// TestLegal - attribute variants are bound to node types
// ---------------------------------------------------------------------------

func TestLegal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		typ   Type
		attrs Attrs
		want  bool
	}{
		{name: "nil attrs legal anywhere", typ: Paragraph, attrs: nil, want: true},
		{name: "heading attrs on heading", typ: Heading, attrs: &HeadingAttrs{Depth: 1}, want: true},
		{name: "heading attrs on paragraph", typ: Paragraph, attrs: &HeadingAttrs{Depth: 1}, want: false},
		{name: "code attrs on inline code", typ: InlineCode, attrs: &CodeAttrs{Lang: "go"}, want: false},
		{name: "callout attrs on callout", typ: Callout, attrs: &CalloutAttrs{Icon: "📘"}, want: true},
		{name: "props on caller type", typ: Type("chart"), attrs: Props{"kind": "bar"}, want: true},
		{name: "props on builtin type", typ: Embed, attrs: Props{"kind": "bar"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Legal(tt.typ, tt.attrs); got != tt.want {
				t.Errorf("Legal(%q, %T) = %v, want %v", tt.typ, tt.attrs, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNormalize - illegal shapes are dropped, input untouched
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	in := New(Root, nil,
		New(Paragraph, &HeadingAttrs{Depth: 3}, NewText("a")),
		New(Heading, &HeadingAttrs{Depth: 9}, NewText("b")),
		New(Heading, nil, NewText("c")),
		&Node{Type: Text, Value: "d", Children: []*Node{NewText("stray")}},
	)

	got := Normalize(in)

	want := New(Root, nil,
		New(Paragraph, nil, NewText("a")),
		New(Heading, &HeadingAttrs{Depth: 6}, NewText("b")),
		New(Heading, &HeadingAttrs{Depth: 1}, NewText("c")),
		NewText("d"),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := in.Children[0].Attrs.(*HeadingAttrs); !ok {
		t.Error("Normalize() modified its input")
	}
}

// ---------------------------------------------------------------------------
// TestClone - deep copies are independent
// ---------------------------------------------------------------------------

func TestClone(t *testing.T) {
	t.Parallel()

	checked := true
	orig := New(List, &ListAttrs{}, New(ListItem, &ListItemAttrs{Checked: &checked}, NewText("task")))
	c := orig.Clone()

	*c.Children[0].Attrs.(*ListItemAttrs).Checked = false
	c.Children[0].Children[0].Value = "changed"

	if !*orig.Children[0].Attrs.(*ListItemAttrs).Checked {
		t.Error("Clone() shares Checked pointer with original")
	}
	if orig.Children[0].Children[0].Value != "task" {
		t.Error("Clone() shares child nodes with original")
	}
}

// ---------------------------------------------------------------------------
// TestEqual - structural equality ignores positions
// ---------------------------------------------------------------------------

func TestEqual(t *testing.T) {
	t.Parallel()

	a := sampleDoc()
	b := sampleDoc()
	b.Children[0].Position = &Position{Start: Point{Line: 1, Column: 1}}

	if !Equal(a, b) {
		t.Error("Equal() = false for trees differing only in position")
	}

	b.Children[0].Attrs.(*HeadingAttrs).ID = "other"
	if Equal(a, b) {
		t.Error("Equal() = true for trees with different attributes")
	}
}

// ---------------------------------------------------------------------------
// TestSelect / TestTextContent - generic traversal helpers
// ---------------------------------------------------------------------------

func TestOfType(t *testing.T) {
	t.Parallel()

	texts := OfType(sampleDoc(), Text)
	if len(texts) != 3 {
		t.Fatalf("OfType(Text) returned %d nodes, want 3", len(texts))
	}
	if texts[2].Value != "here" {
		t.Errorf("last text = %q, want %q", texts[2].Value, "here")
	}
}

func TestTextContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *Node
		want string
	}{
		{name: "nil node", node: nil, want: ""},
		{name: "heading with inline code", node: sampleDoc().Children[0], want: "Intro x"},
		{name: "paragraph with image alt", node: sampleDoc().Children[1], want: "see herepic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TextContent(tt.node); got != tt.want {
				t.Errorf("TextContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	t.Parallel()

	h, ok := As[*HeadingAttrs](sampleDoc().Children[0])
	if !ok || h.Depth != 2 {
		t.Errorf("As[*HeadingAttrs]() = %v, %v; want depth 2", h, ok)
	}
	if _, ok := As[*LinkAttrs](sampleDoc().Children[0]); ok {
		t.Error("As[*LinkAttrs]() on heading = true, want false")
	}
}
