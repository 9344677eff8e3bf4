package syntax

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-docmark/mdast"
)

// ---------------------------------------------------------------------------
// Recognize
// ---------------------------------------------------------------------------

func TestRecognize(t *testing.T) {
	t.Parallel()

	tabs := "```js first\nx\n```\n~~~py second\ny\n~~~\n"
	callout := "> 📘 Title\n> body\n"

	tests := []struct {
		name      string
		construct Construct
		src       string
		want      int
	}{
		{"glossary", Glossary(), "<<glossary:API>> rest", len("<<glossary:API>>")},
		{"glossary needs prefix", Glossary(), "<<API>>", 0},
		{"variable", Variable(), "<<user.name>>!", len("<<user.name>>")},
		{"variable rejects markup", Variable(), "<<a<b>>", 0},
		{"embed", Embed(), `[Video](https://example.com/v "@embed") tail`, len(`[Video](https://example.com/v "@embed")`)},
		{"plain link is not embed", Embed(), `[Video](https://example.com/v)`, 0},
		{"html block", HTMLBlock(), "[block:html]\n{\"html\": \"<b>x</b>\"}\n[/block]\nafter", len("[block:html]\n{\"html\": \"<b>x</b>\"}\n[/block]")},
		{"html block ignores other types", HTMLBlock(), "[block:callout]\n{}\n[/block]", 0},
		{"magic block any type", MagicBlock(), "[block:unknown-type]\ngarbage\n[/block]", len("[block:unknown-type]\ngarbage\n[/block]")},
		{"magic block unterminated", MagicBlock(), "[block:code]\n{}\n", 0},
		{"code tabs", CodeTabs(), tabs + "\nafter", len(tabs)},
		{"single fence is not tabs", CodeTabs(), "```js\nx\n```\n\n```py\ny\n```\n", 0},
		{"unclosed second fence", CodeTabs(), "```js\nx\n```\n```py\ny\n", 0},
		{"callout", Callout(), callout + "\nnext", len(callout)},
		{"blockquote is not callout", Callout(), "> plain quote\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.construct.Recognize([]byte(tt.src)); got != tt.want {
				t.Errorf("Recognize(%q) = %d, want %d", tt.src, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Produce
// ---------------------------------------------------------------------------

func TestProduce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		construct Construct
		src       string
		want      *mdast.Node
	}{
		{
			name:      "glossary",
			construct: Glossary(),
			src:       "<<glossary: API >>",
			want:      mdast.NewLeaf(mdast.Glossary, &mdast.GlossaryAttrs{Term: "API"}, ""),
		},
		{
			name:      "variable",
			construct: Variable(),
			src:       "<<user.name>>",
			want:      mdast.NewLeaf(mdast.Variable, &mdast.VariableAttrs{Name: "user.name"}, ""),
		},
		{
			name:      "embed provider from host",
			construct: Embed(),
			src:       `[Talk](https://www.youtube.com/watch?v=1 "@embed")`,
			want: mdast.NewLeaf(mdast.Embed, &mdast.EmbedAttrs{
				URL: "https://www.youtube.com/watch?v=1", Title: "Talk", Provider: "youtube",
			}, ""),
		},
		{
			name:      "html block",
			construct: HTMLBlock(),
			src:       "[block:html]\n{\"html\": \"<b>x</b>\", \"runScripts\": true}\n[/block]",
			want:      mdast.NewLeaf(mdast.HTMLBlock, &mdast.HTMLBlockAttrs{RunScripts: true}, "<b>x</b>"),
		},
		{
			name:      "magic callout",
			construct: MagicBlock(),
			src:       "[block:callout]\n{\"type\": \"warning\", \"title\": \"Careful\", \"body\": \"Hot\"}\n[/block]",
			want: mdast.New(mdast.Callout, &mdast.CalloutAttrs{Icon: "🚧", Theme: "warn", Title: "Careful"},
				mdast.New(mdast.Paragraph, nil, mdast.NewText("Hot"))),
		},
		{
			name:      "magic single code",
			construct: MagicBlock(),
			src:       "[block:code]\n{\"codes\": [{\"code\": \"echo\", \"language\": \"sh\"}]}\n[/block]",
			want:      mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: "sh"}, "echo"),
		},
		{
			name:      "magic code tabs",
			construct: MagicBlock(),
			src:       "[block:code]\n{\"codes\": [{\"code\": \"a\", \"language\": \"js\", \"name\": \"A\"}, {\"code\": \"b\", \"language\": \"py\"}]}\n[/block]",
			want: mdast.New(mdast.CodeTabs, nil,
				mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: "js", Meta: "A"}, "a"),
				mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: "py"}, "b")),
		},
		{
			name:      "magic api header",
			construct: MagicBlock(),
			src:       "[block:api-header]\n{\"title\": \"Users\"}\n[/block]",
			want:      mdast.New(mdast.Heading, &mdast.HeadingAttrs{Depth: 2}, mdast.NewText("Users")),
		},
		{
			name:      "magic parameters",
			construct: MagicBlock(),
			src:       "[block:parameters]\n{\"data\": {\"h-0\": \"Name\", \"0-0\": \"id\"}, \"cols\": 1, \"rows\": 1}\n[/block]",
			want: mdast.New(mdast.Table, &mdast.TableAttrs{Align: []mdast.Alignment{mdast.AlignNone}},
				mdast.New(mdast.TableRow, nil,
					mdast.New(mdast.TableCell, &mdast.TableCellAttrs{Header: true}, mdast.NewText("Name"))),
				mdast.New(mdast.TableRow, nil,
					mdast.New(mdast.TableCell, &mdast.TableCellAttrs{}, mdast.NewText("id")))),
		},
		{
			name:      "code tabs",
			construct: CodeTabs(),
			src:       "```js first\nx\n```\n```py\ny\n```\n",
			want: mdast.New(mdast.CodeTabs, nil,
				mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: "js", Meta: "first"}, "x"),
				mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: "py"}, "y")),
		},
		{
			name:      "callout",
			construct: Callout(),
			src:       "> ❗ Stop\n> Do not\n",
			want: mdast.New(mdast.Callout, &mdast.CalloutAttrs{Icon: "❗", Theme: "error", Title: "Stop"},
				mdast.New(mdast.Paragraph, nil, mdast.NewText("Do not"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.construct.Produce([]byte(tt.src), nopContext{})
			if err != nil {
				t.Fatalf("Produce() unexpected error: %v", err)
			}
			if !mdast.Equal(got, tt.want) {
				t.Errorf("Produce() mismatch (-want +got):\n%s", cmp.Diff(tt.want, got))
			}
		})
	}
}

func TestProduceMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		construct Construct
		src       string
	}{
		{"unknown magic type", MagicBlock(), "[block:unknown-type]\ngarbage\n[/block]"},
		{"invalid json", MagicBlock(), "[block:callout]\n{not json\n[/block]"},
		{"empty code list", MagicBlock(), "[block:code]\n{\"codes\": []}\n[/block]"},
		{"image without url", MagicBlock(), "[block:image]\n{\"images\": [{\"image\": []}]}\n[/block]"},
		{"embed without host", MagicBlock(), "[block:embed]\n{\"url\": \"nothing\"}\n[/block]"},
		{"html block bad payload", HTMLBlock(), "[block:html]\n[]\n[/block]"},
		{"relative embed link", Embed(), `[x](/local "@embed")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.construct.Produce([]byte(tt.src), nopContext{})
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Produce() error = %v, want ErrMalformed", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Serialize
// ---------------------------------------------------------------------------

type stubPrinter struct{}

func (stubPrinter) Blocks(nodes []*mdast.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = mdast.TextContent(n)
	}
	return strings.Join(parts, "\n\n")
}

func (stubPrinter) Inlines(nodes []*mdast.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(mdast.TextContent(n))
	}
	return b.String()
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		construct Construct
		node      *mdast.Node
		want      string
	}{
		{
			name:      "glossary",
			construct: Glossary(),
			node:      mdast.NewLeaf(mdast.Glossary, &mdast.GlossaryAttrs{Term: "API"}, ""),
			want:      "<<glossary:API>>",
		},
		{
			name:      "variable",
			construct: Variable(),
			node:      mdast.NewLeaf(mdast.Variable, &mdast.VariableAttrs{Name: "name"}, ""),
			want:      "<<name>>",
		},
		{
			name:      "embed",
			construct: Embed(),
			node:      mdast.NewLeaf(mdast.Embed, &mdast.EmbedAttrs{URL: "https://x.io/a", Title: "A"}, ""),
			want:      `[A](https://x.io/a "@embed")`,
		},
		{
			name:      "html block",
			construct: HTMLBlock(),
			node:      mdast.NewLeaf(mdast.HTMLBlock, nil, "<b>x</b>"),
			want:      "[block:html]\n{\n  \"html\": \"<b>x</b>\"\n}\n[/block]",
		},
		{
			name:      "code tabs widen fence",
			construct: CodeTabs(),
			node: mdast.New(mdast.CodeTabs, nil,
				mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: "md", Meta: "A"}, "```\nx\n```"),
				mdast.NewLeaf(mdast.Code, &mdast.CodeAttrs{Lang: "sh"}, "ls")),
			want: "````md A\n```\nx\n```\n````\n```sh\nls\n```",
		},
		{
			name:      "callout",
			construct: Callout(),
			node: mdast.New(mdast.Callout, &mdast.CalloutAttrs{Icon: "📘", Title: "Note"},
				mdast.New(mdast.Paragraph, nil, mdast.NewText("one")),
				mdast.New(mdast.Paragraph, nil, mdast.NewText("two"))),
			want: "> 📘 Note\n> one\n>\n> two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.construct.Serialize(tt.node, stubPrinter{})
			if !ok {
				t.Fatal("Serialize() ok = false")
			}
			if got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeRejectsForeignNode(t *testing.T) {
	t.Parallel()

	text := mdast.NewText("x")
	for _, c := range []Construct{Glossary(), Variable(), Embed(), Callout()} {
		if _, ok := c.Serialize(text, stubPrinter{}); ok {
			t.Errorf("%s Serialize(text) ok = true, want false", c.Name)
		}
	}
}

func TestCalloutTheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		icon string
		want string
	}{
		{"📘", "info"},
		{"👍", "okay"},
		{"🚧", "warn"},
		{"⚠️", "warn"},
		{"❗", "error"},
		{"❗️", "error"},
		{"ℹ️", "info"},
		{"🙂", ""},
	}
	for _, tt := range tests {
		if got := CalloutTheme(tt.icon); got != tt.want {
			t.Errorf("CalloutTheme(%q) = %q, want %q", tt.icon, got, tt.want)
		}
	}
}
