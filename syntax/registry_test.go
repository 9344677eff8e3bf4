package syntax

import (
	"errors"
	"testing"

	"github.com/alnah/go-docmark/mdast"
)

// ---------------------------------------------------------------------------
// NewRegistry
// ---------------------------------------------------------------------------

func stubConstruct(name string, kind Kind, order int) Construct {
	return Construct{
		Name:      name,
		Kind:      kind,
		Order:     order,
		Trigger:   []byte{'%'},
		Recognize: func([]byte) int { return 0 },
		Produce:   func([]byte, Context) (*mdast.Node, error) { return nil, nil },
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	noRecognizer := stubConstruct("x", Inline, 10)
	noRecognizer.Recognize = nil
	noTrigger := stubConstruct("x", Inline, 10)
	noTrigger.Trigger = nil
	letterTrigger := stubConstruct("x", Inline, 10)
	letterTrigger.Trigger = []byte{'a'}

	tests := []struct {
		name       string
		constructs []Construct
		disabled   []string
		wantErr    error
	}{
		{
			name:       "builtins",
			constructs: Builtins(),
		},
		{
			name:       "empty name",
			constructs: []Construct{stubConstruct(" ", Inline, 10)},
			wantErr:    ErrInvalidConstruct,
		},
		{
			name:       "missing recognizer",
			constructs: []Construct{noRecognizer},
			wantErr:    ErrInvalidConstruct,
		},
		{
			name:       "missing trigger",
			constructs: []Construct{noTrigger},
			wantErr:    ErrInvalidConstruct,
		},
		{
			name:       "inline trigger must be punctuation",
			constructs: []Construct{letterTrigger},
			wantErr:    ErrInvalidConstruct,
		},
		{
			name:       "duplicate construct",
			constructs: []Construct{stubConstruct("a", Inline, 10), stubConstruct("a", Inline, 11)},
			wantErr:    ErrDuplicateConstruct,
		},
		{
			name:       "name shadows base tokenizer",
			constructs: []Construct{stubConstruct("table", Block, 10)},
			wantErr:    ErrDuplicateConstruct,
		},
		{
			name:       "same order same kind",
			constructs: []Construct{stubConstruct("a", Inline, 10), stubConstruct("b", Inline, 10)},
			wantErr:    ErrOrderConflict,
		},
		{
			name:       "same order different kind",
			constructs: []Construct{stubConstruct("a", Inline, 10), stubConstruct("b", Block, 10)},
		},
		{
			name:       "order taken by base tokenizer",
			constructs: []Construct{stubConstruct("a", Inline, 200)},
			wantErr:    ErrOrderConflict,
		},
		{
			name:       "order freed by disabling base tokenizer",
			constructs: []Construct{stubConstruct("a", Inline, 200)},
			disabled:   []string{"link"},
		},
		{
			name:       "paragraph priority",
			constructs: []Construct{stubConstruct("a", Block, paragraphPriority)},
			wantErr:    ErrOrderConflict,
		},
		{
			name:       "conflict ignored when construct disabled",
			constructs: []Construct{stubConstruct("a", Inline, 10), stubConstruct("b", Inline, 10)},
			disabled:   []string{"b"},
		},
		{
			name:     "unknown disabled name",
			disabled: []string{"no-such-thing"},
			wantErr:  ErrUnknownConstruct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg, err := NewRegistry(tt.constructs, tt.disabled)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewRegistry() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRegistry() unexpected error: %v", err)
			}
			if reg == nil {
				t.Fatal("NewRegistry() returned nil registry")
			}
		})
	}
}

func TestRegistryConstructsSorted(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(Builtins(), nil)
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	want := []string{"html-block", "magic-block", "code-tabs", "callout", "glossary", "variable", "embed"}
	got := reg.Constructs()
	if len(got) != len(want) {
		t.Fatalf("len(Constructs()) = %d, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.Name != want[i] {
			t.Errorf("Constructs()[%d] = %q, want %q", i, c.Name, want[i])
		}
	}
}

func TestRegistryDisabled(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(Builtins(), []string{"heading", "callout"})
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	if !reg.Disabled("heading") || !reg.Disabled("callout") {
		t.Error("Disabled() = false for disabled names")
	}
	if reg.Disabled("table") {
		t.Error("Disabled(table) = true, want false")
	}
	if reg.Handles(mdast.Callout) {
		t.Error("Handles(callout) = true after disabling the callout construct")
	}
	for _, c := range reg.Constructs() {
		if c.Name == "callout" {
			t.Error("disabled construct still listed")
		}
	}
}

func TestRegistrySerializers(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(Builtins(), nil)
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	tests := []struct {
		typ  mdast.Type
		want int
	}{
		{mdast.Glossary, 1},
		{mdast.Variable, 1},
		{mdast.Callout, 1},
		{mdast.CodeTabs, 1},
		{mdast.HTMLBlock, 1},
		{mdast.Paragraph, 0},
		{mdast.Type("unknown"), 0},
	}

	for _, tt := range tests {
		if got := len(reg.Serializers(tt.typ)); got != tt.want {
			t.Errorf("len(Serializers(%q)) = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestBaseNames(t *testing.T) {
	t.Parallel()

	names := BaseNames()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			t.Errorf("BaseNames() has duplicate %q", n)
		}
		seen[n] = true
	}
	for _, want := range []string{"heading", "table", "link", "emphasis", "fenced-code"} {
		if !seen[want] {
			t.Errorf("BaseNames() missing %q", want)
		}
	}
}
