package pipeline

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantFM    bool
		wantFmt   string
		wantRaw   string
		wantTitle any
		wantBody  string
		wantLines int
	}{
		{
			name:      "yaml",
			input:     "---\ntitle: Guide\n---\n# Hi\n",
			wantFM:    true,
			wantFmt:   "yaml",
			wantRaw:   "title: Guide",
			wantTitle: "Guide",
			wantBody:  "# Hi\n",
			wantLines: 3,
		},
		{
			name:      "toml",
			input:     "+++\ntitle = \"Guide\"\n+++\nbody",
			wantFM:    true,
			wantFmt:   "toml",
			wantRaw:   "title = \"Guide\"",
			wantTitle: "Guide",
			wantBody:  "body",
			wantLines: 3,
		},
		{
			name:      "empty block",
			input:     "---\n---\nbody",
			wantFM:    true,
			wantFmt:   "yaml",
			wantBody:  "body",
			wantLines: 2,
		},
		{
			name:      "closing fence at end of input",
			input:     "---\na: 1\n---",
			wantFM:    true,
			wantFmt:   "yaml",
			wantRaw:   "a: 1",
			wantLines: 2,
		},
		{name: "unterminated", input: "---\ntitle: x\n", wantBody: "---\ntitle: x\n"},
		{name: "not at start", input: "text\n---\na: 1\n---\n", wantBody: "text\n---\na: 1\n---\n"},
		{name: "longer fence is not front matter", input: "----\na: 1\n----\n", wantBody: "----\na: 1\n----\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fm, body, lines := SplitFrontMatter(tt.input, zap.NewNop())
			if (fm != nil) != tt.wantFM {
				t.Fatalf("front matter present = %v, want %v", fm != nil, tt.wantFM)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if lines != tt.wantLines {
				t.Errorf("lines = %d, want %d", lines, tt.wantLines)
			}
			if fm == nil {
				return
			}
			if fm.Format != tt.wantFmt {
				t.Errorf("Format = %q, want %q", fm.Format, tt.wantFmt)
			}
			if fm.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", fm.Raw, tt.wantRaw)
			}
			if fm.Data == nil {
				t.Fatal("Data is nil for valid front matter")
			}
			if tt.wantTitle != nil && fm.Data["title"] != tt.wantTitle {
				t.Errorf("Data[title] = %v, want %v", fm.Data["title"], tt.wantTitle)
			}
		})
	}
}

func TestSplitFrontMatterInvalidData(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	fm, body, _ := SplitFrontMatter("---\ntitle: [unclosed\n---\nbody", zap.New(core))

	if fm == nil {
		t.Fatal("expected front matter to be split off")
	}
	if fm.Data != nil {
		t.Errorf("Data = %v, want nil", fm.Data)
	}
	if fm.Raw != "title: [unclosed" {
		t.Errorf("Raw = %q, want it kept", fm.Raw)
	}
	if body != "body" {
		t.Errorf("body = %q, want %q", body, "body")
	}
	if n := logs.FilterMessage("front matter ignored").Len(); n != 1 {
		t.Errorf("logged %d warnings, want 1", n)
	}
}
