package assets_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alnah/go-docmark/internal/assets"
	"github.com/alnah/go-docmark/internal/sanitize"
)

// assetDir creates a custom asset directory holding files, keyed by their
// path relative to the directory.
func assetDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return dir
}

func newLoader(t *testing.T, dir string) *assets.FilesystemLoader {
	t.Helper()
	loader, err := assets.NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	return loader
}

// ---------------------------------------------------------------------------
// TestNewFilesystemLoader - Asset directory checks
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := assetDir(t, map[string]string{"blog.yaml": "tags: [p]\n"})

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"directory", dir, false},
		{"empty path", "", true},
		{"missing directory", filepath.Join(dir, "missing"), true},
		{"regular file", filepath.Join(dir, "blog.yaml"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := assets.NewFilesystemLoader(tt.path)
			if tt.wantErr && !errors.Is(err, assets.ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader(%q) error = %v, want ErrInvalidBasePath", tt.path, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("NewFilesystemLoader(%q) unexpected error: %v", tt.path, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_LoadPolicy - Custom policies
// ---------------------------------------------------------------------------

func TestFilesystemLoader_LoadPolicy(t *testing.T) {
	t.Parallel()

	loader := newLoader(t, assetDir(t, map[string]string{
		"policies/blog.yaml":   "tags: [p, em]\nstrip: [script]\n",
		"policies/notes.yml":   "tags: [p]\n",
		"policies/broken.yaml": "tagz: [p]\n",
	}))

	t.Run("parses as a sanitization policy", func(t *testing.T) {
		t.Parallel()

		data, err := loader.LoadPolicy("blog")
		if err != nil {
			t.Fatalf("LoadPolicy() error = %v", err)
		}
		policy, err := sanitize.Parse(data)
		if err != nil {
			t.Fatalf("sanitize.Parse() error = %v", err)
		}
		if !policy.AllowsTag("em") || policy.AllowsTag("img") {
			t.Errorf("policy rules = %+v, want only p and em", policy.Rules())
		}
	})

	t.Run("loader returns bytes for an invalid policy", func(t *testing.T) {
		t.Parallel()

		data, err := loader.LoadPolicy("broken")
		if err != nil {
			t.Fatalf("LoadPolicy() error = %v", err)
		}
		if _, err := sanitize.Parse(data); err == nil {
			t.Error("sanitize.Parse() error = nil, want unknown field")
		}
	})

	tests := []struct {
		name    string
		policy  string
		wantErr error
	}{
		{"yml extension is not read", "notes", assets.ErrPolicyNotFound},
		{"missing policy", "wiki", assets.ErrPolicyNotFound},
		{"empty name", "", assets.ErrInvalidAssetName},
		{"parent directory", "../blog", assets.ErrInvalidAssetName},
		{"windows separator", `..\blog`, assets.ErrInvalidAssetName},
		{"extension in name", "blog.yaml", assets.ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := loader.LoadPolicy(tt.policy); !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadPolicy(%q) error = %v, want %v", tt.policy, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_LoadTemplate - Standalone document templates
// ---------------------------------------------------------------------------

func TestFilesystemLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	page := "<main>{{.Body}}</main>"
	loader := newLoader(t, assetDir(t, map[string]string{"templates/document.html": page}))

	got, err := loader.LoadTemplate(assets.DefaultTemplate)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if got != page {
		t.Errorf("LoadTemplate() = %q, want %q", got, page)
	}

	if _, err := loader.LoadTemplate("print"); !errors.Is(err, assets.ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := loader.LoadTemplate("../document"); !errors.Is(err, assets.ErrInvalidAssetName) {
		t.Errorf("LoadTemplate(traversal) error = %v, want ErrInvalidAssetName", err)
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_PolicyNames - Listing custom policies
// ---------------------------------------------------------------------------

func TestFilesystemLoader_PolicyNames(t *testing.T) {
	t.Parallel()

	t.Run("yaml files sorted", func(t *testing.T) {
		t.Parallel()

		loader := newLoader(t, assetDir(t, map[string]string{
			"policies/wiki.yaml":  "tags: [p]\n",
			"policies/blog.yaml":  "tags: [p]\n",
			"policies/README.md":  "notes",
			"templates/blog.yaml": "tags: [p]\n",
		}))
		if got, want := loader.PolicyNames(), []string{"blog", "wiki"}; !slices.Equal(got, want) {
			t.Errorf("PolicyNames() = %v, want %v", got, want)
		}
	})

	t.Run("no policies directory", func(t *testing.T) {
		t.Parallel()

		if got := newLoader(t, t.TempDir()).PolicyNames(); len(got) != 0 {
			t.Errorf("PolicyNames() = %v, want none", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_SymlinkEscape - Containment
// ---------------------------------------------------------------------------

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	dir := assetDir(t, map[string]string{"policies/.keep": ""})
	outside := assetDir(t, map[string]string{"lenient.yaml": "tags: [script]\n"})
	if err := os.Symlink(filepath.Join(outside, "lenient.yaml"), filepath.Join(dir, "policies", "lenient.yaml")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := newLoader(t, dir).LoadPolicy("lenient")
	if !errors.Is(err, assets.ErrPathTraversal) {
		t.Errorf("LoadPolicy() error = %v, want ErrPathTraversal", err)
	}
}
