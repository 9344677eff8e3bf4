package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver == nil {
			t.Fatal("NewAssetResolver() returned nil")
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func writeAsset(t *testing.T, base, dir, file, content string) {
	t.Helper()
	full := filepath.Join(base, dir)
	if err := os.MkdirAll(full, 0755); err != nil {
		t.Fatalf("failed to create %s dir: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(full, file), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", file, err)
	}
}

func TestAssetResolver_LoadPolicy(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	customPolicy := "tags: [p]\n"
	writeAsset(t, tmpDir, "policies", "mine.yaml", customPolicy)
	writeAsset(t, tmpDir, "policies", "strict.yaml", customPolicy)

	resolver, err := NewAssetResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	tests := []struct {
		name        string
		policy      string
		want        string
		wantContain string
		wantErr     error
	}{
		{name: "custom policy", policy: "mine", want: customPolicy},
		{name: "custom overrides embedded", policy: "strict", want: customPolicy},
		{name: "falls back to embedded", policy: "default", wantContain: "md-callout"},
		{name: "not found anywhere", policy: "nonexistent-xyz", wantErr: ErrPolicyNotFound},
		{name: "validation error not fallen back", policy: "../secret", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolver.LoadPolicy(tt.policy)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadPolicy(%q) error = %v, want %v", tt.policy, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadPolicy(%q) error = %v", tt.policy, err)
			}
			if tt.want != "" && string(got) != tt.want {
				t.Errorf("LoadPolicy(%q) = %q, want %q", tt.policy, got, tt.want)
			}
			if tt.wantContain != "" && !strings.Contains(string(got), tt.wantContain) {
				t.Errorf("LoadPolicy(%q) should contain %q", tt.policy, tt.wantContain)
			}
		})
	}
}

func TestAssetResolver_LoadTemplate(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		got, err := resolver.LoadTemplate(DefaultTemplate)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if !strings.Contains(got, "{{.Body}}") {
			t.Error("LoadTemplate() should return the document template")
		}
	})

	t.Run("custom overrides embedded", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		writeAsset(t, tmpDir, "templates", "document.html", "<main>{{.Body}}</main>")
		resolver, err := NewAssetResolver(tmpDir)
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		got, err := resolver.LoadTemplate(DefaultTemplate)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if got != "<main>{{.Body}}</main>" {
			t.Errorf("LoadTemplate() = %q, want custom override", got)
		}
	})

	t.Run("validation error not fallen back", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		_, err = resolver.LoadTemplate("../secret")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadTemplate() error = %v, want ErrInvalidAssetName (no fallback)", err)
		}
	})
}

func TestAssetResolver_ImplementsAssetLoader(t *testing.T) {
	t.Parallel()

	var _ AssetLoader = (*AssetResolver)(nil)
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"ErrPolicyNotFound", ErrPolicyNotFound, true},
		{"ErrTemplateNotFound", ErrTemplateNotFound, true},
		{"wrapped with %w", errors.Join(errors.New("ctx"), ErrPolicyNotFound), true},
		{"message copy only", errors.New("wrap: " + ErrPolicyNotFound.Error()), false},
		{"ErrInvalidAssetName", ErrInvalidAssetName, false},
		{"ErrAssetRead", ErrAssetRead, false},
		{"generic error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := isNotFoundError(tt.err)
			if got != tt.want {
				t.Errorf("isNotFoundError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAssetResolver_PolicyNames(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if got := strings.Join(resolver.PolicyNames(), ","); got != "default,strict" {
			t.Errorf("PolicyNames() = %s, want default,strict", got)
		}
	})

	t.Run("custom merged and deduplicated", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		writeAsset(t, base, "policies", "blog.yaml", "tags: [p]\n")
		writeAsset(t, base, "policies", "strict.yaml", "tags: [p]\n")
		writeAsset(t, base, "policies", "notes.txt", "ignored")

		resolver, err := NewAssetResolver(base)
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if got := strings.Join(resolver.PolicyNames(), ","); got != "blog,default,strict" {
			t.Errorf("PolicyNames() = %s, want blog,default,strict", got)
		}
	})

	t.Run("custom directory without policies", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if got := loader.PolicyNames(); len(got) != 0 {
			t.Errorf("PolicyNames() = %v, want none", got)
		}
	})
}
