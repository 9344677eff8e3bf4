package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory on the filesystem.
// Implements AssetLoader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	// Containment checks compare resolved paths.
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}

	info, err := os.Stat(absPath)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// LoadPolicy loads a sanitization policy from the filesystem.
// Looks for {basePath}/policies/{name}.yaml
func (f *FilesystemLoader) LoadPolicy(name string) ([]byte, error) {
	content, err := f.load(name, "policies", ".yaml")
	if err != nil {
		return nil, notFound(err, ErrPolicyNotFound, name)
	}
	return content, nil
}

// LoadTemplate loads an HTML template from the filesystem.
// Looks for {basePath}/templates/{name}.html
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	content, err := f.load(name, "templates", ".html")
	if err != nil {
		return "", notFound(err, ErrTemplateNotFound, name)
	}
	return string(content), nil
}

func (f *FilesystemLoader) load(name, dir, ext string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	filePath := filepath.Join(f.basePath, dir, name+ext)
	if err := f.verifyPathContainment(filePath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return content, nil
}

// notFound maps a missing file to the sentinel of its asset kind.
func notFound(err, sentinel error, name string) error {
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", sentinel, name)
	}
	return err
}

// PolicyNames lists the policies under {basePath}/policies, sorted.
func (f *FilesystemLoader) PolicyNames() []string {
	entries, err := os.ReadDir(filepath.Join(f.basePath, "policies"))
	if err != nil {
		return nil
	}
	return namesWithExt(entries, ".yaml")
}

// verifyPathContainment rejects files whose resolved location, symlinks
// followed, lies outside basePath.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	resolved, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	// A missing file keeps its unresolved path and fails on read.
	if target, err := filepath.EvalSymlinks(resolved); err == nil {
		resolved = target
	}
	if !strings.HasPrefix(resolved, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
