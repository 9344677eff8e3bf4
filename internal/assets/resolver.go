package assets

import (
	"errors"
	"slices"
)

// AssetResolver looks assets up in a custom directory first and falls back
// to the embedded set when the custom directory lacks them.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom path
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath uses
// the embedded assets only; a non-empty one must be a readable directory.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}
	return resolver, nil
}

// LoadPolicy loads a policy, custom directory first.
func (r *AssetResolver) LoadPolicy(name string) ([]byte, error) {
	return withFallback(r, func(l AssetLoader) ([]byte, error) { return l.LoadPolicy(name) })
}

// LoadTemplate loads a template, custom directory first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return withFallback(r, func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// PolicyNames lists custom and embedded policies, sorted and deduplicated.
func (r *AssetResolver) PolicyNames() []string {
	names := r.embedded.PolicyNames()
	if r.custom != nil {
		names = append(names, r.custom.PolicyNames()...)
		slices.Sort(names)
		names = slices.Compact(names)
	}
	return names
}

// HasCustomLoader reports whether a custom asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// withFallback falls back to the embedded loader only when the custom one
// reports the asset missing; validation and I/O errors are returned as is.
func withFallback[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom == nil {
		return load(r.embedded)
	}
	v, err := load(r.custom)
	if err == nil || !isNotFoundError(err) {
		return v, err
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrPolicyNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
