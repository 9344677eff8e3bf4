package assets

// DefaultPolicy is the name of the policy applied when none is configured.
const DefaultPolicy = "default"

// DefaultTemplate is the name of the standalone document template.
const DefaultTemplate = "document"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadPolicy loads a sanitization policy by name using the default embedded loader.
// The name should not include the .yaml extension or path components.
// Returns ErrPolicyNotFound if the policy does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadPolicy(name string) ([]byte, error) {
	return defaultLoader.LoadPolicy(name)
}

// LoadTemplate loads an HTML template by name using the default embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// PolicyNames lists the embedded policies, sorted.
func PolicyNames() []string {
	return defaultLoader.PolicyNames()
}
