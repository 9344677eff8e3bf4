package assets

// AssetLoader defines the contract for loading policies and templates.
type AssetLoader interface {
	// LoadPolicy loads a sanitization policy by name (without .yaml extension).
	// Returns ErrPolicyNotFound if the policy doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadPolicy(name string) ([]byte, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)

	// PolicyNames lists the loadable policies, sorted.
	PolicyNames() []string
}
