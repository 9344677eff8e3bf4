package assets

import "errors"

// Lookup failures. Names are validated before any file is touched.
var (
	ErrPolicyNotFound   = errors.New("policy not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
)

// Failures of a custom asset directory.
var (
	ErrInvalidBasePath = errors.New("invalid asset directory")
	ErrAssetRead       = errors.New("reading asset")
	ErrPathTraversal   = errors.New("asset path escapes asset directory")
)
