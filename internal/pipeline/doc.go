// Package pipeline implements the stages that turn flavored markdown into
// a sanitized hypertext tree.
//
// Stages, in order:
//   - Line ending normalization and magic block separation
//   - Front matter extraction (YAML or TOML)
//   - Grammar parsing via Goldmark with the registered constructs
//   - Conversion of the Goldmark tree to a document tree
//   - Heading slug assignment
//   - Lowering to a hypertext tree
//   - Raw HTML materialization
//   - Sanitization against the configured policy
//
// No stage returns an error. Malformed constructs stay literal text and
// unknown node types are lowered to their text with a warning.
//
// Rendering the hypertext tree is handled separately by the render package.
package pipeline
