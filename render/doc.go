// Package render turns a sanitized hypertext tree into an output form.
//
// Walk is generic over the output type. A Target says how text and unmapped
// elements are rendered and how sibling outputs combine; a Map assigns
// renderers to element names. Three targets ship with the package:
// markup (HTML), plain text (Text) and a composite element tree (Tree).
//
// Renderers never modify the input tree. Per-call state, such as the heading
// anchor counter, lives in the State passed to every renderer and is created
// fresh for each top-level call.
package render
