// Package docmark compiles documentation-flavored markdown.
//
// The dialect is CommonMark with GitHub tables, strikethrough, task lists
// and autolinks, extended with custom constructs: callouts, tabbed code
// blocks, embeds, raw HTML blocks, variable references and glossary
// references.
//
// # Quick Start
//
//	p, err := docmark.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, ok := p.HTML("# Hello\n\n> 📘 Note\n> Read this first.")
//
// Entry points return a nil tree, or false, for empty input. Anything else
// compiles: malformed constructs degrade to literal text and are reported
// through the logger set with WithLogger.
//
// # Pipeline
//
//  1. Preprocessing (line endings, blank lines around magic blocks)
//  2. Front matter (YAML between --- fences or TOML between +++ fences)
//  3. Parsing with the base grammar and the enabled constructs
//  4. Lowering to a hypertext tree
//  5. Raw HTML materialization
//  6. Sanitization against an allow-list policy
//  7. Rendering to markup, plain text or a composite tree
//
// Parse stops after step 3; TOCTree and Markdown consume its tree.
//
// # Configuration
//
//	p, err := docmark.New(
//	    docmark.WithLineBreaks(syntax.SoftBreaks),
//	    docmark.WithDisabledConstructs("embed"),
//	    docmark.WithMaxTOCDepth(3),
//	    docmark.WithVariables(map[string]string{"user": "Ada"}),
//	)
//
// New validates every option and returns an error wrapping
// ErrInvalidOptions on failure. A Processor is immutable and safe for
// concurrent use.
//
// # Custom Components
//
// Elements whose name starts with the component prefix ("x" by default)
// pass sanitization with their attributes. Register renderers for them
// with WithComponents:
//
//	docmark.WithComponents(map[string]docmark.Component{
//	    "card": renderCard, // renders <x-card> elements
//	})
package docmark
