package sanitize

import (
	"regexp"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Bluemonday builds a string sanitizer from the same rules. It is used for
// HTML that only exists as text, such as the payload of an HTML block.
func (p *Policy) Bluemonday() *bluemonday.Policy {
	b := bluemonday.NewPolicy()
	if len(p.rules.Tags) > 0 {
		b.AllowElements(p.rules.Tags...)
	}
	for tag, names := range p.rules.Attributes {
		if len(names) == 0 {
			continue
		}
		if tag == "*" {
			b.AllowAttrs(names...).Globally()
		} else {
			b.AllowAttrs(names...).OnElements(tag)
		}
	}

	var schemes []string
	for _, list := range p.rules.Protocols {
		for _, s := range list {
			if !slices.Contains(schemes, s) {
				schemes = append(schemes, s)
			}
		}
	}
	if len(schemes) > 0 {
		b.AllowURLSchemes(schemes...)
	}
	b.AllowRelativeURLs(true)
	b.RequireParseableURLs(true)

	if len(p.rules.Strip) > 0 {
		b.SkipElementsContent(p.rules.Strip...)
	}
	for _, prefix := range p.prefixes {
		b.AllowElementsMatching(regexp.MustCompile("^" + regexp.QuoteMeta(strings.ToLower(prefix))))
	}
	return b
}
