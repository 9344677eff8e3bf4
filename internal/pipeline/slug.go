package pipeline

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/alnah/go-docmark/mdast"
)

// Slugify turns heading text into a URL-safe identifier the way GitHub
// does: lower-cased, punctuation removed, spaces replaced by hyphens.
func Slugify(text string) string {
	text = cases.Lower(language.Und).String(norm.NFC.String(text))
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || unicode.Is(unicode.Pc, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugger hands out unique slugs. The first occurrence of a slug is kept
// bare; later ones get -1, -2 and so on. A Slugger is not safe for
// concurrent use; create one per document.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns an empty slugger.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Slug returns a unique slug for text.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	slug := base
	for {
		if _, taken := s.occurrences[slug]; !taken {
			break
		}
		s.occurrences[base]++
		slug = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[slug] = 0
	return slug
}

// AssignSlugs sets a unique ID on every heading of root in document order.
func AssignSlugs(root *mdast.Node) {
	slugger := NewSlugger()
	for _, h := range mdast.OfType(root, mdast.Heading) {
		attrs, ok := mdast.As[*mdast.HeadingAttrs](h)
		if !ok {
			attrs = &mdast.HeadingAttrs{Depth: 1}
			h.Attrs = attrs
		}
		attrs.ID = slugger.Slug(mdast.TextContent(h))
	}
}
