// Package sanitize filters hypertext trees against an allow-list policy.
//
// A policy is plain data, usually loaded from YAML:
//
//	tags: [p, a, img]            # allowed elements
//	attributes:
//	  "*": [id, class]           # allowed on every element
//	  a: [href, title]
//	protocols:
//	  href: [http, https, mailto] # schemes allowed in URL attributes
//	strip: [script, style]       # removed together with their content
//	prefixes: [x-]               # element name prefixes allowed with any attribute
//
// Disallowed elements not listed under strip are unwrapped: the element goes
// away and its filtered children take its place. Disallowed attributes are
// dropped. Filtering never fails.
package sanitize

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-docmark/internal/yamlutil"
)

// Sentinel errors for policy loading.
var (
	ErrPolicyParse = errors.New("parsing sanitization policy")
	ErrEmptyPolicy = errors.New("sanitization policy allows no tags")
)

// Rules is the serialized form of a policy.
type Rules struct {
	Tags       []string            `yaml:"tags"`
	Attributes map[string][]string `yaml:"attributes,omitempty"`
	Protocols  map[string][]string `yaml:"protocols,omitempty"`
	Strip      []string            `yaml:"strip,omitempty"`
	Prefixes   []string            `yaml:"prefixes,omitempty"`
}

type set map[string]bool

func newSet(items []string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[strings.ToLower(it)] = true
	}
	return s
}

// Policy is a compiled, immutable allow-list. It is safe for concurrent use.
type Policy struct {
	rules     Rules
	tags      set
	strip     set
	attrs     map[string]set
	protocols map[string]set
	prefixes  []string
}

// New compiles rules into a policy.
func New(r Rules) (*Policy, error) {
	if len(r.Tags) == 0 && len(r.Prefixes) == 0 {
		return nil, ErrEmptyPolicy
	}
	p := &Policy{
		rules:     r,
		tags:      newSet(r.Tags),
		strip:     newSet(r.Strip),
		attrs:     make(map[string]set, len(r.Attributes)),
		protocols: make(map[string]set, len(r.Protocols)),
	}
	for tag, names := range r.Attributes {
		p.attrs[strings.ToLower(tag)] = newSet(names)
	}
	for name, schemes := range r.Protocols {
		p.protocols[strings.ToLower(name)] = newSet(schemes)
	}
	for _, prefix := range r.Prefixes {
		if prefix = strings.ToLower(strings.TrimSpace(prefix)); prefix != "" {
			p.prefixes = append(p.prefixes, prefix)
		}
	}
	return p, nil
}

// Parse decodes YAML rules and compiles them. Unknown keys are rejected.
func Parse(data []byte) (*Policy, error) {
	var r Rules
	if err := yamlutil.UnmarshalStrict(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPolicyParse, err)
	}
	return New(r)
}

// Rules returns a copy of the rules the policy was built from.
func (p *Policy) Rules() Rules {
	r := Rules{
		Tags:       slices.Clone(p.rules.Tags),
		Strip:      slices.Clone(p.rules.Strip),
		Prefixes:   slices.Clone(p.rules.Prefixes),
		Attributes: make(map[string][]string, len(p.rules.Attributes)),
		Protocols:  make(map[string][]string, len(p.rules.Protocols)),
	}
	for k, v := range p.rules.Attributes {
		r.Attributes[k] = slices.Clone(v)
	}
	for k, v := range p.rules.Protocols {
		r.Protocols[k] = slices.Clone(v)
	}
	return r
}

// WithPrefix returns a policy that also allows every element whose name
// starts with prefix.
func (p *Policy) WithPrefix(prefix string) *Policy {
	r := p.Rules()
	if prefix == "" || slices.Contains(r.Prefixes, prefix) {
		return p
	}
	r.Prefixes = append(r.Prefixes, prefix)
	out, _ := New(r)
	return out
}

// AllowsTag reports whether elements named tag survive filtering.
func (p *Policy) AllowsTag(tag string) bool {
	tag = strings.ToLower(tag)
	return p.tags[tag] || p.prefixed(tag)
}

func (p *Policy) prefixed(tag string) bool {
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(tag, prefix) && len(tag) > len(prefix) {
			return true
		}
	}
	return false
}

// AllowsAttr reports whether attribute name with value val survives on tag.
func (p *Policy) AllowsAttr(tag, name, val string) bool {
	tag, name = strings.ToLower(tag), strings.ToLower(name)
	if strings.HasPrefix(name, "on") {
		return false
	}
	if !p.attrs[tag][name] && !p.attrs["*"][name] && !p.prefixed(tag) {
		return false
	}
	if schemes, ok := p.protocols[name]; ok {
		return allowedURL(val, schemes)
	}
	return true
}

// allowedURL accepts relative URLs and absolute ones with an allowed scheme.
func allowedURL(val string, schemes set) bool {
	val = strings.TrimSpace(val)
	i := strings.IndexAny(val, ":/?#")
	if i <= 0 || val[i] != ':' {
		return true
	}
	return schemes[strings.ToLower(val[:i])]
}
