// Package dateutil resolves date placeholders in template variable values.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength limits format string length.
const MaxFormatLength = 50

// DefaultFormat is used for a bare "auto" value.
const DefaultFormat = "YYYY-MM-DD"

// autoPrefix marks a variable value resolved from the clock.
const autoPrefix = "auto"

// tokens maps format tokens to Go layout components, longest first.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named formats accepted after "auto:".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"time":     "HH:mm",
}

// Layout converts a format such as "DD/MM/YYYY" to a Go time layout.
// Text in brackets is copied literally: "[Week of] MMM D".
func Layout(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: empty format", ErrInvalidDateFormat)
	case len(format) > MaxFormatLength:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var b strings.Builder
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
			}
			b.WriteString(literal)
			rest = after
			continue
		}
		n := 1
		layout := rest[:1]
		for _, t := range tokens {
			if strings.HasPrefix(rest, t.token) {
				n, layout = len(t.token), t.layout
				break
			}
		}
		b.WriteString(layout)
		rest = rest[n:]
	}
	return b.String(), nil
}

// IsAuto reports whether value asks for the current date.
func IsAuto(value string) bool {
	lower := strings.ToLower(value)
	return lower == autoPrefix || strings.HasPrefix(lower, autoPrefix+":")
}

// Resolve returns value with "auto" or "auto:FORMAT" replaced by now,
// formatted accordingly. FORMAT may name a preset. Other values are
// returned unchanged.
func Resolve(value string, now time.Time) (string, error) {
	if !IsAuto(value) {
		return value, nil
	}

	format := DefaultFormat
	if len(value) > len(autoPrefix) {
		format = value[len(autoPrefix)+1:]
		if preset, ok := Presets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}

// ResolveAll resolves every value of vars in place.
func ResolveAll(vars map[string]string, now time.Time) error {
	for name, value := range vars {
		resolved, err := Resolve(value, now)
		if err != nil {
			return fmt.Errorf("variable %s: %w", name, err)
		}
		vars[name] = resolved
	}
	return nil
}
