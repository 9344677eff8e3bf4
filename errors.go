package docmark

import (
	"errors"

	"github.com/alnah/go-docmark/syntax"
)

// Sentinel errors for processor construction. Every configuration error
// wraps ErrInvalidOptions, and none is returned once a Processor exists.
var (
	ErrInvalidOptions = errors.New("invalid options")

	ErrInvalidTOCDepth        = errors.New("invalid TOC depth")
	ErrInvalidLineBreakMode   = errors.New("invalid line break mode")
	ErrInvalidComponentPrefix = errors.New("invalid component prefix")
	ErrInvalidPolicy          = errors.New("invalid sanitization policy")
	ErrInvalidAssetPath       = errors.New("invalid asset path")

	// ErrUnknownConstruct is returned when a disabled name matches no base
	// tokenizer or construct.
	ErrUnknownConstruct = syntax.ErrUnknownConstruct
)
