package syntax

import "errors"

// Sentinel errors for registry assembly and construct production.
var (
	ErrInvalidConstruct   = errors.New("invalid construct")
	ErrDuplicateConstruct = errors.New("duplicate construct name")
	ErrOrderConflict      = errors.New("construct order conflict")
	ErrUnknownConstruct   = errors.New("unknown construct")
	ErrInvalidLineBreaks  = errors.New("invalid line break mode")

	// ErrMalformed is returned by producers when a recognized span cannot be
	// turned into a node. The span is then parsed as ordinary text.
	ErrMalformed = errors.New("malformed construct")
)
