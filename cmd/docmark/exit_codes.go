package main

import (
	"errors"
	"os"

	docmark "github.com/alnah/go-docmark"
	"github.com/alnah/go-docmark/internal/config"
	"github.com/alnah/go-docmark/internal/dateutil"
)

// Exit codes for the docmark CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All inputs processed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or options
	ExitIO      = 3 // File not found, permission denied, read or write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadPolicy) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, docmark.ErrInvalidOptions) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidVariable) ||
		errors.Is(err, ErrStdinMixed) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidArgs) {
		return ExitUsage
	}

	return ExitGeneral
}
