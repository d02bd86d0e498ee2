// Package errors provides error handling for locofilter.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// It also defines the fatal error taxonomy of a filter run. Recoverable
// problems (a corrupt item file, an unreadable sample container, a dangling
// place reference) are not errors at all: they are recorded as warnings by
// the filter package and summarized at the end of the run.
//
// Usage:
//
//	// Configuration problems abort before any I/O pass begins
//	return errors.NewConfigurationError("backup root %s is not a directory", root)
//
//	// Output problems stop the run immediately
//	if err := out.MkdirAll(dir, 0755); err != nil {
//	    return errors.WrapOutput(err, "create bucket directory")
//	}
//
//	// Check the category at the top level
//	if errors.IsConfigurationError(err) {
//	    // print usage
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Fatal error categories.
// Every fatal error returned by the engine is marked with exactly one of these.
var (
	// ErrConfiguration covers bad paths, unrecognized formats and invalid date input.
	// It is always raised before the first I/O pass.
	ErrConfiguration = New("configuration error")

	// ErrOutput covers failures to create or write the output tree.
	ErrOutput = New("output error")
)

// Configuration causes, marked with ErrConfiguration when raised.
var (
	// ErrUnrecognizedFormat indicates neither backup marker set is present
	ErrUnrecognizedFormat = New("unrecognized backup format")

	// ErrAmbiguousFormat indicates both marker sets partially match and no mandatory marker exists
	ErrAmbiguousFormat = New("ambiguous backup format")

	// ErrInvalidRange indicates a malformed date or start after end
	ErrInvalidRange = New("invalid date range")

	// ErrInvalidDays indicates a non-positive day count
	ErrInvalidDays = New("invalid day count")
)

// IsConfigurationError checks if an error is or wraps ErrConfiguration
func IsConfigurationError(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsOutputError checks if an error is or wraps ErrOutput
func IsOutputError(err error) bool {
	return err != nil && Is(err, ErrOutput)
}

// NewConfigurationError creates a configuration error with a formatted message
func NewConfigurationError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfiguration)
}

// MarkConfiguration tags err as a configuration error while keeping its own identity,
// so both errors.Is(err, ErrInvalidRange) and IsConfigurationError(err) hold.
func MarkConfiguration(err error) error {
	if err == nil {
		return nil
	}
	return Mark(err, ErrConfiguration)
}

// WrapOutput wraps an I/O failure on the output tree as an output error
func WrapOutput(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, msg), ErrOutput)
}

// WrapOutputf wraps an I/O failure on the output tree with a formatted message
func WrapOutputf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, format, args...), ErrOutput)
}

// ExitCode maps an error to a process exit status. Success (nil) is 0,
// everything else is 1. Kept as a function so commands and tests agree.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
