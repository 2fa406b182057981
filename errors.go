package godbf

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMemoFile is returned when a memo field references a block but no
	// memo stream was supplied at construction.
	ErrNoMemoFile = errors.New("no memo file supplied")

	// ErrUnknownCharset is returned when the requested charset has no
	// decoding table.
	ErrUnknownCharset = errors.New("unknown charset")
)

// FormatError indicates the file does not look like a readable DBF file.
// It is returned at construction time; no Reader is produced alongside it.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type FormatError struct {
	Reason string
	cause  error
}

func (e *FormatError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("dbf: %s: %v", e.Reason, e.cause)
	}
	return "dbf: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.cause }

// DecodeError indicates a field's raw bytes could not be interpreted under
// its declared type. It carries the field name and the raw text so callers
// can log the offending value before skipping or aborting.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type DecodeError struct {
	Field string
	Raw   string
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dbf: decode field %q (raw %q): %v", e.Field, e.Raw, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }
