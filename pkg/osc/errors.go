package osc

import (
	"errors"
	"fmt"

	"github.com/stitchworks/spindle/pkg/value"
)

// Codec and transport errors.
var (
	ErrMalformed     = errors.New("malformed osc packet")
	ErrInvalidPath   = errors.New("invalid osc path")
	ErrInvalidAddr   = errors.New("invalid osc address")
	ErrNotRunning    = errors.New("osc server not running")
	ErrPacketTooLong = errors.New("osc packet exceeds maximum size")
)

// UnknownTagError describes a type tag with no value mapping. It is
// reported, never returned: decoding substitutes Nil and continues.
type UnknownTagError struct {
	Path  string
	Tag   byte
	Index int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown osc typetag %q at argument %d of %s", e.Tag, e.Index, e.Path)
}

// UnsupportedTypeError reports a value that has no wire encoding.
type UnsupportedTypeError struct {
	Kind   value.Kind
	Index  int
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("argument %d: cannot encode %s: %s", e.Index, e.Kind, e.Reason)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
