package value

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNil is the absence of a value.
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindBlob
	KindSymbol
	// KindQuad is a fixed 4-byte control word (OSC MIDI message).
	KindQuad
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "NIL"
	case KindBool:
		return "BOOL"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindText:
		return "TEXT"
	case KindBlob:
		return "BLOB"
	case KindSymbol:
		return "SYMBOL"
	case KindQuad:
		return "QUAD"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether k is one of the defined kinds.
func (k Kind) IsValid() bool {
	return k <= KindQuad
}

// Value is an immutable tagged variant carried across the OSC and
// scripting boundaries. The zero Value is Nil.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string // Text, Symbol and Blob payloads
	q    [4]byte
}

// Nil returns the absent value.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a 64-bit integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a 64-bit floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text value. The bytes are not required to be UTF-8.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Symbol returns a symbol value.
func Symbol(s string) Value { return Value{kind: KindSymbol, s: s} }

// Blob returns a blob value holding a copy of b.
func Blob(b []byte) Value { return Value{kind: KindBlob, s: string(b)} }

// Quad returns a 4-byte control word value.
func Quad(q [4]byte) Value { return Value{kind: KindQuad, q: q} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the absent value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the integer payload.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the floating point payload.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Text returns the text payload.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Symbol returns the symbol payload.
func (v Value) Symbol() (string, bool) { return v.s, v.kind == KindSymbol }

// Blob returns a copy of the blob payload.
func (v Value) Blob() ([]byte, bool) {
	if v.kind != KindBlob {
		return nil, false
	}
	return []byte(v.s), true
}

// Quad returns the control word payload.
func (v Value) Quad() ([4]byte, bool) { return v.q, v.kind == KindQuad }

// Bytes returns the raw byte payload of Text, Symbol, Blob and Quad values.
// Other kinds return nil.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindText, KindSymbol, KindBlob:
		return []byte(v.s)
	case KindQuad:
		return v.q[:]
	default:
		return nil
	}
}

// Number returns the numeric payload of Int and Float values as float64.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Equal reports whether v and o have the same kind and payload.
// NaN compares equal to NaN so decoded values can be checked exactly.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindText, KindSymbol:
		return v.s == o.s
	case KindBlob:
		return bytes.Equal([]byte(v.s), []byte(o.s))
	case KindQuad:
		return v.q == o.q
	default:
		return false
	}
}

// String formats the value for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return strconv.Quote(v.s)
	case KindSymbol:
		return "'" + v.s
	case KindBlob:
		return fmt.Sprintf("blob[%d]", len(v.s))
	case KindQuad:
		return fmt.Sprintf("quad[%02x %02x %02x %02x]", v.q[0], v.q[1], v.q[2], v.q[3])
	default:
		return "invalid"
	}
}

// EqualSlices reports whether two sequences hold pairwise equal values.
func EqualSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
