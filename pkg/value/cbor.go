package value

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// cborValue is the integer-keyed CBOR form of a Value.
type cborValue struct {
	Kind  Kind    `cbor:"1,keyasint"`
	Bool  bool    `cbor:"2,keyasint,omitempty"`
	Int   int64   `cbor:"3,keyasint,omitempty"`
	Float float64 `cbor:"4,keyasint,omitempty"`
	Bytes []byte  `cbor:"5,keyasint,omitempty"`
}

// MarshalCBOR implements cbor.Marshaler.
func (v Value) MarshalCBOR() ([]byte, error) {
	cv := cborValue{Kind: v.kind}
	switch v.kind {
	case KindBool:
		cv.Bool = v.b
	case KindInt:
		cv.Int = v.i
	case KindFloat:
		cv.Float = v.f
	case KindText, KindSymbol, KindBlob, KindQuad:
		cv.Bytes = v.Bytes()
	}
	return cbor.Marshal(cv)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (v *Value) UnmarshalCBOR(data []byte) error {
	var cv cborValue
	if err := cbor.Unmarshal(data, &cv); err != nil {
		return err
	}
	switch cv.Kind {
	case KindNil:
		*v = Nil()
	case KindBool:
		*v = Bool(cv.Bool)
	case KindInt:
		*v = Int(cv.Int)
	case KindFloat:
		*v = Float(cv.Float)
	case KindText:
		*v = Text(string(cv.Bytes))
	case KindSymbol:
		*v = Symbol(string(cv.Bytes))
	case KindBlob:
		*v = Blob(cv.Bytes)
	case KindQuad:
		if len(cv.Bytes) != 4 {
			return fmt.Errorf("quad value has %d bytes, want 4", len(cv.Bytes))
		}
		var q [4]byte
		copy(q[:], cv.Bytes)
		*v = Quad(q)
	default:
		return fmt.Errorf("unknown value kind: %d", cv.Kind)
	}
	return nil
}

// MarshalJSON renders the value as {"kind": ..., "value": ...}.
// Non-finite floats are rendered as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind  string `json:"kind"`
		Value any    `json:"value,omitempty"`
	}{Kind: v.kind.String()}

	switch v.kind {
	case KindBool:
		out.Value = v.b
	case KindInt:
		out.Value = v.i
	case KindFloat:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			out.Value = v.String()
		} else {
			out.Value = v.f
		}
	case KindText, KindSymbol:
		out.Value = v.s
	case KindBlob, KindQuad:
		out.Value = v.Bytes()
	}
	return json.Marshal(out)
}

// Compile-time interface satisfaction checks.
var (
	_ cbor.Marshaler   = Value{}
	_ cbor.Unmarshaler = (*Value)(nil)
)
