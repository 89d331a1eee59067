package value

import (
	"math"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsNil(t *testing.T) {
	var v Value
	if !v.IsNil() {
		t.Fatalf("zero Value kind = %s, want NIL", v.Kind())
	}
	if !v.Equal(Nil()) {
		t.Error("zero Value should equal Nil()")
	}
}

func TestAccessorsMatchKind(t *testing.T) {
	b, ok := Bool(true).Bool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = Int(3).Float()
	assert.False(t, ok, "Int must not read as Float")

	s, ok := Symbol("foo").Symbol()
	assert.True(t, ok)
	assert.Equal(t, "foo", s)

	_, ok = Symbol("foo").Text()
	assert.False(t, ok, "Symbol must not read as Text")

	q, ok := Quad([4]byte{0x90, 60, 127, 0}).Quad()
	assert.True(t, ok)
	assert.Equal(t, [4]byte{0x90, 60, 127, 0}, q)
}

func TestBlobCopiesInput(t *testing.T) {
	buf := []byte{1, 0, 2}
	v := Blob(buf)
	buf[0] = 9

	got, ok := v.Blob()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 0, 2}, got)

	got[1] = 7
	again, _ := v.Blob()
	assert.Equal(t, []byte{1, 0, 2}, again, "Blob accessor must return a copy")
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil", Nil(), Nil(), true},
		{"int", Int(5), Int(5), true},
		{"int vs float", Int(5), Float(5), false},
		{"text vs symbol", Text("a"), Symbol("a"), false},
		{"blob zeros", Blob([]byte{0, 0}), Blob([]byte{0, 0}), true},
		{"blob differs", Blob([]byte{0}), Blob([]byte{0, 0}), false},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"inf", Float(math.Inf(1)), Float(math.Inf(1)), true},
		{"bool", Bool(true), Bool(false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	n, ok := Int(-4).Number()
	assert.True(t, ok)
	assert.Equal(t, -4.0, n)

	_, ok = Text("4").Number()
	assert.False(t, ok)
}

func TestCBORPreservesKind(t *testing.T) {
	values := []Value{
		Nil(),
		Bool(false),
		Int(-1 << 40),
		Float(math.Inf(1)),
		Text("hello"),
		Symbol("sym"),
		Blob([]byte{0, 1, 0}),
		Quad([4]byte{1, 2, 3, 4}),
	}

	data, err := cbor.Marshal(values)
	require.NoError(t, err)

	var decoded []Value
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	require.Len(t, decoded, len(values))
	for i := range values {
		assert.Truef(t, values[i].Equal(decoded[i]), "index %d: got %v, want %v", i, decoded[i], values[i])
	}
}

func TestMarshalJSONNonFinite(t *testing.T) {
	data, err := Float(math.Inf(1)).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"FLOAT","value":"+Inf"}`, string(data))
}
