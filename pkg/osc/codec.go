package osc

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"

	"github.com/stitchworks/spindle/pkg/value"
)

// Type tags.
const (
	TagInt32      byte = 'i'
	TagFloat32    byte = 'f'
	TagString     byte = 's'
	TagBlob       byte = 'b'
	TagInt64      byte = 'h'
	TagTimeTag    byte = 't'
	TagDouble     byte = 'd'
	TagSymbol     byte = 'S'
	TagChar       byte = 'c'
	TagRGBA       byte = 'r'
	TagMIDI       byte = 'm'
	TagTrue       byte = 'T'
	TagFalse      byte = 'F'
	TagNil        byte = 'N'
	TagInfinitum  byte = 'I'
	TagArrayOpen  byte = '['
	TagArrayClose byte = ']'
)

const (
	bundleHeader   = "#bundle\x00"
	maxBundleDepth = 8
)

// tagFor returns the tag Marshal writes for v.
func tagFor(v value.Value) byte {
	switch v.Kind() {
	case value.KindBool:
		if b, _ := v.Bool(); b {
			return TagTrue
		}
		return TagFalse
	case value.KindInt:
		i, _ := v.Int()
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return TagInt32
		}
		return TagInt64
	case value.KindFloat:
		f, _ := v.Float()
		if float64(float32(f)) == f || math.IsNaN(f) {
			return TagFloat32
		}
		return TagDouble
	case value.KindText:
		return TagString
	case value.KindSymbol:
		return TagSymbol
	case value.KindBlob:
		return TagBlob
	case value.KindQuad:
		return TagMIDI
	default:
		return TagNil
	}
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
	for i := len(s) + 1; i%4 != 0; i++ {
		buf.WriteByte(0)
	}
}

// Marshal encodes a message. Floats are written as 32-bit 'f' when that
// is exact and as 'd' otherwise. Text and Symbol values containing NUL
// cannot be represented.
func Marshal(m *Message) ([]byte, error) {
	if err := ValidatePath(m.Path); err != nil {
		return nil, err
	}

	tags := make([]byte, 0, len(m.Args)+1)
	tags = append(tags, ',')
	for i, a := range m.Args {
		if !a.Kind().IsValid() {
			return nil, &UnsupportedTypeError{Kind: a.Kind(), Index: i, Reason: "invalid kind"}
		}
		if a.Kind() == value.KindText || a.Kind() == value.KindSymbol {
			if bytes.IndexByte(a.Bytes(), 0) >= 0 {
				return nil, &UnsupportedTypeError{Kind: a.Kind(), Index: i, Reason: "contains NUL"}
			}
		}
		tags = append(tags, tagFor(a))
	}

	var buf bytes.Buffer
	writeString(&buf, m.Path)
	writeString(&buf, string(tags))

	var scratch [8]byte
	for _, a := range m.Args {
		switch tagFor(a) {
		case TagInt32:
			i, _ := a.Int()
			binary.BigEndian.PutUint32(scratch[:4], uint32(int32(i)))
			buf.Write(scratch[:4])
		case TagInt64:
			i, _ := a.Int()
			binary.BigEndian.PutUint64(scratch[:], uint64(i))
			buf.Write(scratch[:])
		case TagFloat32:
			f, _ := a.Float()
			binary.BigEndian.PutUint32(scratch[:4], math.Float32bits(float32(f)))
			buf.Write(scratch[:4])
		case TagDouble:
			f, _ := a.Float()
			binary.BigEndian.PutUint64(scratch[:], math.Float64bits(f))
			buf.Write(scratch[:])
		case TagString, TagSymbol:
			writeString(&buf, string(a.Bytes()))
		case TagBlob:
			b := a.Bytes()
			binary.BigEndian.PutUint32(scratch[:4], uint32(len(b)))
			buf.Write(scratch[:4])
			buf.Write(b)
			for n := len(b); n%4 != 0; n++ {
				buf.WriteByte(0)
			}
		case TagMIDI:
			buf.Write(a.Bytes())
		}
	}
	return buf.Bytes(), nil
}

// Decoder turns datagrams into messages.
type Decoder struct {
	// OnUnknownTag, if set, is called for every tag without a value
	// mapping. The argument is decoded as Nil either way.
	OnUnknownTag func(err *UnknownTagError)
}

// Unmarshal decodes a single message with a zero Decoder.
func Unmarshal(data []byte) (*Message, error) {
	var d Decoder
	return d.DecodeMessage(data)
}

// DecodePacket decodes a message or a bundle. Bundle contents are
// flattened in order.
func (d *Decoder) DecodePacket(data []byte) ([]*Message, error) {
	return d.decodePacket(data, 0)
}

func (d *Decoder) decodePacket(data []byte, depth int) ([]*Message, error) {
	if !bytes.HasPrefix(data, []byte(bundleHeader)) {
		m, err := d.DecodeMessage(data)
		if err != nil {
			return nil, err
		}
		return []*Message{m}, nil
	}
	if depth >= maxBundleDepth {
		return nil, malformed("bundles nested deeper than %d", maxBundleDepth)
	}

	// header + 8-byte time tag; scheduling is not supported, every
	// element is delivered immediately.
	off := len(bundleHeader) + 8
	if len(data) < off {
		return nil, malformed("bundle truncated before time tag")
	}

	var out []*Message
	for off < len(data) {
		if len(data)-off < 4 {
			return nil, malformed("bundle element size truncated")
		}
		size := int(int32(binary.BigEndian.Uint32(data[off:])))
		off += 4
		if size < 0 || size > len(data)-off || size%4 != 0 {
			return nil, malformed("bundle element size %d", size)
		}
		msgs, err := d.decodePacket(data[off:off+size], depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, msgs...)
		off += size
	}
	return out, nil
}

// DecodeMessage decodes one message. Unknown tags become Nil.
func (d *Decoder) DecodeMessage(data []byte) (*Message, error) {
	path, off, err := readString(data, 0)
	if err != nil {
		return nil, err
	}
	if path == "" || path[0] == '#' {
		return nil, malformed("bad address %q", path)
	}

	m := &Message{Path: path}
	if off == len(data) {
		// Type tags are optional in OSC 1.0; no tags means no arguments.
		return m, nil
	}

	tags, off, err := readString(data, off)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(tags, ",") {
		return nil, malformed("type tags %q missing comma", tags)
	}
	m.Tags = tags[1:]
	m.Args = make([]value.Value, 0, len(m.Tags))

	for i := 0; i < len(m.Tags); i++ {
		tag := m.Tags[i]
		var v value.Value
		var known bool
		v, off, known, err = decodeArg(data, off, tag)
		if err != nil {
			return nil, err
		}
		if !known && d.OnUnknownTag != nil {
			d.OnUnknownTag(&UnknownTagError{Path: path, Tag: tag, Index: i})
		}
		m.Args = append(m.Args, v)
	}
	return m, nil
}

// decodeArg decodes one argument at off. known is false for tags outside
// the value mapping; such arguments decode as Nil.
func decodeArg(data []byte, off int, tag byte) (value.Value, int, bool, error) {
	need := func(n int) error {
		if len(data)-off < n {
			return malformed("argument %q truncated", tag)
		}
		return nil
	}

	switch tag {
	case TagInt32:
		if err := need(4); err != nil {
			return value.Nil(), off, true, err
		}
		return value.Int(int64(int32(binary.BigEndian.Uint32(data[off:])))), off + 4, true, nil
	case TagFloat32:
		if err := need(4); err != nil {
			return value.Nil(), off, true, err
		}
		f := math.Float32frombits(binary.BigEndian.Uint32(data[off:]))
		return value.Float(float64(f)), off + 4, true, nil
	case TagString, TagSymbol:
		s, next, err := readString(data, off)
		if err != nil {
			return value.Nil(), off, true, err
		}
		if tag == TagSymbol {
			return value.Symbol(s), next, true, nil
		}
		return value.Text(s), next, true, nil
	case TagBlob:
		if err := need(4); err != nil {
			return value.Nil(), off, true, err
		}
		size := int(int32(binary.BigEndian.Uint32(data[off:])))
		off += 4
		if size < 0 || pad4(size) > len(data)-off {
			return value.Nil(), off, true, malformed("blob size %d", size)
		}
		return value.Blob(data[off : off+size]), off + pad4(size), true, nil
	case TagInt64:
		if err := need(8); err != nil {
			return value.Nil(), off, true, err
		}
		return value.Int(int64(binary.BigEndian.Uint64(data[off:]))), off + 8, true, nil
	case TagDouble:
		if err := need(8); err != nil {
			return value.Nil(), off, true, err
		}
		return value.Float(math.Float64frombits(binary.BigEndian.Uint64(data[off:]))), off + 8, true, nil
	case TagMIDI:
		if err := need(4); err != nil {
			return value.Nil(), off, true, err
		}
		var q [4]byte
		copy(q[:], data[off:off+4])
		return value.Quad(q), off + 4, true, nil
	case TagTrue:
		return value.Bool(true), off, true, nil
	case TagFalse:
		return value.Bool(false), off, true, nil
	case TagNil:
		return value.Nil(), off, true, nil
	case TagInfinitum:
		return value.Float(math.Inf(1)), off, true, nil

	// Defined by the wire format but outside the value mapping.
	case TagTimeTag:
		if err := need(8); err != nil {
			return value.Nil(), off, false, err
		}
		return value.Nil(), off + 8, false, nil
	case TagChar, TagRGBA:
		if err := need(4); err != nil {
			return value.Nil(), off, false, err
		}
		return value.Nil(), off + 4, false, nil
	default:
		// Unknown width; assume no payload so later arguments still decode.
		return value.Nil(), off, false, nil
	}
}

// readString reads a NUL-terminated, 4-byte padded string at off.
func readString(data []byte, off int) (string, int, error) {
	if off >= len(data) {
		return "", off, malformed("string truncated at %d", off)
	}
	end := bytes.IndexByte(data[off:], 0)
	if end < 0 {
		return "", off, malformed("unterminated string at %d", off)
	}
	next := off + pad4(end+1)
	if next > len(data) {
		return "", off, malformed("string padding truncated at %d", off)
	}
	return string(data[off : off+end]), next, nil
}
