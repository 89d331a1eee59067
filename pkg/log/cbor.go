package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// A .plog file is a bare sequence of CBOR items, one Event each, with no
// header or framing. Encoding is canonical so the same traffic always
// produces the same bytes, and timestamps keep nanoseconds as text.
var (
	eventEnc = mustEncMode(cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	})

	// Reading is lenient: files from older builds may repeat keys or
	// carry fields this build does not know.
	eventDec = mustDecMode(cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: event encoding options: %v", err))
	}
	return em
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	dm, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: event decoding options: %v", err))
	}
	return dm
}

// EncodeEvent returns the CBOR item for one event.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEnc.Marshal(event)
}

// DecodeEvent parses a single CBOR item.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := eventDec.Unmarshal(data, &event)
	if err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder appends events to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEnc.NewEncoder(w)
}

// NewDecoder reads events from r one item at a time.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDec.NewDecoder(r)
}
