package device

import "fmt"

// Type distinguishes controller families.
type Type uint8

const (
	TypeGrid Type = iota
	TypeArc
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeGrid:
		return "grid"
	case TypeArc:
		return "arc"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Device is the driver contract for one attached controller.
//
// Output methods take zero-based coordinates and must not block on I/O
// longer than a datagram write.
type Device interface {
	Serial() string
	Name() string
	Type() Type
	Rows() int
	Cols() int

	SetLED(x, y, level int) error
	SetRingLED(ring, pos, level int) error
	AllLED(level int) error
	SetRotation(degrees int) error
	TiltEnable(sensor int) error
	TiltDisable(sensor int) error
	Refresh() error
	Intensity(level int) error
}
