package serialosc

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/osc"
	"github.com/stitchworks/spindle/pkg/value"
)

// Device errors.
var (
	ErrOutOfRange  = errors.New("coordinate out of range")
	ErrBadRotation = errors.New("rotation must be 0, 90, 180 or 270")
	ErrNotArc      = errors.New("device is not an arc")
	ErrNotGrid     = errors.New("device is not a grid")
)

const (
	quadSize  = 8
	arcRings  = 4
	ringLEDs  = 64
	maxLevel  = 15
	numTilts  = 4
	prefixFmt = "/spindle/%s"
)

// Device is one serialosc device. It implements device.Device.
type Device struct {
	sender osc.Sender
	addr   osc.Address
	serial string
	name   string
	typ    device.Type
	prefix string

	mu     sync.Mutex
	rows   int
	cols   int
	levels []int
	dirty  []bool
}

var _ device.Device = (*Device)(nil)

// TypeFromName infers the controller family from serialosc's type string.
func TypeFromName(name string) device.Type {
	if strings.Contains(strings.ToLower(name), "arc") {
		return device.TypeArc
	}
	return device.TypeGrid
}

func newDevice(sender osc.Sender, addr osc.Address, serial, name string) *Device {
	d := &Device{
		sender: sender,
		addr:   addr,
		serial: serial,
		name:   name,
		typ:    TypeFromName(name),
		prefix: fmt.Sprintf(prefixFmt, serial),
	}
	if d.typ == device.TypeArc {
		d.resize(arcRings, ringLEDs)
	}
	return d
}

// resize reallocates the LED buffer. Grids are rows×cols; arcs are
// rings×64. Everything is marked dirty.
func (d *Device) resize(rows, cols int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows, d.cols = rows, cols
	d.levels = make([]int, rows*cols)
	d.dirty = make([]bool, d.unitsLocked())
	for i := range d.dirty {
		d.dirty[i] = true
	}
}

// unitsLocked returns the number of refresh units: 8×8 quads for grids,
// rings for arcs.
func (d *Device) unitsLocked() int {
	if d.typ == device.TypeArc {
		return d.rows
	}
	return quadsAcross(d.cols) * quadsAcross(d.rows)
}

func quadsAcross(n int) int {
	return (n + quadSize - 1) / quadSize
}

func clampLevel(l int) int {
	return max(0, min(l, maxLevel))
}

// Serial returns the device serial.
func (d *Device) Serial() string { return d.serial }

// Name returns the serialosc type string, e.g. "monome 128".
func (d *Device) Name() string { return d.name }

// Type returns the controller family.
func (d *Device) Type() device.Type { return d.typ }

// Prefix returns the OSC prefix the device sends input under.
func (d *Device) Prefix() string { return d.prefix }

// Rows returns the grid height (arcs: ring count).
func (d *Device) Rows() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows
}

// Cols returns the grid width (arcs: LEDs per ring).
func (d *Device) Cols() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cols
}

// SetLED sets one grid LED level in the buffer.
func (d *Device) SetLED(x, y, level int) error {
	if d.typ != device.TypeGrid {
		return ErrNotGrid
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if x < 0 || y < 0 || x >= d.cols || y >= d.rows {
		return fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfRange, x, y, d.cols, d.rows)
	}
	d.levels[y*d.cols+x] = clampLevel(level)
	d.dirty[(y/quadSize)*quadsAcross(d.cols)+x/quadSize] = true
	return nil
}

// SetRingLED sets one arc LED level in the buffer. pos wraps around the
// ring.
func (d *Device) SetRingLED(ring, pos, level int) error {
	if d.typ != device.TypeArc {
		return ErrNotArc
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if ring < 0 || ring >= d.rows {
		return fmt.Errorf("%w: ring %d", ErrOutOfRange, ring)
	}
	pos = ((pos % ringLEDs) + ringLEDs) % ringLEDs
	d.levels[ring*ringLEDs+pos] = clampLevel(level)
	d.dirty[ring] = true
	return nil
}

// AllLED sets every LED in the buffer.
func (d *Device) AllLED(level int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	level = clampLevel(level)
	for i := range d.levels {
		d.levels[i] = level
	}
	for i := range d.dirty {
		d.dirty[i] = true
	}
	return nil
}

// Refresh sends every dirty quad or ring.
func (d *Device) Refresh() error {
	msgs := d.collectDirty()
	var errs []error
	for _, m := range msgs {
		if err := d.sender.Send(d.addr, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Device) collectDirty() []*osc.Message {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*osc.Message
	if d.typ == device.TypeArc {
		for ring, dirty := range d.dirty {
			if !dirty {
				continue
			}
			args := make([]value.Value, 0, 1+ringLEDs)
			args = append(args, value.Int(int64(ring)))
			for _, l := range d.levels[ring*ringLEDs : (ring+1)*ringLEDs] {
				args = append(args, value.Int(int64(l)))
			}
			out = append(out, osc.NewMessage(d.prefix+"/ring/map", args...))
			d.dirty[ring] = false
		}
		return out
	}

	across := quadsAcross(d.cols)
	for q, dirty := range d.dirty {
		if !dirty {
			continue
		}
		xOff := (q % across) * quadSize
		yOff := (q / across) * quadSize
		args := make([]value.Value, 0, 2+quadSize*quadSize)
		args = append(args, value.Int(int64(xOff)), value.Int(int64(yOff)))
		for y := yOff; y < yOff+quadSize; y++ {
			for x := xOff; x < xOff+quadSize; x++ {
				l := 0
				if x < d.cols && y < d.rows {
					l = d.levels[y*d.cols+x]
				}
				args = append(args, value.Int(int64(l)))
			}
		}
		out = append(out, osc.NewMessage(d.prefix+"/grid/led/level/map", args...))
		d.dirty[q] = false
	}
	return out
}

// SetRotation sets the device rotation in degrees and asks for the new
// size.
func (d *Device) SetRotation(degrees int) error {
	switch degrees {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("%w: %d", ErrBadRotation, degrees)
	}
	if err := d.sender.Send(d.addr, osc.NewMessage("/sys/rotation", value.Int(int64(degrees)))); err != nil {
		return err
	}
	return d.sender.Send(d.addr, osc.NewMessage("/sys/info"))
}

// TiltEnable turns on a tilt sensor.
func (d *Device) TiltEnable(sensor int) error {
	return d.setTilt(sensor, 1)
}

// TiltDisable turns off a tilt sensor.
func (d *Device) TiltDisable(sensor int) error {
	return d.setTilt(sensor, 0)
}

func (d *Device) setTilt(sensor, state int) error {
	if sensor < 0 || sensor >= numTilts {
		return fmt.Errorf("%w: tilt sensor %d", ErrOutOfRange, sensor)
	}
	return d.sender.Send(d.addr, osc.NewMessage(d.prefix+"/tilt/set",
		value.Int(int64(sensor)), value.Int(int64(state))))
}

// Intensity sets the global LED intensity.
func (d *Device) Intensity(level int) error {
	return d.sender.Send(d.addr, osc.NewMessage(d.prefix+"/grid/led/intensity", value.Int(int64(clampLevel(level)))))
}
