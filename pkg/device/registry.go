package device

import (
	"errors"
	"fmt"
	"sync"
)

// ErrStaleHandle is returned for handles whose device is gone.
var ErrStaleHandle = errors.New("stale device handle")

// Handle is a generation-checked reference to an attached device.
type Handle struct {
	ID  int
	Gen uint32
}

// String formats the handle for diagnostics.
func (h Handle) String() string {
	return fmt.Sprintf("device#%d.%d", h.ID, h.Gen)
}

type slot struct {
	dev Device
	gen uint32
}

// Registry maps handles to attached devices. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	slots   []slot
	nextGen uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Attach stores dev in the lowest free slot and returns its handle.
func (r *Registry) Attach(dev Device) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextGen++
	if r.nextGen == 0 {
		r.nextGen = 1
	}

	id := -1
	for i := range r.slots {
		if r.slots[i].dev == nil {
			id = i
			break
		}
	}
	if id < 0 {
		id = len(r.slots)
		r.slots = append(r.slots, slot{})
	}
	r.slots[id] = slot{dev: dev, gen: r.nextGen}
	return Handle{ID: id, Gen: r.nextGen}
}

// Detach frees the slot held by h.
func (r *Registry) Detach(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.validLocked(h) {
		return fmt.Errorf("detach %s: %w", h, ErrStaleHandle)
	}
	r.slots[h.ID] = slot{}

	// Trim trailing free slots so Len-based callers see a compact table.
	n := len(r.slots)
	for n > 0 && r.slots[n-1].dev == nil {
		n--
	}
	r.slots = r.slots[:n]
	return nil
}

// Lookup resolves h to its device.
func (r *Registry) Lookup(h Handle) (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.validLocked(h) {
		return nil, fmt.Errorf("%s: %w", h, ErrStaleHandle)
	}
	return r.slots[h.ID].dev, nil
}

// Rows returns the driver's row count for h.
func (r *Registry) Rows(h Handle) (int, error) {
	d, err := r.Lookup(h)
	if err != nil {
		return 0, err
	}
	return d.Rows(), nil
}

// Cols returns the driver's column count for h.
func (r *Registry) Cols(h Handle) (int, error) {
	d, err := r.Lookup(h)
	if err != nil {
		return 0, err
	}
	return d.Cols(), nil
}

// Handles returns the live handles in ID order.
func (r *Registry) Handles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Handle, 0, len(r.slots))
	for i, s := range r.slots {
		if s.dev != nil {
			out = append(out, Handle{ID: i, Gen: s.gen})
		}
	}
	return out
}

// Len returns the number of attached devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.slots {
		if s.dev != nil {
			n++
		}
	}
	return n
}

func (r *Registry) validLocked(h Handle) bool {
	return h.ID >= 0 && h.ID < len(r.slots) && r.slots[h.ID].dev != nil && r.slots[h.ID].gen == h.Gen
}
