package bridge

import (
	"fmt"
	"strings"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/osc"
	lua "github.com/yuin/gopher-lua"
)

// Handler namespaces under the bridge table.
const (
	NamespaceMonome = "monome"
	NamespaceGrid   = "grid"
	NamespaceArc    = "arc"
	NamespaceOSC    = "osc"
)

// lookup finds bridge.<namespace>.<function>.
func (r *Runtime) lookup(namespace, function string) (*lua.LFunction, error) {
	name := namespace + "." + function
	b, ok := r.L.GetGlobal(GlobalName).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrHandlerMissing)
	}
	ns, ok := r.L.GetField(b, namespace).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrHandlerMissing)
	}
	fn, ok := r.L.GetField(ns, function).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrHandlerMissing)
	}
	return fn, nil
}

// call runs fn in protected mode and leaves the stack as it found it.
func (r *Runtime) call(name string, fn *lua.LFunction, args ...lua.LValue) error {
	top := r.L.GetTop()
	defer r.L.SetTop(top)

	if err := r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		return &HandlerError{Handler: name, Err: err}
	}
	return nil
}

func (r *Runtime) dispatch(namespace, function string, args ...lua.LValue) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	fn, err := r.lookup(namespace, function)
	if err != nil {
		return err
	}
	return r.call(namespace+"."+function, fn, args...)
}

// DeviceAdded invokes monome.add(id, serial, name, handle).
func (r *Runtime) DeviceAdded(h device.Handle, serial, name string) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	return r.dispatch(NamespaceMonome, "add",
		lua.LNumber(h.ID+1), lua.LString(serial), lua.LString(name), newHandle(r.L, h))
}

// DeviceRemoved invokes monome.remove(id).
func (r *Runtime) DeviceRemoved(id int) error {
	return r.dispatch(NamespaceMonome, "remove", lua.LNumber(id+1))
}

// GridKey invokes grid.key(id, x, y, pressed).
func (r *Runtime) GridKey(id, x, y int, pressed bool) error {
	return r.dispatch(NamespaceGrid, "key",
		lua.LNumber(id+1), lua.LNumber(x+1), lua.LNumber(y+1), lua.LBool(pressed))
}

// GridTilt invokes grid.tilt(id, sensor, x, y, z). The axis readings
// are offset by one like every other index scripts see.
func (r *Runtime) GridTilt(id, sensor, x, y, z int) error {
	return r.dispatch(NamespaceGrid, "tilt",
		lua.LNumber(id+1), lua.LNumber(sensor+1), lua.LNumber(x+1), lua.LNumber(y+1), lua.LNumber(z+1))
}

// ArcDelta invokes arc.delta(id, ring, delta).
func (r *Runtime) ArcDelta(id, ring, delta int) error {
	return r.dispatch(NamespaceArc, "delta",
		lua.LNumber(id+1), lua.LNumber(ring+1), lua.LNumber(delta))
}

// ArcKey invokes arc.key(id, ring, pressed).
func (r *Runtime) ArcKey(id, ring int, pressed bool) error {
	return r.dispatch(NamespaceArc, "key",
		lua.LNumber(id+1), lua.LNumber(ring+1), lua.LBool(pressed))
}

// OSCEvent invokes osc.event(path, args, {host, port}, tags).
func (r *Runtime) OSCEvent(from osc.Address, msg *osc.Message) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	return r.dispatch(NamespaceOSC, "event",
		lua.LString(msg.Path), argsTable(r.L, msg.Args), addressTable(r.L, from), lua.LString(msg.TypeTags()))
}

// ExecLine runs one line of Lua typed at the console. A line that does
// not compile as a statement is retried as an expression and its values
// are printed.
func (r *Runtime) ExecLine(code string) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}

	fn, err := r.L.LoadString("return " + code)
	printResults := err == nil
	if err != nil {
		fn, err = r.L.LoadString(code)
		if err != nil {
			return &HandlerError{Handler: "console", Err: err}
		}
	}

	top := r.L.GetTop()
	defer r.L.SetTop(top)
	if err := r.L.CallByParam(lua.P{Fn: fn, NRet: lua.MultRet, Protect: true}); err != nil {
		return &HandlerError{Handler: "console", Err: err}
	}
	if !printResults || r.L.GetTop() == top {
		return nil
	}

	parts := make([]string, 0, r.L.GetTop()-top)
	for i := top + 1; i <= r.L.GetTop(); i++ {
		parts = append(parts, r.L.ToStringMeta(r.L.Get(i)).String())
	}
	fmt.Fprintln(r.stdout, strings.Join(parts, "\t"))
	return nil
}
