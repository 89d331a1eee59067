package bridge

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/log"
	"github.com/stitchworks/spindle/pkg/osc"
	"github.com/stitchworks/spindle/pkg/value"
	lua "github.com/yuin/gopher-lua"
)

const handleTypeName = "bridge.device"

const addressShape = "address should be a table in the form {host, port}"

func (r *Runtime) registerCommands(t *lua.LTable) {
	r.L.SetFuncs(t, map[string]lua.LGFunction{
		"osc_send": r.oscSend,

		"grid_set_led":      r.gridSetLED,
		"grid_all_led":      r.allLED("grid_all_led"),
		"grid_rows":         r.gridSize("grid_rows", r.config.Registry.Rows),
		"grid_cols":         r.gridSize("grid_cols", r.config.Registry.Cols),
		"grid_set_rotation": r.gridSetRotation,
		"grid_tilt_enable":  r.gridTilt("grid_tilt_enable", true),
		"grid_tilt_disable": r.gridTilt("grid_tilt_disable", false),

		"arc_set_led": r.arcSetLED,
		"arc_all_led": r.allLED("arc_all_led"),

		"monome_refresh":   r.monomeRefresh,
		"monome_intensity": r.monomeIntensity,

		"reset_runtime": r.resetRuntime,
	})
}

func registerHandleType(L *lua.LState) {
	mt := L.NewTypeMetatable(handleTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		h, _ := L.CheckUserData(1).Value.(device.Handle)
		L.Push(lua.LString(fmt.Sprintf("device %d", h.ID+1)))
		return 1
	}))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		a, aok := L.CheckUserData(1).Value.(device.Handle)
		b, bok := L.CheckUserData(2).Value.(device.Handle)
		L.Push(lua.LBool(aok && bok && a == b))
		return 1
	}))
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		h, _ := L.CheckUserData(1).Value.(device.Handle)
		if L.CheckString(2) == "id" {
			L.Push(lua.LNumber(h.ID + 1))
			return 1
		}
		L.Push(lua.LNil)
		return 1
	}))
}

func newHandle(L *lua.LState, h device.Handle) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = h
	L.SetMetatable(ud, L.GetTypeMetatable(handleTypeName))
	return ud
}

// checkArity raises unless exactly n arguments were passed.
func checkArity(L *lua.LState, fn string, n int) {
	if top := L.GetTop(); top != n {
		raise(L, &ArgumentShapeError{Func: fn, Reason: fmt.Sprintf("expected %d arguments, got %d", n, top)})
	}
}

// checkInt raises unless argument n is a number with an integer
// representation.
func checkInt(L *lua.LState, fn string, n int) int {
	v, ok := L.Get(n).(lua.LNumber)
	if !ok {
		raise(L, &ArgumentShapeError{Func: fn, Arg: n, Reason: "number expected, got " + L.Get(n).Type().String()})
	}
	f := float64(v)
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		raise(L, &ArgumentShapeError{Func: fn, Arg: n, Reason: "number has no integer representation: " + v.String()})
	}
	return int(f)
}

// checkHandle raises unless argument n is a device handle.
func checkHandle(L *lua.LState, fn string, n int) device.Handle {
	ud, ok := L.Get(n).(*lua.LUserData)
	var h device.Handle
	if ok {
		h, ok = ud.Value.(device.Handle)
	}
	if !ok {
		raise(L, &ArgumentShapeError{Func: fn, Arg: n, Reason: "device expected, got " + L.Get(n).Type().String()})
	}
	return h
}

// checkDevice resolves argument n to a live device.
func (r *Runtime) checkDevice(L *lua.LState, fn string, n int) (device.Handle, device.Device) {
	h := checkHandle(L, fn, n)
	d, err := r.config.Registry.Lookup(h)
	if err != nil {
		raise(L, fmt.Errorf("%s: %w", fn, err))
	}
	return h, d
}

// deviceResult reports a driver failure to the script as false plus a
// message. Driver failures are not argument errors.
func (r *Runtime) deviceResult(L *lua.LState, fn string, h device.Handle, d device.Device, values []int, err error) int {
	r.plog.Log(log.Event{
		Timestamp:    time.Now(),
		SessionID:    r.config.SessionID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerDevice,
		Category:     log.CategoryDevice,
		DeviceSerial: d.Serial(),
		Device: &log.DeviceEvent{
			Type:     log.DeviceEventCommand,
			DeviceID: h.ID,
			Values:   values,
			Command:  fn,
		},
	})
	if err != nil {
		r.logger.Warn("device command failed", "command", fn, "serial", d.Serial(), "error", err)
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (r *Runtime) gridSetLED(L *lua.LState) int {
	const fn = "grid_set_led"
	checkArity(L, fn, 4)
	h, d := r.checkDevice(L, fn, 1)
	x := checkInt(L, fn, 2) - 1
	y := checkInt(L, fn, 3) - 1
	z := checkInt(L, fn, 4)
	return r.deviceResult(L, fn, h, d, []int{x, y, z}, d.SetLED(x, y, z))
}

func (r *Runtime) arcSetLED(L *lua.LState) int {
	const fn = "arc_set_led"
	checkArity(L, fn, 4)
	h, d := r.checkDevice(L, fn, 1)
	ring := checkInt(L, fn, 2) - 1
	pos := checkInt(L, fn, 3) - 1
	val := checkInt(L, fn, 4)
	return r.deviceResult(L, fn, h, d, []int{ring, pos, val}, d.SetRingLED(ring, pos, val))
}

func (r *Runtime) allLED(fn string) lua.LGFunction {
	return func(L *lua.LState) int {
		checkArity(L, fn, 2)
		h, d := r.checkDevice(L, fn, 1)
		z := checkInt(L, fn, 2)
		return r.deviceResult(L, fn, h, d, []int{z}, d.AllLED(z))
	}
}

// gridSize returns grid_rows or grid_cols. The registry asks the driver
// each time; sizes are not cached.
func (r *Runtime) gridSize(fn string, size func(device.Handle) (int, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		checkArity(L, fn, 1)
		n, err := size(checkHandle(L, fn, 1))
		if err != nil {
			raise(L, fmt.Errorf("%s: %w", fn, err))
		}
		L.Push(lua.LNumber(n))
		return 1
	}
}

func (r *Runtime) gridSetRotation(L *lua.LState) int {
	const fn = "grid_set_rotation"
	checkArity(L, fn, 2)
	h, d := r.checkDevice(L, fn, 1)
	deg := checkInt(L, fn, 2)
	return r.deviceResult(L, fn, h, d, []int{deg}, d.SetRotation(deg))
}

func (r *Runtime) gridTilt(fn string, enable bool) lua.LGFunction {
	return func(L *lua.LState) int {
		checkArity(L, fn, 2)
		h, d := r.checkDevice(L, fn, 1)
		sensor := checkInt(L, fn, 2) - 1
		var err error
		if enable {
			err = d.TiltEnable(sensor)
		} else {
			err = d.TiltDisable(sensor)
		}
		return r.deviceResult(L, fn, h, d, []int{sensor}, err)
	}
}

func (r *Runtime) monomeRefresh(L *lua.LState) int {
	const fn = "monome_refresh"
	checkArity(L, fn, 1)
	h, d := r.checkDevice(L, fn, 1)
	return r.deviceResult(L, fn, h, d, nil, d.Refresh())
}

func (r *Runtime) monomeIntensity(L *lua.LState) int {
	const fn = "monome_intensity"
	checkArity(L, fn, 2)
	h, d := r.checkDevice(L, fn, 1)
	i := checkInt(L, fn, 2)
	return r.deviceResult(L, fn, h, d, []int{i}, d.Intensity(i))
}

func (r *Runtime) resetRuntime(L *lua.LState) int {
	const fn = "reset_runtime"
	checkArity(L, fn, 0)
	if r.config.OnReset == nil {
		raise(L, fmt.Errorf("%s: %w", fn, ErrResetDisabled))
	}
	r.config.OnReset()
	return 0
}

// addressElement accepts a string or a number, as Lua's own string
// coercion would.
func addressElement(lv lua.LValue) (string, bool) {
	switch v := lv.(type) {
	case lua.LString:
		return string(v), true
	case lua.LNumber:
		return v.String(), true
	default:
		return "", false
	}
}

func (r *Runtime) oscSend(L *lua.LState) int {
	const fn = "osc_send"
	top := L.GetTop()
	if top < 2 || top > 3 {
		raise(L, &ArgumentShapeError{Func: fn, Reason: fmt.Sprintf("expected 2 or 3 arguments, got %d", top)})
	}

	at, ok := L.Get(1).(*lua.LTable)
	if !ok || at.Len() != 2 {
		raise(L, &ArgumentShapeError{Func: fn, Arg: 1, Reason: addressShape})
	}
	host, hok := addressElement(at.RawGetInt(1))
	port, pok := addressElement(at.RawGetInt(2))
	if !hok || !pok {
		raise(L, &ArgumentShapeError{Func: fn, Arg: 1, Reason: addressShape})
	}
	addr := osc.Address{Host: host, Port: port}
	if err := addr.Validate(); err != nil {
		raise(L, &ArgumentShapeError{Func: fn, Arg: 1, Reason: err.Error()})
	}

	path, ok := L.Get(2).(lua.LString)
	if !ok {
		raise(L, &ArgumentShapeError{Func: fn, Arg: 2, Reason: "string expected, got " + L.Get(2).Type().String()})
	}
	if err := osc.ValidatePath(string(path)); err != nil {
		raise(L, &ArgumentShapeError{Func: fn, Arg: 2, Reason: err.Error()})
	}

	var args []value.Value
	if top == 3 && L.Get(3) != lua.LNil {
		t, ok := L.Get(3).(*lua.LTable)
		if !ok {
			raise(L, &ArgumentShapeError{Func: fn, Arg: 3, Reason: "table expected, got " + L.Get(3).Type().String()})
		}
		n, err := sequenceLen(fn, 3, t)
		if err != nil {
			raise(L, err)
		}
		args = make([]value.Value, 0, n)
		for i := 1; i <= n; i++ {
			v, err := fromLua(fn, i, t.RawGetInt(i))
			if err != nil {
				raise(L, err)
			}
			args = append(args, v)
		}
	}

	if r.config.Sender == nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString("osc transport not configured"))
		return 2
	}
	err := r.config.Sender.Send(addr, osc.NewMessage(string(path), args...))
	if err != nil {
		var ute *osc.UnsupportedTypeError
		if errors.As(err, &ute) {
			raise(L, fmt.Errorf("%s: %w", fn, err))
		}
		r.logger.Warn("osc send failed", "addr", addr.String(), "path", string(path), "error", err)
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
