package bridge

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Runtime errors.
var (
	ErrHandlerMissing = errors.New("handler not defined")
	ErrRuntimeClosed  = errors.New("runtime closed")
	ErrResetDisabled  = errors.New("runtime reset not available")
)

// ArgumentShapeError reports a command called with the wrong number or
// kind of arguments. The command has no effect.
type ArgumentShapeError struct {
	Func   string
	Arg    int // 1-based; 0 for arity errors
	Reason string
}

func (e *ArgumentShapeError) Error() string {
	if e.Arg == 0 {
		return fmt.Sprintf("%s: %s", e.Func, e.Reason)
	}
	return fmt.Sprintf("bad argument #%d to %s (%s)", e.Arg, e.Func, e.Reason)
}

// UnsupportedTypeError reports an outbound OSC argument whose Lua type
// has no wire representation. Nothing is sent.
type UnsupportedTypeError struct {
	Func    string
	Index   int // 1-based position in the argument table
	LuaType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: invalid osc argument type %s at index %d", e.Func, e.LuaType, e.Index)
}

// HandlerError wraps a failure raised while a script handler ran.
type HandlerError struct {
	Handler string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s: %s", e.Handler, luaErrorText(e.Err))
}

// Unwrap returns the Go error carried by the Lua error, when there is
// one, so errors.Is and errors.As see through script frames.
func (e *HandlerError) Unwrap() error {
	var apiErr *lua.ApiError
	if errors.As(e.Err, &apiErr) {
		if ud, ok := apiErr.Object.(*lua.LUserData); ok {
			if inner, ok := ud.Value.(error); ok {
				return inner
			}
		}
	}
	return e.Err
}

// luaErrorText renders a Lua error without the userdata address that
// gopher-lua prints for non-string error objects.
func luaErrorText(err error) string {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	msg := apiErr.Object.String()
	if ud, ok := apiErr.Object.(*lua.LUserData); ok {
		if inner, ok := ud.Value.(error); ok {
			msg = inner.Error()
		}
	}
	if apiErr.StackTrace != "" {
		return msg + "\n" + apiErr.StackTrace
	}
	return msg
}

const errorTypeName = "bridge.error"

// raise aborts the running Lua function with err as the error object.
// Scripts see it through pcall and can tostring it.
func raise(L *lua.LState, err error) int {
	ud := L.NewUserData()
	ud.Value = err
	L.SetMetatable(ud, L.GetTypeMetatable(errorTypeName))
	L.Error(ud, 1)
	return 0
}

func registerErrorType(L *lua.LState) {
	mt := L.NewTypeMetatable(errorTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if err, ok := ud.Value.(error); ok {
			L.Push(lua.LString(err.Error()))
			return 1
		}
		L.Push(lua.LString("error"))
		return 1
	}))
}
