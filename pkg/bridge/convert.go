package bridge

import (
	"math"
	"strconv"

	"github.com/stitchworks/spindle/pkg/osc"
	"github.com/stitchworks/spindle/pkg/value"
	lua "github.com/yuin/gopher-lua"
)

// toLua converts an inbound value. Text and Symbol both become strings;
// the handler receives the type tags to tell them apart.
func toLua(v value.Value) lua.LValue {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.Bool()
		return lua.LBool(b)
	case value.KindInt, value.KindFloat:
		n, _ := v.Number()
		return lua.LNumber(n)
	case value.KindText, value.KindSymbol, value.KindBlob, value.KindQuad:
		return lua.LString(v.Bytes())
	default:
		return lua.LNil
	}
}

// argsTable builds the positional argument table for osc.event. Nil
// arguments leave holes, so the count is also stored in field n.
func argsTable(L *lua.LState, args []value.Value) *lua.LTable {
	t := L.CreateTable(len(args), 1)
	for i, a := range args {
		if a.IsNil() {
			continue
		}
		t.RawSetInt(i+1, toLua(a))
	}
	t.RawSetString("n", lua.LNumber(len(args)))
	return t
}

// addressTable builds {host, port}.
func addressTable(L *lua.LState, addr osc.Address) *lua.LTable {
	t := L.CreateTable(2, 0)
	t.RawSetInt(1, lua.LString(addr.Host))
	t.RawSetInt(2, lua.LString(addr.Port))
	return t
}

// fromLua converts an outbound script argument. Precedence is nil,
// boolean, number, string; numbers are always sent as floats. index is
// 1-based and only used for the error.
func fromLua(fn string, index int, lv lua.LValue) (value.Value, error) {
	switch v := lv.(type) {
	case *lua.LNilType:
		return value.Nil(), nil
	case lua.LBool:
		return value.Bool(bool(v)), nil
	case lua.LNumber:
		return value.Float(float64(v)), nil
	case lua.LString:
		return value.Text(string(v)), nil
	default:
		return value.Nil(), &UnsupportedTypeError{Func: fn, Index: index, LuaType: lv.Type().String()}
	}
}

// maxSendArgs bounds an outbound argument list. Every argument takes at
// least four bytes of a datagram that cannot exceed 64 KiB.
const maxSendArgs = 64 * 1024 / 4

// sequenceLen returns the element count of an argument table: its
// border, or a larger integer n field so trailing nils are kept.
func sequenceLen(fn string, arg int, t *lua.LTable) (int, error) {
	border := t.Len()
	count := border
	switch n := t.RawGetString("n").(type) {
	case *lua.LNilType:
	case lua.LNumber:
		f := float64(n)
		if f != math.Trunc(f) || f < 0 || f > maxSendArgs {
			return 0, &ArgumentShapeError{Func: fn, Arg: arg, Reason: "field n must be an integer between 0 and " + strconv.Itoa(maxSendArgs)}
		}
		count = max(border, int(f))
	default:
		return 0, &ArgumentShapeError{Func: fn, Arg: arg, Reason: "field n must be a number, got " + n.Type().String()}
	}
	if count > maxSendArgs {
		return 0, &ArgumentShapeError{Func: fn, Arg: arg, Reason: "more than " + strconv.Itoa(maxSendArgs) + " arguments"}
	}
	return count, nil
}
