package bridge

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stitchworks/spindle/pkg/osc"
	"github.com/stitchworks/spindle/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestDeviceEventsTranslateToOneBased(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, `
		calls = {}
		function bridge.grid.key(...) calls.key = {...} end
		function bridge.grid.tilt(...) calls.tilt = {...} end
		function bridge.arc.delta(...) calls.delta = {...} end
		function bridge.arc.key(...) calls.arckey = {...} end
		function bridge.monome.remove(...) calls.remove = {...} end
	`)

	require.NoError(t, env.rt.GridKey(0, 0, 7, true))
	require.NoError(t, env.rt.GridTilt(2, 0, 128, -3, 0))
	require.NoError(t, env.rt.ArcDelta(1, 3, -5))
	require.NoError(t, env.rt.ArcKey(1, 0, false))
	require.NoError(t, env.rt.DeviceRemoved(4))

	check := func(field string, want ...lua.LValue) {
		t.Helper()
		tbl := env.rt.L.GetField(env.global("calls"), field).(*lua.LTable)
		require.Equal(t, len(want), tbl.Len(), field)
		for i, w := range want {
			assert.Equal(t, w, tbl.RawGetInt(i+1), "%s arg %d", field, i+1)
		}
	}
	check("key", lua.LNumber(1), lua.LNumber(1), lua.LNumber(8), lua.LTrue)
	check("tilt", lua.LNumber(3), lua.LNumber(1), lua.LNumber(129), lua.LNumber(-2), lua.LNumber(1))
	check("delta", lua.LNumber(2), lua.LNumber(4), lua.LNumber(-5))
	check("arckey", lua.LNumber(2), lua.LNumber(1), lua.LFalse)
	check("remove", lua.LNumber(5))
}

func TestDeviceAddedArguments(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, `
		function bridge.monome.add(id, serial, name, dev)
			got_id, got_serial, got_name, got_type = id, serial, name, type(dev)
		end
	`)
	env.registry.Attach(newMockGrid(t, "m1000"))
	h := env.registry.Attach(newMockGrid(t, "m2000"))
	require.NoError(t, env.rt.DeviceAdded(h, "m2000", "monome arc 4"))

	assert.Equal(t, lua.LNumber(2), env.global("got_id"))
	assert.Equal(t, lua.LString("m2000"), env.global("got_serial"))
	assert.Equal(t, lua.LString("monome arc 4"), env.global("got_name"))
	assert.Equal(t, lua.LString("userdata"), env.global("got_type"))
}

func TestOSCEventArguments(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, `
		function bridge.osc.event(path, args, from, tags)
			ev = { path = path, args = args, host = from[1], port = from[2], tags = tags }
		end
	`)

	msg := &osc.Message{
		Path: "/in",
		Tags: "ifsSbNTmI",
		Args: []value.Value{
			value.Int(42),
			value.Float(0.5),
			value.Text("text"),
			value.Symbol("sym"),
			value.Blob([]byte{0, 1, 0}),
			value.Nil(),
			value.Bool(true),
			value.Quad([4]byte{0, 0x90, 60, 127}),
			value.Float(math.Inf(1)),
		},
	}
	require.NoError(t, env.rt.OSCEvent(osc.Address{Host: "10.0.0.2", Port: "9000"}, msg))

	ev := env.global("ev").(*lua.LTable)
	get := func(k string) lua.LValue { return ev.RawGetString(k) }
	assert.Equal(t, lua.LString("/in"), get("path"))
	assert.Equal(t, lua.LString("10.0.0.2"), get("host"))
	assert.Equal(t, lua.LString("9000"), get("port"))
	assert.Equal(t, lua.LString("ifsSbNTmI"), get("tags"))

	args := get("args").(*lua.LTable)
	assert.Equal(t, lua.LNumber(9), args.RawGetString("n"))
	assert.Equal(t, lua.LNumber(42), args.RawGetInt(1))
	assert.Equal(t, lua.LNumber(0.5), args.RawGetInt(2))
	assert.Equal(t, lua.LString("text"), args.RawGetInt(3))
	assert.Equal(t, lua.LString("sym"), args.RawGetInt(4))
	assert.Equal(t, lua.LString("\x00\x01\x00"), args.RawGetInt(5))
	assert.Equal(t, lua.LNil, args.RawGetInt(6))
	assert.Equal(t, lua.LTrue, args.RawGetInt(7))
	assert.Equal(t, lua.LString("\x00\x90\x3c\x7f"), args.RawGetInt(8))
	assert.Equal(t, lua.LNumber(math.Inf(1)), args.RawGetInt(9))
}

func TestOSCEchoRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, `
		function bridge.osc.event(path, args, from)
			bridge.osc_send({"127.0.0.1", "9001"}, path, args)
		end
	`)

	in := []value.Value{value.Int(7), value.Text("a"), value.Nil(), value.Symbol("s"), value.Bool(false)}
	want := []value.Value{value.Float(7), value.Text("a"), value.Nil(), value.Text("s"), value.Bool(false)}

	env.sender.EXPECT().
		Send(oscAddr("127.0.0.1", "9001"), mock.Anything).
		Run(func(_ osc.Address, msg *osc.Message) {
			assert.Equal(t, "/echo", msg.Path)
			assert.True(t, value.EqualSlices(want, msg.Args), "got %v", msg.Args)
		}).
		Return(nil).Once()

	require.NoError(t, env.rt.OSCEvent(oscAddr("127.0.0.1", "50000"), osc.NewMessage("/echo", in...)))
}

func TestHandlerFailureIsIsolated(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, `
		count = 0
		function bridge.grid.key(id, x, y, pressed)
			count = count + 1
			if x == 1 then error("boom") end
		end
	`)

	err := env.rt.GridKey(0, 0, 0, true)
	var herr *HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "grid.key", herr.Handler)
	assert.Contains(t, herr.Error(), "boom")

	require.NoError(t, env.rt.GridKey(0, 1, 0, true))
	assert.Equal(t, lua.LNumber(2), env.global("count"), "state survives the failure")
	assert.Equal(t, 0, env.rt.L.GetTop(), "stack is balanced")
}

func TestMissingHandler(t *testing.T) {
	env := newTestEnv(t)

	env.run(t, `bridge.arc = nil`)
	assert.ErrorIs(t, env.rt.ArcDelta(0, 0, 1), ErrHandlerMissing)

	env.run(t, `bridge.grid.tilt = nil`)
	assert.ErrorIs(t, env.rt.GridTilt(0, 0, 1, 2, 3), ErrHandlerMissing)

	env.run(t, `bridge.osc.event = "not a function"`)
	assert.ErrorIs(t, env.rt.OSCEvent(oscAddr("h", "1"), osc.NewMessage("/x")), ErrHandlerMissing)

	require.NoError(t, env.rt.GridKey(0, 0, 0, true), "other namespaces unaffected")
}

func TestCoreDeviceBookkeeping(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, `
		added, removed = {}, {}
		bridge.on_add = function(d) added[#added + 1] = d.serial end
		bridge.on_remove = function(d) removed[#removed + 1] = d.serial end
	`)
	h := env.attach(t, newMockGrid(t, "m1"), "m1")
	require.NoError(t, env.registry.Detach(h))
	require.NoError(t, env.rt.DeviceRemoved(h.ID))

	env.run(t, `a, r, left = added[1], removed[1], bridge.devices[1]`)
	assert.Equal(t, lua.LString("m1"), env.global("a"))
	assert.Equal(t, lua.LString("m1"), env.global("r"))
	assert.Equal(t, lua.LNil, env.global("left"))
}

func TestStartupRunsScriptAndInit(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
		loaded = true
		function init() initialized = bridge.local_port end
	`), 0o600))

	env := newTestEnv(t)
	require.NoError(t, env.rt.Startup(script))
	assert.Equal(t, lua.LTrue, env.global("loaded"))
	assert.Equal(t, lua.LString("7777"), env.global("initialized"))
}

func TestStartupScriptError(t *testing.T) {
	env := newTestEnv(t)
	err := env.rt.Startup(filepath.Join(t.TempDir(), "absent.lua"))
	var herr *HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "_startup", herr.Handler)
}

func TestConfigFileRunsBeforeCore(t *testing.T) {
	env := newTestEnv(t, withConfigFile(t, `
		bridge.grid = { key = function() from_config = true end }
		config_ran = true
	`))
	assert.Equal(t, lua.LTrue, env.global("config_ran"))

	require.NoError(t, env.rt.GridKey(0, 0, 0, true))
	assert.Equal(t, lua.LTrue, env.global("from_config"), "core keeps handlers set by config")
	require.NoError(t, env.rt.GridTilt(0, 0, 0, 0, 0), "core fills in the rest")
}

func TestConfigFileErrorNotFatal(t *testing.T) {
	env := newTestEnv(t, withConfigFile(t, `error("bad config")`))
	require.NoError(t, env.rt.GridKey(0, 0, 0, true))
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv(ConfigEnv, "/tmp/custom.lua")
	assert.Equal(t, "/tmp/custom.lua", ConfigPathFromEnv())

	t.Setenv(ConfigEnv, "")
	assert.Equal(t, DefaultConfigPath, ConfigPathFromEnv())
}

func TestExecLine(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.rt.ExecLine("1 + 1"))
	require.NoError(t, env.rt.ExecLine("x = 5"))
	require.NoError(t, env.rt.ExecLine("x, 'y'"))
	require.NoError(t, env.rt.ExecLine("print('hello', nil)"))
	require.NoError(t, env.rt.ExecLine("   "))
	assert.Equal(t, "2\n5\ty\nhello\tnil\n", env.stdout.String())

	var herr *HandlerError
	require.ErrorAs(t, env.rt.ExecLine("x = = 1"), &herr)
	require.ErrorAs(t, env.rt.ExecLine("error('runtime')"), &herr)
	assert.Equal(t, "console", herr.Handler)
}

func TestClosedRuntime(t *testing.T) {
	env := newTestEnv(t)
	env.rt.Close()

	assert.ErrorIs(t, env.rt.GridKey(0, 0, 0, true), ErrRuntimeClosed)
	assert.ErrorIs(t, env.rt.OSCEvent(oscAddr("h", "1"), osc.NewMessage("/x")), ErrRuntimeClosed)
	assert.ErrorIs(t, env.rt.ExecLine("1"), ErrRuntimeClosed)
	assert.ErrorIs(t, env.rt.Startup(""), ErrRuntimeClosed)
}
