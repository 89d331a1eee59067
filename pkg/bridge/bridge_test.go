package bridge

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stitchworks/spindle/pkg/device"
	devmocks "github.com/stitchworks/spindle/pkg/device/mocks"
	"github.com/stitchworks/spindle/pkg/osc"
	oscmocks "github.com/stitchworks/spindle/pkg/osc/mocks"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

type testEnv struct {
	rt       *Runtime
	registry *device.Registry
	sender   *oscmocks.MockSender
	stdout   *bytes.Buffer
	resets   int
}

type envOption func(*Config)

func withConfigFile(t *testing.T, code string) envOption {
	path := filepath.Join(t.TempDir(), "config.lua")
	require.NoError(t, os.WriteFile(path, []byte(code), 0o600))
	return func(c *Config) { c.ConfigPath = path }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	env := &testEnv{
		registry: device.NewRegistry(),
		sender:   oscmocks.NewMockSender(t),
		stdout:   &bytes.Buffer{},
	}
	cfg := Config{
		Registry:   env.registry,
		Sender:     env.sender,
		LocalPort:  "7777",
		RemotePort: "6666",
		ConfigPath: filepath.Join(t.TempDir(), "missing.lua"),
		OnReset:    func() { env.resets++ },
		Stdout:     env.stdout,
		SessionID:  "test-session",
	}
	for _, o := range opts {
		o(&cfg)
	}
	rt, err := NewRuntime(cfg)
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	env.rt = rt
	return env
}

// attach registers dev and announces it to the scripts. It returns the
// handle and the 1-based id scripts see.
func (e *testEnv) attach(t *testing.T, dev device.Device, serial string) device.Handle {
	t.Helper()
	h := e.registry.Attach(dev)
	require.NoError(t, e.rt.DeviceAdded(h, serial, "monome 128"))
	return h
}

func (e *testEnv) run(t *testing.T, code string) {
	t.Helper()
	require.NoError(t, e.rt.L.DoString(code))
}

func (e *testEnv) global(name string) lua.LValue {
	return e.rt.L.GetGlobal(name)
}

func newMockGrid(t *testing.T, serial string) *devmocks.MockDevice {
	d := devmocks.NewMockDevice(t)
	d.EXPECT().Serial().Return(serial).Maybe()
	return d
}

func oscAddr(host, port string) osc.Address {
	return osc.Address{Host: host, Port: port}
}
