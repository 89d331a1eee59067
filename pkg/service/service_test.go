package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stitchworks/spindle/pkg/device"
	devmocks "github.com/stitchworks/spindle/pkg/device/mocks"
	"github.com/stitchworks/spindle/pkg/log"
	"github.com/stitchworks/spindle/pkg/osc"
	"github.com/stitchworks/spindle/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineWriter turns script output into a stream of lines.
type lineWriter struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	lines chan string
}

func newLineWriter() *lineWriter {
	return &lineWriter{lines: make(chan string, 64)}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			return len(p), nil
		}
		w.lines <- line[:len(line)-1]
	}
}

func (w *lineWriter) next(t *testing.T) string {
	t.Helper()
	select {
	case l := <-w.lines:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for script output")
		return ""
	}
}

func (w *lineWriter) expect(t *testing.T, want ...string) {
	t.Helper()
	for _, line := range want {
		assert.Equal(t, line, w.next(t))
	}
}

type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureLogger) snapshot() []log.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]log.Event(nil), c.events...)
}

const testScript = `
print("startup")
function bridge.monome.add(id, serial, name, dev)
	devices = devices or {}
	devices[id] = dev
	print("add", id, serial)
end
function bridge.monome.remove(id)
	local ok, err = pcall(bridge.monome_refresh, devices[id])
	print("remove", id, tostring(err))
end
function bridge.grid.key(id, x, y, pressed)
	if x == 1 and pressed then
		marker = true
		bridge.reset_runtime()
	end
	if x == 9 then
		error("boom")
	end
	print("key", id, x, y, pressed)
end
`

type testService struct {
	svc      *Service
	registry *device.Registry
	out      *lineWriter
	plog     *captureLogger
}

func newTestService(t *testing.T, mutate ...func(*Config)) *testService {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(script, []byte(testScript), 0o600))

	ts := &testService{
		registry: device.NewRegistry(),
		out:      newLineWriter(),
		plog:     &captureLogger{},
	}
	var sessions int
	cfg := Config{
		Registry:       ts.registry,
		Script:         script,
		LocalPort:      "7777",
		RemotePort:     "6666",
		LuaConfigPath:  filepath.Join(dir, "missing.lua"),
		Stdout:         ts.out,
		ProtocolLogger: ts.plog,
		NewSessionID: func() string {
			sessions++
			return fmt.Sprintf("session-%d", sessions)
		},
	}
	for _, m := range mutate {
		m(&cfg)
	}
	svc, err := New(cfg)
	require.NoError(t, err)
	ts.svc = svc
	t.Cleanup(func() { _ = svc.Stop() })
	return ts
}

func (ts *testService) start(t *testing.T) {
	t.Helper()
	require.NoError(t, ts.svc.Start(context.Background()))
}

func (ts *testService) sync(t *testing.T) {
	t.Helper()
	require.NoError(t, ts.svc.Post(ExecLine{Code: `print("sync")`}))
	ts.out.expect(t, "sync")
}

func mockDevice(t *testing.T, serial string) *devmocks.MockDevice {
	d := devmocks.NewMockDevice(t)
	d.EXPECT().Serial().Return(serial).Maybe()
	d.EXPECT().Name().Return("monome 64").Maybe()
	return d
}

func TestNewRequiresRegistry(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStartAnnouncesAttachedDevices(t *testing.T) {
	ts := newTestService(t)
	h := ts.registry.Attach(mockDevice(t, "m1"))
	ts.start(t)

	ts.out.expect(t, "startup", "add\t1\tm1")

	// The driver's own announcement for the same device is not repeated.
	require.NoError(t, ts.svc.Post(DeviceAdded{Handle: h, Serial: "m1", Name: "monome 64"}))
	ts.sync(t)
}

func TestDeviceEventsReachHandlers(t *testing.T) {
	ts := newTestService(t)
	ts.start(t)
	ts.out.expect(t, "startup")

	h := ts.registry.Attach(mockDevice(t, "m7"))
	require.NoError(t, ts.svc.Post(DeviceAdded{Handle: h, Serial: "m7", Name: "monome 64"}))
	require.NoError(t, ts.svc.Post(GridKey{Handle: h, X: 4, Y: 2, Pressed: true}))
	require.NoError(t, ts.svc.Post(GridKey{Handle: h, X: 4, Y: 2, Pressed: false}))

	ts.out.expect(t,
		"add\t1\tm7",
		"key\t1\t5\t3\ttrue",
		"key\t1\t5\t3\tfalse",
	)
}

func TestDeviceRemovedDetachesBeforeDispatch(t *testing.T) {
	ts := newTestService(t)
	h := ts.registry.Attach(mockDevice(t, "m1"))
	ts.start(t)
	ts.out.expect(t, "startup", "add\t1\tm1")

	require.NoError(t, ts.svc.Post(DeviceRemoved{Handle: h}))
	line := ts.out.next(t)
	assert.Contains(t, line, "remove\t1\t")
	assert.Contains(t, line, device.ErrStaleHandle.Error())
	assert.Equal(t, 0, ts.registry.Len())

	// Input racing the removal is dropped.
	require.NoError(t, ts.svc.Post(GridKey{Handle: h, X: 0, Y: 0, Pressed: true}))
	ts.sync(t)
}

func TestHandlerFailureDoesNotStopLoop(t *testing.T) {
	ts := newTestService(t)
	h := ts.registry.Attach(mockDevice(t, "m1"))
	ts.start(t)
	ts.out.expect(t, "startup", "add\t1\tm1")

	require.NoError(t, ts.svc.Post(GridKey{Handle: h, X: 8, Y: 0, Pressed: true}))
	require.NoError(t, ts.svc.Post(GridKey{Handle: h, X: 2, Y: 0, Pressed: true}))
	ts.out.expect(t, "key\t1\t3\t1\ttrue")

	var found bool
	for _, e := range ts.plog.snapshot() {
		if e.Category == log.CategoryError && e.Error.Context == "grid.key" {
			found = true
			assert.Contains(t, e.Error.Message, "boom")
			assert.Equal(t, "session-1", e.SessionID)
		}
	}
	assert.True(t, found, "handler failure recorded")
}

func TestResetDropsEventsQueuedBeforeRequest(t *testing.T) {
	ts := newTestService(t)
	h := ts.registry.Attach(mockDevice(t, "m1"))

	// Queue before the loop runs: the first key requests a reset, the
	// next two belong to the old runtime.
	require.NoError(t, ts.svc.Post(GridKey{Handle: h, X: 0, Y: 0, Pressed: true}))
	require.NoError(t, ts.svc.Post(GridKey{Handle: h, X: 3, Y: 0, Pressed: true}))
	require.NoError(t, ts.svc.Post(GridKey{Handle: h, X: 4, Y: 0, Pressed: true}))

	ts.start(t)
	ts.out.expect(t,
		"startup", "add\t1\tm1",
		"key\t1\t1\t1\ttrue",
		"startup", "add\t1\tm1",
	)

	require.NoError(t, ts.svc.Post(ExecLine{Code: `print(tostring(marker))`}))
	ts.out.expect(t, "nil")
	assert.Equal(t, StateRunning, ts.svc.State())

	var sessions []string
	for _, e := range ts.plog.snapshot() {
		if e.StateChange != nil && e.StateChange.Entity == log.StateEntityRuntime && e.StateChange.NewState == "RUNNING" {
			sessions = append(sessions, e.SessionID)
		}
	}
	assert.Equal(t, []string{"session-1", "session-2"}, sessions)
}

func TestRemovalQueuedBeforeResetSurvives(t *testing.T) {
	ts := newTestService(t)
	a := ts.registry.Attach(mockDevice(t, "a"))
	b := ts.registry.Attach(mockDevice(t, "b"))

	require.NoError(t, ts.svc.Post(GridKey{Handle: a, X: 0, Y: 0, Pressed: true}))
	require.NoError(t, ts.svc.Post(DeviceRemoved{Handle: b}))

	ts.start(t)
	ts.out.expect(t,
		"startup", "add\t1\ta", "add\t2\tb",
		"key\t1\t1\t1\ttrue",
		"startup", "add\t1\ta", "add\t2\tb",
	)
	line := ts.out.next(t)
	assert.Contains(t, line, "remove\t2\t", "removal reaches the new runtime")
	assert.Equal(t, []device.Handle{a}, ts.registry.Handles())
}

func TestResetRequestedFromOutsideLoop(t *testing.T) {
	ts := newTestService(t)
	ts.start(t)
	ts.out.expect(t, "startup")

	require.NoError(t, ts.svc.Post(ExecLine{Code: `generation = "old"`}))
	ts.sync(t)

	// The loop is idle here. The request alone must rebuild the runtime.
	ts.svc.RequestReset()
	ts.out.expect(t, "startup")

	require.NoError(t, ts.svc.Post(ExecLine{Code: `print(tostring(generation))`}))
	ts.out.expect(t, "nil")
}

func TestEventPostedAfterResetRequestSkipsOldRuntime(t *testing.T) {
	ts := newTestService(t)
	ts.start(t)
	ts.out.expect(t, "startup")

	require.NoError(t, ts.svc.Post(ExecLine{Code: `generation = "old"`}))
	ts.sync(t)

	ts.svc.RequestReset()
	require.NoError(t, ts.svc.Post(ExecLine{Code: `print(tostring(generation))`}))
	ts.out.expect(t, "startup", "nil")
}

func TestPostQueueFull(t *testing.T) {
	ts := newTestService(t, func(c *Config) { c.QueueSize = 1 })
	require.NoError(t, ts.svc.Post(ExecLine{Code: "x = 1"}))
	assert.ErrorIs(t, ts.svc.Post(ExecLine{Code: "x = 2"}), ErrQueueFull)
}

func TestStateTransitions(t *testing.T) {
	ts := newTestService(t)
	assert.Equal(t, StateIdle, ts.svc.State())
	assert.ErrorIs(t, ts.svc.Stop(), ErrNotStarted)

	ts.start(t)
	assert.Equal(t, StateRunning, ts.svc.State())
	assert.ErrorIs(t, ts.svc.Start(context.Background()), ErrAlreadyStarted)

	require.NoError(t, ts.svc.Stop())
	assert.Equal(t, StateStopped, ts.svc.State())
	require.NoError(t, ts.svc.Stop())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "RUNNING", StateRunning.String())
	assert.Equal(t, "TEARING_DOWN", StateTearingDown.String())
	assert.Equal(t, "STOPPED", StateStopped.String())
	assert.Equal(t, "UNKNOWN", ServiceState(99).String())
}

func TestSinkMethodsPostEvents(t *testing.T) {
	ts := newTestService(t)
	h := ts.registry.Attach(mockDevice(t, "m1"))
	ts.start(t)
	ts.out.expect(t, "startup", "add\t1\tm1")

	require.NoError(t, ts.svc.Post(ExecLine{Code: `
		function bridge.arc.delta(id, n, d) print("delta", id, n, d) end
		function bridge.osc.event(path, args, from, tags) print("osc", path, args[1], from[2], tags) end
	`}))
	ts.svc.ArcDelta(h, 1, -2)
	ts.svc.OSCMessage(osc.Address{Host: "127.0.0.1", Port: "9000"}, &osc.Message{Path: "/p", Tags: "s", Args: []value.Value{value.Text("v")}})

	ts.out.expect(t, "delta\t1\t2\t-2", "osc\t/p\tv\t9000\ts")
}
