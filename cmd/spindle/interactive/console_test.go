package interactive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/device/mocks"
	"github.com/stitchworks/spindle/pkg/service"
)

type fakeService struct {
	posted []service.Event
	resets int
	err    error
}

func (f *fakeService) Post(ev service.Event) error {
	if f.err != nil {
		return f.err
	}
	f.posted = append(f.posted, ev)
	return nil
}

func (f *fakeService) RequestReset() { f.resets++ }

func newTestConsole(svc *fakeService, reg *device.Registry) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	return &Console{config: Config{Service: svc, Registry: reg}, out: &out}, &out
}

func TestLuaLinesArePosted(t *testing.T) {
	svc := &fakeService{}
	c, _ := newTestConsole(svc, nil)

	assert.False(t, c.handle(`grid_set_led(1, 1, 1, 15)`))
	assert.False(t, c.handle("   "))

	require.Len(t, svc.posted, 1)
	assert.Equal(t, service.ExecLine{Code: `grid_set_led(1, 1, 1, 15)`}, svc.posted[0])
}

func TestQueueFullIsReported(t *testing.T) {
	svc := &fakeService{err: service.ErrQueueFull}
	c, out := newTestConsole(svc, nil)

	c.handle("x = 1")
	assert.Contains(t, out.String(), "Busy")
}

func TestConsoleCommands(t *testing.T) {
	svc := &fakeService{}
	c, out := newTestConsole(svc, nil)

	assert.False(t, c.handle(":help"))
	assert.Contains(t, out.String(), ":devices")

	assert.False(t, c.handle(":reset"))
	assert.Equal(t, 1, svc.resets)

	assert.False(t, c.handle(":bogus"))
	assert.Contains(t, out.String(), "Unknown command: :bogus")

	assert.False(t, c.handle(":devices"))
	assert.Contains(t, out.String(), "No devices attached")

	assert.True(t, c.handle(":quit"))
	assert.Empty(t, svc.posted)
}

func TestDevicesListsScriptIDs(t *testing.T) {
	dev := mocks.NewMockDevice(t)
	dev.EXPECT().Type().Return(device.TypeGrid).Maybe()
	dev.EXPECT().Serial().Return("m1000123").Maybe()
	dev.EXPECT().Name().Return("monome 128").Maybe()
	dev.EXPECT().Cols().Return(16).Maybe()
	dev.EXPECT().Rows().Return(8).Maybe()

	reg := device.NewRegistry()
	reg.Attach(dev)

	c, out := newTestConsole(&fakeService{}, reg)
	c.handle(":devices")

	assert.Contains(t, out.String(), "Attached devices (1)")
	assert.Contains(t, out.String(), "1  grid  m1000123   monome 128 (16x8)")
}
