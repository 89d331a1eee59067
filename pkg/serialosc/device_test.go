package serialosc

import (
	"testing"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/osc"
	"github.com/stitchworks/spindle/pkg/osc/mocks"
	"github.com/stitchworks/spindle/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var devAddr = osc.Address{Host: "127.0.0.1", Port: "15000"}

func newTestGrid(t *testing.T, rows, cols int) (*Device, *mocks.MockSender) {
	s := mocks.NewMockSender(t)
	d := newDevice(s, devAddr, "m1", "monome 128")
	d.resize(rows, cols)
	return d, s
}

// drain clears the dirty flags set by resize.
func drain(t *testing.T, d *Device) {
	t.Helper()
	d.collectDirty()
}

func intAt(t *testing.T, m *osc.Message, i int) int {
	t.Helper()
	v, ok := m.Args[i].Int()
	require.True(t, ok, "arg %d is %s", i, m.Args[i].Kind())
	return int(v)
}

func TestTypeFromName(t *testing.T) {
	assert.Equal(t, device.TypeGrid, TypeFromName("monome 128"))
	assert.Equal(t, device.TypeGrid, TypeFromName("monome zero"))
	assert.Equal(t, device.TypeArc, TypeFromName("monome arc 4"))
}

func TestGridRefreshSendsDirtyQuadsOnly(t *testing.T) {
	d, s := newTestGrid(t, 8, 16)
	drain(t, d)

	require.NoError(t, d.SetLED(9, 2, 20))
	require.NoError(t, d.SetLED(15, 7, 4))

	var sent []*osc.Message
	s.EXPECT().Send(devAddr, mock.Anything).
		Run(func(_ osc.Address, m *osc.Message) { sent = append(sent, m) }).
		Return(nil).Once()

	require.NoError(t, d.Refresh())
	require.Len(t, sent, 1)

	m := sent[0]
	assert.Equal(t, "/spindle/m1/grid/led/level/map", m.Path)
	require.Len(t, m.Args, 66)
	assert.Equal(t, 8, intAt(t, m, 0))
	assert.Equal(t, 0, intAt(t, m, 1))
	assert.Equal(t, 15, intAt(t, m, 2+2*8+1), "level clamped")
	assert.Equal(t, 4, intAt(t, m, 2+7*8+7))

	// Nothing left to send.
	require.NoError(t, d.Refresh())
}

func TestGridAllLEDMarksEverything(t *testing.T) {
	d, s := newTestGrid(t, 16, 16)
	drain(t, d)

	require.NoError(t, d.AllLED(-3))
	s.EXPECT().Send(devAddr, mock.MatchedBy(func(m *osc.Message) bool {
		return m.Path == "/spindle/m1/grid/led/level/map" && m.Args[2].Equal(value.Int(0))
	})).Return(nil).Times(4)

	require.NoError(t, d.Refresh())
}

func TestGridBounds(t *testing.T) {
	d, _ := newTestGrid(t, 8, 8)
	assert.ErrorIs(t, d.SetLED(-1, 0, 1), ErrOutOfRange)
	assert.ErrorIs(t, d.SetLED(0, 8, 1), ErrOutOfRange)
	assert.ErrorIs(t, d.SetRingLED(0, 0, 1), ErrNotArc)
	assert.Equal(t, 8, d.Rows())
	assert.Equal(t, 8, d.Cols())
}

func TestArcRingMap(t *testing.T) {
	s := mocks.NewMockSender(t)
	d := newDevice(s, devAddr, "m2", "monome arc 4")
	assert.Equal(t, device.TypeArc, d.Type())
	drain(t, d)

	require.NoError(t, d.SetRingLED(2, -1, 9))
	assert.ErrorIs(t, d.SetRingLED(4, 0, 1), ErrOutOfRange)
	assert.ErrorIs(t, d.SetLED(0, 0, 1), ErrNotGrid)

	var sent *osc.Message
	s.EXPECT().Send(devAddr, mock.Anything).
		Run(func(_ osc.Address, m *osc.Message) { sent = m }).
		Return(nil).Once()
	require.NoError(t, d.Refresh())

	require.NotNil(t, sent)
	assert.Equal(t, "/spindle/m2/ring/map", sent.Path)
	require.Len(t, sent.Args, 65)
	assert.Equal(t, 2, intAt(t, sent, 0))
	assert.Equal(t, 9, intAt(t, sent, 64), "position wraps to the last LED")
}

func TestRotation(t *testing.T) {
	d, s := newTestGrid(t, 8, 8)
	assert.ErrorIs(t, d.SetRotation(45), ErrBadRotation)

	s.EXPECT().Send(devAddr, osc.NewMessage("/sys/rotation", value.Int(90))).Return(nil).Once()
	s.EXPECT().Send(devAddr, osc.NewMessage("/sys/info")).Return(nil).Once()
	require.NoError(t, d.SetRotation(90))
}

func TestTiltAndIntensity(t *testing.T) {
	d, s := newTestGrid(t, 8, 8)
	assert.ErrorIs(t, d.TiltEnable(-1), ErrOutOfRange)

	s.EXPECT().Send(devAddr, osc.NewMessage("/spindle/m1/tilt/set", value.Int(0), value.Int(1))).Return(nil).Once()
	s.EXPECT().Send(devAddr, osc.NewMessage("/spindle/m1/tilt/set", value.Int(1), value.Int(0))).Return(nil).Once()
	s.EXPECT().Send(devAddr, osc.NewMessage("/spindle/m1/grid/led/intensity", value.Int(15))).Return(nil).Once()

	require.NoError(t, d.TiltEnable(0))
	require.NoError(t, d.TiltDisable(1))
	require.NoError(t, d.Intensity(99))
}
