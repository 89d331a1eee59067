package log

import "testing"

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(9).String(), "UNKNOWN"},
		{LayerNetwork.String(), "NETWORK"},
		{LayerDevice.String(), "DEVICE"},
		{LayerRuntime.String(), "RUNTIME"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryDevice.String(), "DEVICE"},
		{CategoryState.String(), "STATE"},
		{CategoryError.String(), "ERROR"},
		{DeviceEventGridKey.String(), "GRID_KEY"},
		{DeviceEventEncDelta.String(), "ENC_DELTA"},
		{DeviceEventType(99).String(), "UNKNOWN"},
		{StateEntityRuntime.String(), "RUNTIME"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
