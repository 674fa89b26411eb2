package hid_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meibye/ipr-keyboard/gatt"
	"github.com/meibye/ipr-keyboard/hid"
	"github.com/meibye/ipr-keyboard/internal/log"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHIDService(t *testing.T) (*hid.Service, *gatt.NotifyState) {
	t.Helper()
	subs := gatt.NewNotifyState()
	app := gatt.NewApplication("/test/app")
	svc := hid.NewService(app, subs, testLogger(), log.NewRaw(nil))
	return svc, subs
}

// recordEmitter captures notified values on a characteristic.
func recordEmitter(c *gatt.Characteristic) *[][]byte {
	var got [][]byte
	c.SetEmitter(func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) error {
		if v, ok := changed["Value"].Value().([]byte); ok {
			got = append(got, v)
		}
		return nil
	})
	return &got
}

func TestProtocolModeDefaultsToReport(t *testing.T) {
	svc, _ := newHIDService(t)
	assert.Equal(t, uint8(hid.ProtocolModeReport), svc.Mode())
	assert.Equal(t, []byte{hid.ProtocolModeReport}, svc.ProtocolMode().Value())
}

func TestProtocolModeWrite(t *testing.T) {
	tests := []struct {
		name     string
		value    []byte
		wantErr  bool
		wantMode uint8
	}{
		{"boot", []byte{0x00}, false, hid.ProtocolModeBoot},
		{"report", []byte{0x01}, false, hid.ProtocolModeReport},
		{"out of range", []byte{0x05}, true, hid.ProtocolModeReport},
		{"empty", nil, true, hid.ProtocolModeReport},
		{"too long", []byte{0x00, 0x01}, true, hid.ProtocolModeReport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newHIDService(t)
			derr := svc.ProtocolMode().WriteValue(tt.value, nil)
			if tt.wantErr {
				require.NotNil(t, derr)
				assert.Equal(t, gatt.ErrNameInvalidArgs, derr.Name)
			} else {
				require.Nil(t, derr)
			}
			assert.Equal(t, tt.wantMode, svc.Mode())
		})
	}
}

func TestControlPointTracksSuspend(t *testing.T) {
	svc, _ := newHIDService(t)
	assert.False(t, svc.Suspended())

	require.Nil(t, svc.ControlPoint().WriteValue([]byte{hid.ControlSuspend}, nil))
	assert.True(t, svc.Suspended())

	require.Nil(t, svc.ControlPoint().WriteValue([]byte{hid.ControlExitSuspend}, nil))
	assert.False(t, svc.Suspended())

	derr := svc.ControlPoint().WriteValue([]byte{0x00, 0x01}, nil)
	require.NotNil(t, derr)
	assert.Equal(t, gatt.ErrNameInvalidArgs, derr.Name)
}

func TestOutputReportMasksLEDs(t *testing.T) {
	svc, _ := newHIDService(t)

	var fromCallback []uint8
	svc.SetLEDCallback(func(leds uint8) { fromCallback = append(fromCallback, leds) })

	require.Nil(t, svc.OutputReport().WriteValue([]byte{0xFF}, nil))
	assert.Equal(t, uint8(0x1F), svc.LEDState())
	assert.Equal(t, []byte{0x1F}, svc.OutputReport().Value())
	assert.Equal(t, []uint8{0x1F}, fromCallback)

	require.Nil(t, svc.OutputReport().WriteValue([]byte{0x03}, nil))
	assert.Equal(t, uint8(0x03), svc.LEDState())

	derr := svc.OutputReport().WriteValue(nil, nil)
	require.NotNil(t, derr)
	assert.Equal(t, gatt.ErrNameInvalidArgs, derr.Name)
}

func TestNotifySubscriptionsShareState(t *testing.T) {
	svc, subs := newHIDService(t)
	assert.False(t, subs.Active())

	require.Nil(t, svc.InputReport().StartNotify())
	assert.Equal(t, 1, subs.Subscribers())

	require.Nil(t, svc.BootInput().StartNotify())
	assert.Equal(t, 2, subs.Subscribers())

	require.Nil(t, svc.InputReport().StopNotify())
	require.Nil(t, svc.BootInput().StopNotify())
	assert.False(t, subs.Active())
}

func TestNotifyKeyReportNoSubscriber(t *testing.T) {
	svc, _ := newHIDService(t)
	assert.False(t, svc.NotifyKeyReport(hid.BuildReport(0, hid.KeyA)))
}

func TestNotifyKeyReportPrefersReportPath(t *testing.T) {
	svc, _ := newHIDService(t)
	reportGot := recordEmitter(svc.InputReport())
	bootGot := recordEmitter(svc.BootInput())

	require.Nil(t, svc.InputReport().StartNotify())
	require.Nil(t, svc.BootInput().StartNotify())

	press := hid.BuildReport(hid.ModLeftShift, hid.KeyA)
	assert.True(t, svc.NotifyKeyReport(press))
	assert.Equal(t, [][]byte{press}, *reportGot)
	assert.Empty(t, *bootGot)
}

func TestNotifyKeyReportBootModePrefersBootPath(t *testing.T) {
	svc, _ := newHIDService(t)
	reportGot := recordEmitter(svc.InputReport())
	bootGot := recordEmitter(svc.BootInput())

	require.Nil(t, svc.ProtocolMode().WriteValue([]byte{hid.ProtocolModeBoot}, nil))
	require.Nil(t, svc.InputReport().StartNotify())
	require.Nil(t, svc.BootInput().StartNotify())

	press := hid.BuildReport(hid.ModLeftShift, hid.KeyA)
	assert.True(t, svc.NotifyKeyReport(press))
	assert.Equal(t, [][]byte{press}, *bootGot)
	assert.Empty(t, *reportGot)
}

func TestNotifyKeyReportFallsBackAcrossModes(t *testing.T) {
	// Host negotiated Boot mode but only subscribed on the Report path.
	svc, _ := newHIDService(t)
	reportGot := recordEmitter(svc.InputReport())

	require.Nil(t, svc.ProtocolMode().WriteValue([]byte{hid.ProtocolModeBoot}, nil))
	require.Nil(t, svc.InputReport().StartNotify())

	press := hid.BuildReport(0, hid.KeyB)
	assert.True(t, svc.NotifyKeyReport(press))
	assert.Equal(t, [][]byte{press}, *reportGot)
}

func TestServiceStaticValues(t *testing.T) {
	svc, _ := newHIDService(t)
	assert.Equal(t, hid.ReleaseReport(), svc.InputReport().Value())
	assert.Equal(t, hid.ReleaseReport(), svc.BootInput().Value())
}
