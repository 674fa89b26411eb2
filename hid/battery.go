package hid

import "github.com/meibye/ipr-keyboard/gatt"

// fixedBatteryLevel is the level reported for a mains-powered peripheral.
// Some hosts refuse to keep a HID connection without a Battery service.
const fixedBatteryLevel = 100

// NewBatteryService adds a Battery service reporting a constant full
// charge. The notify flag is advertised for host compatibility but the
// value never changes, so no notification is ever sent.
func NewBatteryService(app *gatt.Application) *gatt.Service {
	svc := app.NewService(BatteryServiceUUID, true)

	level := svc.NewCharacteristic(BatteryLevelUUID,
		gatt.FlagRead, gatt.FlagNotify, gatt.FlagEncryptRead)
	level.SetValue([]byte{fixedBatteryLevel})

	return svc
}
