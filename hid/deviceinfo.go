package hid

import (
	"encoding/binary"

	"github.com/meibye/ipr-keyboard/gatt"
)

// pnpVendorSourceUSB marks the vendor ID as a USB-IF assignment in the
// PnP ID characteristic.
const pnpVendorSourceUSB = 0x02

// DeviceInfo describes the identity published through the Device
// Information service.
type DeviceInfo struct {
	Manufacturer string
	Model        string
	VendorID     uint16
	ProductID    uint16
	Version      uint16
}

// NewDeviceInfoService adds a Device Information service to app. Hosts use
// the PnP ID to pick quirks tables, so the value follows the standard
// 7-byte layout.
func NewDeviceInfoService(app *gatt.Application, info DeviceInfo) *gatt.Service {
	svc := app.NewService(DeviceInfoServiceUUID, true)

	pnp := svc.NewCharacteristic(PnPIDUUID, gatt.FlagRead)
	pnp.SetValue(encodePnPID(info))

	manufacturer := svc.NewCharacteristic(ManufacturerUUID, gatt.FlagRead)
	manufacturer.SetValue([]byte(info.Manufacturer))

	model := svc.NewCharacteristic(ModelNumberUUID, gatt.FlagRead)
	model.SetValue([]byte(info.Model))

	return svc
}

func encodePnPID(info DeviceInfo) []byte {
	value := make([]byte, 7)
	value[0] = pnpVendorSourceUSB
	binary.LittleEndian.PutUint16(value[1:3], info.VendorID)
	binary.LittleEndian.PutUint16(value[3:5], info.ProductID)
	binary.LittleEndian.PutUint16(value[5:7], info.Version)
	return value
}
