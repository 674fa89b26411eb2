// Package gatt implements the D-Bus object model a BlueZ GATT application
// exposes: an Application aggregating Services, Characteristics and
// Descriptors, plus the LE advertisement object. Objects are exported on the
// system bus and answer the calls BlueZ issues during and after the
// registration handshake (GetManagedObjects, Properties.GetAll, ReadValue,
// WriteValue, StartNotify, StopNotify).
package gatt

import (
	"github.com/godbus/dbus/v5"
)

// D-Bus interface names used by the BlueZ GATT and advertising APIs.
const (
	IfaceObjectManager = "org.freedesktop.DBus.ObjectManager"
	IfaceProperties    = "org.freedesktop.DBus.Properties"
	IfaceGattService   = "org.bluez.GattService1"
	IfaceGattChrc      = "org.bluez.GattCharacteristic1"
	IfaceGattDesc      = "org.bluez.GattDescriptor1"
	IfaceAdvertisement = "org.bluez.LEAdvertisement1"
)

const propertiesChangedSignal = IfaceProperties + ".PropertiesChanged"

// Emitter sends a PropertiesChanged signal for an exported object. The BLE
// server binds one backed by the bus connection at export time; tests install
// recording implementations.
type Emitter func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) error

// connEmitter wraps a bus connection as an Emitter. conn.Emit is safe to call
// from any goroutine, which is what lets the typist worker push notifications
// without touching the handler goroutines.
func connEmitter(conn *dbus.Conn) Emitter {
	return func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) error {
		return conn.Emit(path, propertiesChangedSignal, iface, changed, []string{})
	}
}
