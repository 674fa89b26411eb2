package gatt

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

// Legacy advertising leaves 31 bytes for the whole payload. Alongside flags
// (3), one 16-bit service UUID (4), appearance (4), TX power (2) and the name
// TLV header (2), a longer local name would not fit reliably, so it is
// truncated up front instead of letting the controller drop fields.
const (
	advPayloadMax    = 31
	advOverheadBytes = 3 + 4 + 4 + 2 + 2
	advNameMax       = advPayloadMax - advOverheadBytes - 4 // margin for controller-added fields
)

// Advertisement is the org.bluez.LEAdvertisement1 object describing the
// broadcast payload. Release is the host revoking the advertisement; the
// server treats it as fatal so a supervisor restarts the process cleanly.
type Advertisement struct {
	path         dbus.ObjectPath
	serviceUUIDs []string
	localName    string
	appearance   uint16

	releaseOnce sync.Once
	released    chan struct{}
}

func NewAdvertisement(path dbus.ObjectPath, serviceUUIDs []string, localName string, appearance uint16) *Advertisement {
	return &Advertisement{
		path:         path,
		serviceUUIDs: serviceUUIDs,
		localName:    TruncateName(localName),
		appearance:   appearance,
		released:     make(chan struct{}),
	}
}

// TruncateName shortens a device name to what fits in the advertising payload
// next to the other fields. Truncation is rune-safe.
func TruncateName(name string) string {
	if len(name) <= advNameMax {
		return name
	}
	runes := []rune(name)
	for len(runes) > 0 && len(string(runes)) > advNameMax {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

func (a *Advertisement) Path() dbus.ObjectPath { return a.path }
func (a *Advertisement) LocalName() string     { return a.localName }

// Released is closed when BlueZ revokes the advertisement.
func (a *Advertisement) Released() <-chan struct{} { return a.released }

// Release serves org.bluez.LEAdvertisement1.Release.
func (a *Advertisement) Release() *dbus.Error {
	a.releaseOnce.Do(func() { close(a.released) })
	return nil
}

// Properties returns the LEAdvertisement1 property map.
func (a *Advertisement) Properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"Type":         dbus.MakeVariant("peripheral"),
		"ServiceUUIDs": dbus.MakeVariant(a.serviceUUIDs),
		"LocalName":    dbus.MakeVariant(a.localName),
		"Appearance":   dbus.MakeVariant(a.appearance),
	}
}

// GetAll serves org.freedesktop.DBus.Properties.GetAll.
func (a *Advertisement) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != IfaceAdvertisement {
		return nil, ErrInvalidArgs("unknown interface " + iface)
	}
	return a.Properties(), nil
}

// Export publishes the advertisement object on the bus.
func (a *Advertisement) Export(conn *dbus.Conn) error {
	if err := conn.ExportMethodTable(map[string]interface{}{
		"Release": a.Release,
	}, a.path, IfaceAdvertisement); err != nil {
		return err
	}
	return conn.ExportMethodTable(map[string]interface{}{
		"GetAll": a.GetAll,
	}, a.path, IfaceProperties)
}
