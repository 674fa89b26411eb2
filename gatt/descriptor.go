package gatt

import "github.com/godbus/dbus/v5"

// Descriptor is a static-valued GATT descriptor (e.g. Report Reference).
type Descriptor struct {
	path           dbus.ObjectPath
	uuid           string
	flags          []string
	characteristic *Characteristic
	value          []byte
}

func (d *Descriptor) Path() dbus.ObjectPath { return d.path }
func (d *Descriptor) UUID() string          { return d.uuid }

// ReadValue serves org.bluez.GattDescriptor1.ReadValue. Descriptor values are
// static; reads are always answered.
func (d *Descriptor) ReadValue(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	return append([]byte(nil), d.value...), nil
}

// Properties returns the GattDescriptor1 property map.
func (d *Descriptor) Properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"Characteristic": dbus.MakeVariant(d.characteristic.path),
		"UUID":           dbus.MakeVariant(d.uuid),
		"Flags":          dbus.MakeVariant(d.flags),
		"Value":          dbus.MakeVariant(append([]byte(nil), d.value...)),
	}
}

// GetAll serves org.freedesktop.DBus.Properties.GetAll.
func (d *Descriptor) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != IfaceGattDesc {
		return nil, ErrInvalidArgs("unknown interface " + iface)
	}
	return d.Properties(), nil
}

func (d *Descriptor) export(conn *dbus.Conn) error {
	if err := conn.ExportMethodTable(map[string]interface{}{
		"ReadValue": d.ReadValue,
	}, d.path, IfaceGattDesc); err != nil {
		return err
	}
	return conn.ExportMethodTable(map[string]interface{}{
		"GetAll": d.GetAll,
	}, d.path, IfaceProperties)
}
