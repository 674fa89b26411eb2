package gatt

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Service is one GATT service in the exported tree. Characteristic insertion
// order is the enumeration order BlueZ sees.
type Service struct {
	path            dbus.ObjectPath
	uuid            string
	primary         bool
	characteristics []*Characteristic
}

func (s *Service) Path() dbus.ObjectPath { return s.path }
func (s *Service) UUID() string          { return s.uuid }

// NewCharacteristic appends a characteristic to the service and returns it.
func (s *Service) NewCharacteristic(short uint16, flags ...string) *Characteristic {
	c := &Characteristic{
		path:    dbus.ObjectPath(fmt.Sprintf("%s/char%d", s.path, len(s.characteristics))),
		uuid:    SIGUUID(short),
		flags:   flags,
		service: s,
	}
	s.characteristics = append(s.characteristics, c)
	return c
}

// Properties returns the GattService1 property map.
func (s *Service) Properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"UUID":    dbus.MakeVariant(s.uuid),
		"Primary": dbus.MakeVariant(s.primary),
	}
}

// GetAll serves org.freedesktop.DBus.Properties.GetAll.
func (s *Service) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != IfaceGattService {
		return nil, ErrInvalidArgs("unknown interface " + iface)
	}
	return s.Properties(), nil
}

func (s *Service) export(conn *dbus.Conn) error {
	if err := conn.ExportMethodTable(map[string]interface{}{
		"GetAll": s.GetAll,
	}, s.path, IfaceProperties); err != nil {
		return err
	}
	for _, c := range s.characteristics {
		if err := c.export(conn); err != nil {
			return err
		}
	}
	return nil
}
