package gatt

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Application is the root of the exported attribute tree. It is built once at
// startup; only characteristic values mutate afterwards, so GetManagedObjects
// can be answered at any time, including while registration is in flight.
type Application struct {
	path     dbus.ObjectPath
	services []*Service
}

func NewApplication(path dbus.ObjectPath) *Application {
	return &Application{path: path}
}

func (a *Application) Path() dbus.ObjectPath { return a.path }

// NewService appends a service to the application and returns it.
func (a *Application) NewService(short uint16, primary bool) *Service {
	s := &Service{
		path:    dbus.ObjectPath(fmt.Sprintf("%s/service%d", a.path, len(a.services))),
		uuid:    SIGUUID(short),
		primary: primary,
	}
	a.services = append(a.services, s)
	return s
}

// GetManagedObjects serves org.freedesktop.DBus.ObjectManager for BlueZ's
// tree enumeration during RegisterApplication.
func (a *Application) GetManagedObjects() (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, *dbus.Error) {
	out := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant)
	for _, svc := range a.services {
		out[svc.path] = map[string]map[string]dbus.Variant{
			IfaceGattService: svc.Properties(),
		}
		for _, chrc := range svc.characteristics {
			out[chrc.path] = map[string]map[string]dbus.Variant{
				IfaceGattChrc: chrc.Properties(),
			}
			for _, desc := range chrc.descriptors {
				out[desc.path] = map[string]map[string]dbus.Variant{
					IfaceGattDesc: desc.Properties(),
				}
			}
		}
	}
	return out, nil
}

// Export publishes the whole tree on the bus and binds the notification
// emitter of every characteristic to it.
func (a *Application) Export(conn *dbus.Conn) error {
	if err := conn.ExportMethodTable(map[string]interface{}{
		"GetManagedObjects": a.GetManagedObjects,
	}, a.path, IfaceObjectManager); err != nil {
		return fmt.Errorf("export application: %w", err)
	}
	for _, s := range a.services {
		if err := s.export(conn); err != nil {
			return fmt.Errorf("export service %s: %w", s.path, err)
		}
	}
	return nil
}
