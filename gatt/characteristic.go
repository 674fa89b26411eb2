package gatt

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Characteristic capability flags as BlueZ spells them.
const (
	FlagRead                 = "read"
	FlagWrite                = "write"
	FlagWriteWithoutResponse = "write-without-response"
	FlagNotify               = "notify"
	FlagIndicate             = "indicate"
	FlagEncryptRead          = "encrypt-read"
	FlagEncryptWrite         = "encrypt-write"
	FlagEncryptNotify        = "encrypt-notify"
	FlagEncryptIndicate      = "encrypt-indicate"
)

var (
	readFlags = []string{FlagRead, FlagEncryptRead, "encrypt-authenticated-read", "secure-read"}

	writeFlags = []string{FlagWrite, FlagWriteWithoutResponse, FlagEncryptWrite,
		"encrypt-authenticated-write", "secure-write"}

	notifyFlags = []string{FlagNotify, FlagIndicate, FlagEncryptNotify, FlagEncryptIndicate}
)

func hasAny(flags, wanted []string) bool {
	for _, f := range flags {
		for _, w := range wanted {
			if f == w {
				return true
			}
		}
	}
	return false
}

// WriteHook validates and applies a host write. Returning nil without an
// error means the hook stored the value itself.
type WriteHook func(value []byte) *dbus.Error

// NotifyHook observes subscription changes (true on StartNotify, false on
// StopNotify).
type NotifyHook func(active bool)

// Characteristic is one GATT characteristic in the exported tree. Method
// handlers run on godbus dispatch goroutines, the typist worker calls Notify;
// the mutex covers the value and the notifying flag shared between them.
type Characteristic struct {
	path    dbus.ObjectPath
	uuid    string
	flags   []string
	service *Service

	mu        sync.Mutex
	value     []byte
	notifying bool
	emit      Emitter

	descriptors []*Descriptor

	onWrite  WriteHook
	onNotify NotifyHook
}

func (c *Characteristic) Path() dbus.ObjectPath { return c.path }
func (c *Characteristic) UUID() string          { return c.uuid }

// NewDescriptor appends a descriptor with a static value to the
// characteristic and returns it.
func (c *Characteristic) NewDescriptor(short uint16, flags []string, value []byte) *Descriptor {
	d := &Descriptor{
		path:           dbus.ObjectPath(fmt.Sprintf("%s/desc%d", c.path, len(c.descriptors))),
		uuid:           SIGUUID(short),
		flags:          flags,
		characteristic: c,
		value:          append([]byte(nil), value...),
	}
	c.descriptors = append(c.descriptors, d)
	return d
}

// SetValue replaces the stored value. Used when assembling the tree and by
// write hooks.
func (c *Characteristic) SetValue(value []byte) {
	c.mu.Lock()
	c.value = append([]byte(nil), value...)
	c.mu.Unlock()
}

// Value returns a copy of the stored value.
func (c *Characteristic) Value() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.value...)
}

// OnWrite installs a validated write hook replacing the default store.
func (c *Characteristic) OnWrite(h WriteHook) { c.onWrite = h }

// OnNotify installs a subscription-change hook.
func (c *Characteristic) OnNotify(h NotifyHook) { c.onNotify = h }

// SetEmitter binds the PropertiesChanged emitter. The BLE server installs a
// bus-backed emitter during export.
func (c *Characteristic) SetEmitter(e Emitter) {
	c.mu.Lock()
	c.emit = e
	c.mu.Unlock()
}

// Notifying reports whether a subscriber is attached.
func (c *Characteristic) Notifying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notifying
}

// Notify stores value and pushes it to the subscriber via PropertiesChanged.
// Returns false when nobody is subscribed, leaving the caller to try another
// delivery path.
func (c *Characteristic) Notify(value []byte) bool {
	c.mu.Lock()
	if !c.notifying {
		c.mu.Unlock()
		return false
	}
	c.value = append([]byte(nil), value...)
	emit := c.emit
	c.mu.Unlock()

	if emit != nil {
		// Signal emission has no meaningful failure mode for us; the value is
		// stored either way and the host re-reads on demand.
		_ = emit(c.path, IfaceGattChrc, map[string]dbus.Variant{
			"Value": dbus.MakeVariant(value),
		})
	}
	return true
}

// ReadValue serves org.bluez.GattCharacteristic1.ReadValue.
func (c *Characteristic) ReadValue(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	if !hasAny(c.flags, readFlags) {
		return nil, ErrNotPermitted("characteristic is not readable")
	}
	return c.Value(), nil
}

// WriteValue serves org.bluez.GattCharacteristic1.WriteValue.
func (c *Characteristic) WriteValue(value []byte, options map[string]dbus.Variant) *dbus.Error {
	if !hasAny(c.flags, writeFlags) {
		return ErrNotPermitted("characteristic is not writable")
	}
	if c.onWrite != nil {
		return c.onWrite(value)
	}
	c.SetValue(value)
	return nil
}

// StartNotify serves org.bluez.GattCharacteristic1.StartNotify.
func (c *Characteristic) StartNotify() *dbus.Error {
	if !hasAny(c.flags, notifyFlags) {
		return ErrNotPermitted("characteristic does not support notifications")
	}
	c.mu.Lock()
	c.notifying = true
	c.mu.Unlock()
	if c.onNotify != nil {
		c.onNotify(true)
	}
	return nil
}

// StopNotify serves org.bluez.GattCharacteristic1.StopNotify.
func (c *Characteristic) StopNotify() *dbus.Error {
	c.mu.Lock()
	c.notifying = false
	c.mu.Unlock()
	if c.onNotify != nil {
		c.onNotify(false)
	}
	return nil
}

// Properties returns the GattCharacteristic1 property map exposed through
// GetManagedObjects and Properties.GetAll.
func (c *Characteristic) Properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"Service": dbus.MakeVariant(c.service.path),
		"UUID":    dbus.MakeVariant(c.uuid),
		"Flags":   dbus.MakeVariant(c.flags),
		"Value":   dbus.MakeVariant(c.Value()),
	}
}

// GetAll serves org.freedesktop.DBus.Properties.GetAll.
func (c *Characteristic) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != IfaceGattChrc {
		return nil, ErrInvalidArgs("unknown interface " + iface)
	}
	return c.Properties(), nil
}

func (c *Characteristic) export(conn *dbus.Conn) error {
	c.SetEmitter(connEmitter(conn))
	if err := conn.ExportMethodTable(map[string]interface{}{
		"ReadValue":   c.ReadValue,
		"WriteValue":  c.WriteValue,
		"StartNotify": c.StartNotify,
		"StopNotify":  c.StopNotify,
	}, c.path, IfaceGattChrc); err != nil {
		return err
	}
	if err := conn.ExportMethodTable(map[string]interface{}{
		"GetAll": c.GetAll,
	}, c.path, IfaceProperties); err != nil {
		return err
	}
	for _, d := range c.descriptors {
		if err := d.export(conn); err != nil {
			return err
		}
	}
	return nil
}
