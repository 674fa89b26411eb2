package gatt

import "github.com/godbus/dbus/v5"

// D-Bus error names returned to BlueZ. NotPermitted covers capability-flag
// violations, InvalidArgs covers malformed or out-of-range writes.
const (
	ErrNameNotPermitted = "org.bluez.Error.NotPermitted"
	ErrNameInvalidArgs  = "org.freedesktop.DBus.Error.InvalidArgs"
)

// ErrNotPermitted builds the error BlueZ expects when an operation is not
// allowed by the characteristic's flags.
func ErrNotPermitted(msg string) *dbus.Error {
	return dbus.NewError(ErrNameNotPermitted, []interface{}{msg})
}

// ErrInvalidArgs builds the error BlueZ expects for a malformed write.
func ErrInvalidArgs(msg string) *dbus.Error {
	return dbus.NewError(ErrNameInvalidArgs, []interface{}{msg})
}
