package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/meibye/ipr-keyboard/gatt"
)

const (
	bluezBus     = "org.bluez"
	ifaceAdapter = "org.bluez.Adapter1"
	ifaceGattMgr = "org.bluez.GattManager1"
	ifaceAdvMgr  = "org.bluez.LEAdvertisingManager1"
)

// findAdapter locates the adapter object to register against. The configured
// adapter is preferred; when it is not present the first adapter BlueZ
// manages is used instead.
func findAdapter(ctx context.Context, conn *dbus.Conn, preferred string) (dbus.ObjectPath, error) {
	var objs map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	root := conn.Object(bluezBus, "/")
	if err := root.CallWithContext(ctx, gatt.IfaceObjectManager+".GetManagedObjects", 0).Store(&objs); err != nil {
		return "", fmt.Errorf("enumerate bluez objects: %w", err)
	}

	want := dbus.ObjectPath("/org/bluez/" + preferred)
	var fallback dbus.ObjectPath
	for path, ifaces := range objs {
		if _, ok := ifaces[ifaceAdapter]; !ok {
			continue
		}
		if path == want {
			return path, nil
		}
		if fallback == "" || path < fallback {
			fallback = path
		}
	}
	if fallback == "" {
		return "", errors.New("no bluetooth adapter found")
	}
	return fallback, nil
}

// setAdapterReady powers the adapter and makes it pairable and discoverable
// without timeout. Individual property writes can be denied while the
// controller initializes, so failures are logged and skipped.
func setAdapterReady(ctx context.Context, conn *dbus.Conn, adapter dbus.ObjectPath, alias string, logger *slog.Logger) {
	obj := conn.Object(bluezBus, adapter)
	props := []struct {
		name  string
		value interface{}
	}{
		{"Powered", true},
		{"Alias", alias},
		{"Pairable", true},
		{"PairableTimeout", uint32(0)},
		{"Discoverable", true},
		{"DiscoverableTimeout", uint32(0)},
	}
	for _, p := range props {
		call := obj.CallWithContext(ctx, gatt.IfaceProperties+".Set", 0,
			ifaceAdapter, p.name, dbus.MakeVariant(p.value))
		if call.Err != nil {
			logger.Warn("adapter property not set", "property", p.name, "error", call.Err)
		}
	}
}
