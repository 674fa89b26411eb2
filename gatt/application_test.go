package gatt_test

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meibye/ipr-keyboard/gatt"
)

func TestGetManagedObjectsEnumeratesTree(t *testing.T) {
	app := gatt.NewApplication("/test/app")

	hid := app.NewService(0x1812, true)
	input := hid.NewCharacteristic(0x2a4d, gatt.FlagRead, gatt.FlagNotify)
	input.NewDescriptor(0x2908, []string{gatt.FlagRead}, []byte{0x01, 0x01})
	hid.NewCharacteristic(0x2a4b, gatt.FlagRead)

	battery := app.NewService(0x180f, true)
	battery.NewCharacteristic(0x2a19, gatt.FlagRead)

	objs, derr := app.GetManagedObjects()
	require.Nil(t, derr)
	assert.Len(t, objs, 6)

	svcProps, ok := objs["/test/app/service0"][gatt.IfaceGattService]
	require.True(t, ok)
	assert.Equal(t, gatt.SIGUUID(0x1812), svcProps["UUID"].Value())
	assert.Equal(t, true, svcProps["Primary"].Value())

	chrcProps, ok := objs["/test/app/service0/char0"][gatt.IfaceGattChrc]
	require.True(t, ok)
	assert.Equal(t, gatt.SIGUUID(0x2a4d), chrcProps["UUID"].Value())
	assert.Equal(t, dbus.ObjectPath("/test/app/service0"), chrcProps["Service"].Value())

	descProps, ok := objs["/test/app/service0/char0/desc0"][gatt.IfaceGattDesc]
	require.True(t, ok)
	assert.Equal(t, gatt.SIGUUID(0x2908), descProps["UUID"].Value())
	assert.Equal(t, []byte{0x01, 0x01}, descProps["Value"].Value())

	_, ok = objs["/test/app/service1"][gatt.IfaceGattService]
	assert.True(t, ok)
	_, ok = objs["/test/app/service1/char0"][gatt.IfaceGattChrc]
	assert.True(t, ok)
}

func TestServicePathsAreSequential(t *testing.T) {
	app := gatt.NewApplication("/test/app")
	s0 := app.NewService(0x1812, true)
	s1 := app.NewService(0x180a, true)
	c0 := s0.NewCharacteristic(0x2a4a, gatt.FlagRead)
	c1 := s0.NewCharacteristic(0x2a4b, gatt.FlagRead)

	assert.Equal(t, dbus.ObjectPath("/test/app/service0"), s0.Path())
	assert.Equal(t, dbus.ObjectPath("/test/app/service1"), s1.Path())
	assert.Equal(t, dbus.ObjectPath("/test/app/service0/char0"), c0.Path())
	assert.Equal(t, dbus.ObjectPath("/test/app/service0/char1"), c1.Path())
}
