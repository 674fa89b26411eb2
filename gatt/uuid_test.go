package gatt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meibye/ipr-keyboard/gatt"
)

func TestSIGUUID(t *testing.T) {
	tests := []struct {
		name  string
		short uint16
		want  string
	}{
		{"hid service", 0x1812, "00001812-0000-1000-8000-00805f9b34fb"},
		{"report", 0x2a4d, "00002a4d-0000-1000-8000-00805f9b34fb"},
		{"battery level", 0x2a19, "00002a19-0000-1000-8000-00805f9b34fb"},
		{"report reference", 0x2908, "00002908-0000-1000-8000-00805f9b34fb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gatt.SIGUUID(tt.short))
		})
	}
}
