package gatt

import "github.com/google/uuid"

// sigBase is the Bluetooth SIG base UUID; 16-bit assigned numbers occupy
// bytes 2-3 of the 128-bit form.
var sigBase = uuid.MustParse("00000000-0000-1000-8000-00805f9b34fb")

// SIGUUID expands a 16-bit Bluetooth SIG assigned number into its canonical
// 128-bit UUID string, e.g. 0x1812 -> "00001812-0000-1000-8000-00805f9b34fb".
func SIGUUID(short uint16) string {
	u := sigBase
	u[2] = byte(short >> 8)
	u[3] = byte(short)
	return u.String()
}
