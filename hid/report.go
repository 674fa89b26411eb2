package hid

// ReportSize is the fixed length of a keyboard input report: modifier byte,
// reserved byte, and six key slots (only the first is used for typed text).
const ReportSize = 8

// BuildReport encodes a keyboard input report carrying one key.
//
// Report layout (8 bytes):
//
//	Byte 0: Modifiers
//	Byte 1: Reserved (0x00)
//	Byte 2: Key usage code
//	Bytes 3-7: Remaining key slots (unused)
func BuildReport(mods, usage uint8) []byte {
	return []byte{mods, 0x00, usage, 0, 0, 0, 0, 0}
}

// ReleaseReport returns the neutral all-keys-up report.
func ReleaseReport() []byte {
	return BuildReport(0, 0)
}
