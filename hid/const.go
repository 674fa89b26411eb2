// Package hid assembles the HID-over-GATT keyboard profile: the HID service
// and its characteristics, the Device Information and Battery services, the
// report descriptor, and the character-to-usage mapping used to type text.
package hid

// 16-bit SIG assigned numbers for the exposed services and attributes.
const (
	ServiceUUID           uint16 = 0x1812
	HIDInformationUUID    uint16 = 0x2A4A
	ReportMapUUID         uint16 = 0x2A4B
	HIDControlPointUUID   uint16 = 0x2A4C
	ReportUUID            uint16 = 0x2A4D
	ProtocolModeUUID      uint16 = 0x2A4E
	BootKeyboardInputUUID uint16 = 0x2A22
	BootKeyboardOutUUID   uint16 = 0x2A32
	ReportReferenceUUID   uint16 = 0x2908

	DeviceInfoServiceUUID uint16 = 0x180A
	PnPIDUUID             uint16 = 0x2A50
	ManufacturerUUID      uint16 = 0x2A29
	ModelNumberUUID       uint16 = 0x2A24

	BatteryServiceUUID uint16 = 0x180F
	BatteryLevelUUID   uint16 = 0x2A19
)

// AppearanceKeyboard is the GAP appearance code advertised for keyboards.
const AppearanceKeyboard uint16 = 0x03C1

// Protocol Mode values.
const (
	ProtocolModeBoot   = 0x00
	ProtocolModeReport = 0x01
)

// HID Control Point values.
const (
	ControlSuspend     = 0x00
	ControlExitSuspend = 0x01
)

// Report Reference descriptor report types.
const (
	ReportTypeInput  = 0x01
	ReportTypeOutput = 0x02
)

// ledMask keeps the 5 defined LED bits of an output report; the top 3 bits
// are constant padding.
const ledMask = 0x1F

// Modifier key bitmasks.
const (
	ModLeftCtrl   = 0x01
	ModLeftShift  = 0x02
	ModLeftAlt    = 0x04
	ModLeftGUI    = 0x08
	ModRightCtrl  = 0x10
	ModRightShift = 0x20
	ModRightAlt   = 0x40
	ModRightGUI   = 0x80
)

// HID usage codes (Keyboard/Keypad usage page) for the keys the mapper emits.
const (
	KeyA = 0x04
	KeyB = 0x05
	KeyC = 0x06
	KeyD = 0x07
	KeyE = 0x08
	KeyF = 0x09
	KeyG = 0x0A
	KeyH = 0x0B
	KeyI = 0x0C
	KeyJ = 0x0D
	KeyK = 0x0E
	KeyL = 0x0F
	KeyM = 0x10
	KeyN = 0x11
	KeyO = 0x12
	KeyP = 0x13
	KeyQ = 0x14
	KeyR = 0x15
	KeyS = 0x16
	KeyT = 0x17
	KeyU = 0x18
	KeyV = 0x19
	KeyW = 0x1A
	KeyX = 0x1B
	KeyY = 0x1C
	KeyZ = 0x1D

	// Top-row digits; '0' sorts after '9' in usage-code order.
	Key1 = 0x1E
	Key2 = 0x1F
	Key3 = 0x20
	Key4 = 0x21
	Key5 = 0x22
	Key6 = 0x23
	Key7 = 0x24
	Key8 = 0x25
	Key9 = 0x26
	Key0 = 0x27

	KeyEnter      = 0x28
	KeyTab        = 0x2B
	KeySpace      = 0x2C
	KeyMinus      = 0x2D
	KeyLeftBrace  = 0x2F // å on a Danish layout
	KeySemicolon  = 0x33 // æ on a Danish layout
	KeyApostrophe = 0x34 // ø on a Danish layout
)
