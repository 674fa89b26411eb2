package ble

import "time"

// Config controls the BlueZ side of the keyboard.
type Config struct {
	Adapter     string        `help:"Bluetooth adapter to register on (hciN)" default:"hci0" env:"IPRKBD_ADAPTER"`
	Name        string        `help:"Device name used for the adapter alias and advertisement" default:"IPR Keyboard" env:"IPRKBD_NAME"`
	MaxAttempts int           `help:"Registration attempts before giving up; shared across both stages" default:"60" env:"IPRKBD_REGISTER_ATTEMPTS"`
	RetryDelay  time.Duration `help:"Delay between registration attempts" default:"1s" env:"IPRKBD_REGISTER_DELAY"`
}
