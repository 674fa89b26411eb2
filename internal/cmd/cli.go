// Package cmd defines the kong command grammar and wires the daemon
// together.
package cmd

// LogConfig groups the logging flags shared by all commands.
type LogConfig struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"IPRKBD_LOG_LEVEL" enum:"trace,debug,info,warn,error"`
	File    string `help:"Write logs to this file instead of the console" env:"IPRKBD_LOG_FILE"`
	RawFile string `help:"Write raw report traces to this file" env:"IPRKBD_LOG_RAW_FILE"`
}

// CLI is the root command grammar.
type CLI struct {
	ConfigPath string    `name:"config" help:"Path to a config file" env:"IPRKBD_CONFIG" type:"path"`
	Log        LogConfig `embed:"" prefix:"log."`

	Serve  Serve         `cmd:"" default:"withargs" help:"Run the BLE keyboard daemon"`
	Send   Send          `cmd:"" help:"Write text to the keyboard pipe"`
	Config ConfigCommand `cmd:"" help:"Configuration file helpers"`
}
