package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Send writes text into the daemon's pipe so it gets typed on the host.
type Send struct {
	Fifo string   `help:"Named pipe the daemon reads from" default:"/run/ipr_bt_keyboard_fifo" env:"IPRKBD_FIFO"`
	Text []string `arg:"" optional:"" help:"Text to type; reads stdin when omitted"`
}

func (s *Send) Run() error {
	f, err := os.OpenFile(s.Fifo, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s (is the daemon running?): %w", s.Fifo, err)
	}
	defer f.Close()

	if len(s.Text) > 0 {
		_, err := f.WriteString(strings.Join(s.Text, " ") + "\n")
		return err
	}

	// Line-wise copy so a missing trailing newline on stdin does not leave a
	// partial line buffered in the daemon.
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if _, err := f.WriteString(scanner.Text() + "\n"); err != nil {
			return err
		}
	}
	return scanner.Err()
}
