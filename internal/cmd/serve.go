package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/meibye/ipr-keyboard/gatt"
	"github.com/meibye/ipr-keyboard/hid"
	"github.com/meibye/ipr-keyboard/internal/log"
	"github.com/meibye/ipr-keyboard/internal/server/ble"
	"github.com/meibye/ipr-keyboard/internal/typist"
)

const appObjectPath = "/org/bluez/ipr"

// HexID is a 16-bit identifier parsed from hex text, with or without a 0x
// prefix.
type HexID uint16

func (h *HexID) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(string(text))), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return fmt.Errorf("invalid 16-bit hex id %q: %w", string(text), err)
	}
	*h = HexID(v)
	return nil
}

// DeviceConfig is the identity published through the Device Information
// service.
type DeviceConfig struct {
	Manufacturer string `help:"Manufacturer string" default:"IPR" env:"IPRKBD_MANUFACTURER"`
	Model        string `help:"Model string" default:"IPR Keyboard" env:"IPRKBD_MODEL"`
	VendorID     HexID  `help:"USB-IF vendor ID (hex)" default:"1209" env:"IPRKBD_VID"`
	ProductID    HexID  `help:"Product ID (hex)" default:"0001" env:"IPRKBD_PID"`
	Version      HexID  `help:"Device version (hex)" default:"0100" env:"IPRKBD_VERSION"`
}

type Serve struct {
	Ble    ble.Config    `embed:"" prefix:"ble."`
	Fifo   typist.Config `embed:"" prefix:"fifo."`
	Device DeviceConfig  `embed:"" prefix:"device."`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartDaemon(ctx, logger, rawLogger)
}

func (s *Serve) StartDaemon(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	logger.Info("Starting IPR keyboard daemon",
		"adapter", s.Ble.Adapter, "name", s.Ble.Name, "fifo", s.Fifo.Path)

	subs := gatt.NewNotifyState()
	app := gatt.NewApplication(appObjectPath)
	hidSvc := hid.NewService(app, subs, logger, rawLogger)
	hid.NewDeviceInfoService(app, hid.DeviceInfo{
		Manufacturer: s.Device.Manufacturer,
		Model:        s.Device.Model,
		VendorID:     uint16(s.Device.VendorID),
		ProductID:    uint16(s.Device.ProductID),
		Version:      uint16(s.Device.Version),
	})
	hid.NewBatteryService(app)

	adv := gatt.NewAdvertisement(appObjectPath+"/advertisement0",
		[]string{gatt.SIGUUID(hid.ServiceUUID)}, s.Ble.Name, hid.AppearanceKeyboard)

	srv := ble.New(s.Ble, logger, app, adv)
	worker := typist.NewWorker(s.Fifo, logger, hidSvc, subs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerErrCh := make(chan error, 1)
	go func() { workerErrCh <- worker.Run(ctx) }()
	srvErrCh := make(chan error, 1)
	go func() { srvErrCh <- srv.Run(ctx) }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-workerErrCh:
		cancel()
		return err
	case err := <-srvErrCh:
		cancel()
		return err
	}
}
