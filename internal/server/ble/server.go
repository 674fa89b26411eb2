// Package ble owns the BlueZ side of the keyboard: it exports the GATT
// application and advertisement on the system bus, brings the adapter up,
// and drives the two-stage registration handshake.
package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/meibye/ipr-keyboard/gatt"
)

type Server struct {
	config *Config
	logger *slog.Logger
	app    *gatt.Application
	adv    *gatt.Advertisement

	ready     chan struct{}
	readyOnce sync.Once
}

func New(config Config, logger *slog.Logger, app *gatt.Application, adv *gatt.Advertisement) *Server {
	return &Server{
		config: &config,
		logger: logger,
		app:    app,
		adv:    adv,
		ready:  make(chan struct{}),
	}
}

// Ready returns a channel that is closed once both registration stages have
// completed and the keyboard is connectable.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// bluezManager drives GattManager1 and LEAdvertisingManager1 on one adapter.
type bluezManager struct {
	conn    *dbus.Conn
	adapter dbus.ObjectPath
}

func (b bluezManager) RegisterApplication(ctx context.Context, app dbus.ObjectPath) error {
	return b.conn.Object(bluezBus, b.adapter).
		CallWithContext(ctx, ifaceGattMgr+".RegisterApplication", 0, app, map[string]dbus.Variant{}).Err
}

func (b bluezManager) RegisterAdvertisement(ctx context.Context, adv dbus.ObjectPath) error {
	return b.conn.Object(bluezBus, b.adapter).
		CallWithContext(ctx, ifaceAdvMgr+".RegisterAdvertisement", 0, adv, map[string]dbus.Variant{}).Err
}

// unregister is best effort; on shutdown BlueZ drops our exports anyway when
// the connection closes.
func (b bluezManager) unregister(app, adv dbus.ObjectPath) {
	obj := b.conn.Object(bluezBus, b.adapter)
	_ = obj.Call(ifaceAdvMgr+".UnregisterAdvertisement", 0, adv).Err
	_ = obj.Call(ifaceGattMgr+".UnregisterApplication", 0, app).Err
}

// Run connects to the system bus, exports the attribute tree and keeps the
// keyboard registered until ctx is cancelled or BlueZ revokes the
// advertisement. A revoked advertisement is fatal so a supervisor restarts
// the daemon into a clean registration.
func (s *Server) Run(ctx context.Context) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	defer conn.Close()

	adapter, err := findAdapter(ctx, conn, s.config.Adapter)
	if err != nil {
		return err
	}
	s.logger.Info("using adapter", "path", adapter)
	setAdapterReady(ctx, conn, adapter, s.config.Name, s.logger)

	// Export before registering so BlueZ's GetManagedObjects call during
	// RegisterApplication finds a complete tree.
	if err := s.app.Export(conn); err != nil {
		return err
	}
	if err := s.adv.Export(conn); err != nil {
		return fmt.Errorf("export advertisement: %w", err)
	}

	mgr := bluezManager{conn: conn, adapter: adapter}
	reg := newRegistrar(mgr, s.app.Path(), s.adv.Path(), s.config.MaxAttempts, s.config.RetryDelay, s.logger)
	if err := reg.Run(ctx); err != nil {
		return err
	}
	defer mgr.unregister(s.app.Path(), s.adv.Path())

	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info("keyboard registered and advertising", "name", s.adv.LocalName())

	select {
	case <-ctx.Done():
		return nil
	case <-s.adv.Released():
		return errors.New("advertisement released by bluez")
	}
}
