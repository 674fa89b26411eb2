package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

// State tracks registration progress. GATT registration always precedes
// advertisement registration; a stage that fails with a transient error is
// retried in place rather than restarting from the beginning.
type State int

const (
	StateUnregistered State = iota
	StateRegisteringGatt
	StateRegisteringAdvertisement
	StateRegistered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateRegisteringGatt:
		return "registering-gatt"
	case StateRegisteringAdvertisement:
		return "registering-advertisement"
	case StateRegistered:
		return "registered"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// busManager is the slice of the BlueZ adapter API the registrar drives.
type busManager interface {
	RegisterApplication(ctx context.Context, app dbus.ObjectPath) error
	RegisterAdvertisement(ctx context.Context, adv dbus.ObjectPath) error
}

// retryTokens are the BlueZ error-name fragments that indicate a transient
// condition. Anything else (AlreadyExists, InvalidArguments, access denied)
// will not clear on its own and aborts registration.
var retryTokens = []string{"NotReady", "InProgress", "Failed", "NoReply", "TimedOut", "Timeout"}

func retryable(err error) bool {
	name := err.Error()
	var derrp *dbus.Error
	var derr dbus.Error
	if errors.As(err, &derrp) {
		name = derrp.Name
	} else if errors.As(err, &derr) {
		name = derr.Name
	}
	for _, tok := range retryTokens {
		if strings.Contains(name, tok) {
			return true
		}
	}
	return false
}

type registrar struct {
	mgr     busManager
	logger  *slog.Logger
	appPath dbus.ObjectPath
	advPath dbus.ObjectPath

	maxAttempts int
	delay       time.Duration
	sleep       func(ctx context.Context, d time.Duration) error

	state    State
	attempts int
}

func newRegistrar(mgr busManager, appPath, advPath dbus.ObjectPath, maxAttempts int, delay time.Duration, logger *slog.Logger) *registrar {
	return &registrar{
		mgr:         mgr,
		logger:      logger,
		appPath:     appPath,
		advPath:     advPath,
		maxAttempts: maxAttempts,
		delay:       delay,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *registrar) State() State { return r.state }

// Run drives both registration stages to completion. The attempt budget is
// shared across stages so a flapping adapter cannot stall startup forever.
func (r *registrar) Run(ctx context.Context) error {
	r.state = StateRegisteringGatt
	if err := r.runStage(ctx, "GATT application", func(ctx context.Context) error {
		return r.mgr.RegisterApplication(ctx, r.appPath)
	}); err != nil {
		r.state = StateFailed
		return err
	}

	r.state = StateRegisteringAdvertisement
	if err := r.runStage(ctx, "LE advertisement", func(ctx context.Context) error {
		return r.mgr.RegisterAdvertisement(ctx, r.advPath)
	}); err != nil {
		r.state = StateFailed
		return err
	}

	r.state = StateRegistered
	return nil
}

func (r *registrar) runStage(ctx context.Context, what string, register func(context.Context) error) error {
	for {
		r.attempts++
		err := register(ctx)
		if err == nil {
			r.logger.Info(what+" registered", "attempts", r.attempts)
			return nil
		}
		if !retryable(err) {
			return fmt.Errorf("register %s: %w", what, err)
		}
		if r.attempts >= r.maxAttempts {
			return fmt.Errorf("register %s: gave up after %d attempts: %w", what, r.attempts, err)
		}
		r.logger.Warn(what+" registration failed, retrying",
			"attempt", r.attempts, "max", r.maxAttempts, "error", err)
		if err := r.sleep(ctx, r.delay); err != nil {
			return err
		}
	}
}
