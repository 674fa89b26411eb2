package ble

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeManager scripts registration outcomes and records call order.
type fakeManager struct {
	appErrs []error
	advErrs []error
	calls   []string
}

func (f *fakeManager) RegisterApplication(ctx context.Context, app dbus.ObjectPath) error {
	f.calls = append(f.calls, "app")
	if len(f.appErrs) == 0 {
		return nil
	}
	err := f.appErrs[0]
	f.appErrs = f.appErrs[1:]
	return err
}

func (f *fakeManager) RegisterAdvertisement(ctx context.Context, adv dbus.ObjectPath) error {
	f.calls = append(f.calls, "adv")
	if len(f.advErrs) == 0 {
		return nil
	}
	err := f.advErrs[0]
	f.advErrs = f.advErrs[1:]
	return err
}

func newTestRegistrar(mgr busManager, maxAttempts int) *registrar {
	r := newRegistrar(mgr, "/test/app", "/test/adv", maxAttempts, time.Second, testLogger())
	r.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return r
}

func bluezErr(name string) error {
	return dbus.NewError(name, nil)
}

func TestRegistrarHappyPath(t *testing.T) {
	mgr := &fakeManager{}
	r := newTestRegistrar(mgr, 60)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, StateRegistered, r.State())
	assert.Equal(t, []string{"app", "adv"}, mgr.calls)
}

func TestRegistrarRetriesTransientErrors(t *testing.T) {
	mgr := &fakeManager{
		appErrs: []error{bluezErr("org.bluez.Error.NotReady"), bluezErr("org.bluez.Error.InProgress"), nil},
		advErrs: []error{bluezErr("org.bluez.Error.Failed"), nil},
	}
	r := newTestRegistrar(mgr, 60)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, StateRegistered, r.State())
	assert.Equal(t, []string{"app", "app", "app", "adv", "adv"}, mgr.calls)
}

func TestRegistrarFailedStageRetriedInPlace(t *testing.T) {
	// An advertisement failure must not re-register the GATT application.
	mgr := &fakeManager{
		advErrs: []error{bluezErr("org.bluez.Error.Failed"), bluezErr("org.bluez.Error.Failed"), nil},
	}
	r := newTestRegistrar(mgr, 60)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"app", "adv", "adv", "adv"}, mgr.calls)
}

func TestRegistrarNonRetryableErrorIsFatal(t *testing.T) {
	mgr := &fakeManager{
		appErrs: []error{bluezErr("org.bluez.Error.AlreadyExists")},
	}
	r := newTestRegistrar(mgr, 60)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, r.State())
	assert.Equal(t, []string{"app"}, mgr.calls)
}

func TestRegistrarAttemptBudgetSharedAcrossStages(t *testing.T) {
	mgr := &fakeManager{
		appErrs: []error{bluezErr("org.bluez.Error.NotReady"), nil},
		advErrs: []error{
			bluezErr("org.bluez.Error.Failed"),
			bluezErr("org.bluez.Error.Failed"),
			bluezErr("org.bluez.Error.Failed"),
		},
	}
	r := newTestRegistrar(mgr, 4)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, r.State())
	// 2 app attempts + 2 adv attempts exhaust the shared budget of 4.
	assert.Equal(t, []string{"app", "app", "adv", "adv"}, mgr.calls)
}

func TestRegistrarStopsOnContextCancel(t *testing.T) {
	mgr := &fakeManager{
		appErrs: []error{bluezErr("org.bluez.Error.NotReady"), bluezErr("org.bluez.Error.NotReady")},
	}
	r := newTestRegistrar(mgr, 60)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"app"}, mgr.calls)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not ready", bluezErr("org.bluez.Error.NotReady"), true},
		{"in progress", bluezErr("org.bluez.Error.InProgress"), true},
		{"failed", bluezErr("org.bluez.Error.Failed"), true},
		{"no reply", bluezErr("org.freedesktop.DBus.Error.NoReply"), true},
		{"timeout", bluezErr("org.freedesktop.DBus.Error.Timeout"), true},
		{"timed out", bluezErr("org.freedesktop.DBus.Error.TimedOut"), true},
		{"already exists", bluezErr("org.bluez.Error.AlreadyExists"), false},
		{"invalid arguments", bluezErr("org.bluez.Error.InvalidArguments"), false},
		{"plain error", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unregistered", StateUnregistered.String())
	assert.Equal(t, "registering-gatt", StateRegisteringGatt.String())
	assert.Equal(t, "registering-advertisement", StateRegisteringAdvertisement.String())
	assert.Equal(t, "registered", StateRegistered.String())
	assert.Equal(t, "failed", StateFailed.String())
}
