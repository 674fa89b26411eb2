// Package typist turns text written to a named pipe into paced keyboard
// reports. Runes queue up while no host is subscribed and are typed in order
// once notifications are enabled.
package typist

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/meibye/ipr-keyboard/gatt"
	"github.com/meibye/ipr-keyboard/hid"
)

// Config controls the FIFO location and the key pacing.
type Config struct {
	Path        string        `help:"Named pipe to read text from" default:"/run/ipr_bt_keyboard_fifo" env:"IPRKBD_FIFO"`
	KeyHold     time.Duration `help:"Time a key stays pressed" default:"12ms" env:"IPRKBD_KEY_HOLD"`
	KeyGap      time.Duration `help:"Pause between keystrokes" default:"8ms" env:"IPRKBD_KEY_GAP"`
	IdlePoll    time.Duration `help:"Poll interval while waiting for a subscriber" default:"50ms" env:"IPRKBD_IDLE_POLL"`
	ReopenDelay time.Duration `help:"Delay before reopening the pipe after an error" default:"1s" env:"IPRKBD_REOPEN_DELAY"`
}

// Notifier delivers one key report to the host. A false return means no
// subscriber accepted it.
type Notifier interface {
	NotifyKeyReport(report []byte) bool
}

type Worker struct {
	config   *Config
	logger   *slog.Logger
	notifier Notifier
	subs     *gatt.NotifyState

	queue queue
	sleep func(ctx context.Context, d time.Duration) error
}

func NewWorker(config Config, logger *slog.Logger, notifier Notifier, subs *gatt.NotifyState) *Worker {
	return &Worker{
		config:   &config,
		logger:   logger,
		notifier: notifier,
		subs:     subs,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ensureFIFO creates the pipe if needed and opens its permissions so any
// local process can enqueue text. Chmod runs even for a pre-existing pipe so
// the mode does not depend on who created it.
func (w *Worker) ensureFIFO() error {
	path := w.config.Path
	fi, err := os.Stat(path)
	switch {
	case err == nil:
		if fi.Mode()&os.ModeNamedPipe == 0 {
			return fmt.Errorf("%s exists and is not a fifo", path)
		}
	case os.IsNotExist(err):
		if err := unix.Mkfifo(path, 0o666); err != nil {
			return fmt.Errorf("mkfifo %s: %w", path, err)
		}
	default:
		return err
	}
	if err := os.Chmod(path, 0o666); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// Run creates the pipe and types queued text until ctx is cancelled. Reading
// happens on a separate goroutine so pacing and subscriber waits never block
// pipe writers.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.ensureFIFO(); err != nil {
		return err
	}
	w.logger.Info("reading keystrokes", "fifo", w.config.Path)

	lines := make(chan string)
	go w.readLoop(ctx, lines)

	for {
		if err := w.drain(ctx); err != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			w.queue.Push(line + "\n")
		}
	}
}

// readLoop feeds pipe lines into the channel, reopening the pipe after read
// errors. The pipe is opened read-write so the daemon itself counts as a
// writer and reads block instead of spinning on EOF between senders.
func (w *Worker) readLoop(ctx context.Context, lines chan<- string) {
	defer close(lines)
	for {
		f, err := os.OpenFile(w.config.Path, os.O_RDWR, 0)
		if err != nil {
			w.logger.Error("open fifo", "path", w.config.Path, "error", err)
			if w.sleep(ctx, w.config.ReopenDelay) != nil {
				return
			}
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				f.Close()
				return
			}
		}
		err = scanner.Err()
		f.Close()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			w.logger.Warn("fifo read error, reopening", "error", err)
		}
		if w.sleep(ctx, w.config.ReopenDelay) != nil {
			return
		}
	}
}

// drain types queued runes until the queue is empty. Without a subscriber it
// parks on the wake channel with a poll fallback; the queue is preserved
// across subscription gaps.
func (w *Worker) drain(ctx context.Context) error {
	for w.queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !w.subs.Active() {
			if err := w.waitSubscriber(ctx); err != nil {
				return err
			}
			continue
		}
		if !w.sendNext(ctx) {
			if err := w.waitSubscriber(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Worker) waitSubscriber(ctx context.Context) error {
	t := time.NewTimer(w.config.IdlePoll)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.subs.Wake():
		return nil
	case <-t.C:
		return nil
	}
}

// sendNext types the head rune as press, hold, release, gap. A false return
// means no subscriber accepted the press; the rune stays queued. Runes with
// no usage mapping are dropped.
func (w *Worker) sendNext(ctx context.Context) bool {
	r, ok := w.queue.Peek()
	if !ok {
		return true
	}
	ks := hid.Map(r)
	if ks.Usage == 0 {
		w.logger.Debug("dropping unmapped rune", "rune", string(r))
		w.queue.Pop()
		return true
	}
	if !w.notifier.NotifyKeyReport(hid.BuildReport(ks.Mods, ks.Usage)) {
		return false
	}
	_ = w.sleep(ctx, w.config.KeyHold)
	w.notifier.NotifyKeyReport(hid.ReleaseReport())
	_ = w.sleep(ctx, w.config.KeyGap)
	w.queue.Pop()
	return true
}
