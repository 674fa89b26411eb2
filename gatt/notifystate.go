package gatt

import "sync/atomic"

// NotifyState counts active notify subscriptions across the report-bearing
// characteristics (Report-Input and Boot-Input share one instance). The D-Bus
// handler goroutines are the only writers (StartNotify/StopNotify), the typist
// worker is the only reader; the wake channel lets a sleeping worker observe a
// new subscription promptly instead of waiting out its idle poll.
type NotifyState struct {
	count atomic.Int32
	wake  chan struct{}
}

func NewNotifyState() *NotifyState {
	return &NotifyState{wake: make(chan struct{}, 1)}
}

// Acquire records one subscriber and wakes the worker.
func (s *NotifyState) Acquire() {
	s.count.Add(1)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Release drops one subscriber, never going below zero.
func (s *NotifyState) Release() {
	for {
		c := s.count.Load()
		if c == 0 {
			return
		}
		if s.count.CompareAndSwap(c, c-1) {
			return
		}
	}
}

// Active reports whether at least one subscriber is listening.
func (s *NotifyState) Active() bool { return s.count.Load() > 0 }

// Subscribers returns the current subscriber count.
func (s *NotifyState) Subscribers() int { return int(s.count.Load()) }

// Wake returns the channel signalled on Acquire.
func (s *NotifyState) Wake() <-chan struct{} { return s.wake }
