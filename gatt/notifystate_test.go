package gatt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meibye/ipr-keyboard/gatt"
)

func TestNotifyStateCounts(t *testing.T) {
	s := gatt.NewNotifyState()
	assert.False(t, s.Active())
	assert.Equal(t, 0, s.Subscribers())

	s.Acquire()
	s.Acquire()
	assert.True(t, s.Active())
	assert.Equal(t, 2, s.Subscribers())

	s.Release()
	assert.True(t, s.Active())
	s.Release()
	assert.False(t, s.Active())
}

func TestNotifyStateReleaseClampsAtZero(t *testing.T) {
	s := gatt.NewNotifyState()
	s.Release()
	s.Release()
	assert.Equal(t, 0, s.Subscribers())

	s.Acquire()
	assert.Equal(t, 1, s.Subscribers())
}

func TestNotifyStateWake(t *testing.T) {
	s := gatt.NewNotifyState()

	select {
	case <-s.Wake():
		t.Fatal("wake signalled before any subscriber")
	default:
	}

	s.Acquire()
	select {
	case <-s.Wake():
	default:
		t.Fatal("wake not signalled after Acquire")
	}

	// repeated acquires coalesce into a single pending wake
	s.Acquire()
	s.Acquire()
	select {
	case <-s.Wake():
	default:
		t.Fatal("wake not signalled")
	}
	select {
	case <-s.Wake():
		t.Fatal("more than one pending wake")
	default:
	}
}
