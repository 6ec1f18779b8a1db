package ledger

import (
	"sync/atomic"
	"time"
)

// Clock exposes the monotonic slot counter instructions are stamped with.
type Clock interface {
	Slot() uint64
}

// ManualClock is a hand-driven clock for tests and single-node deployments
// where slot height is fed in from the surrounding ledger.
type ManualClock struct {
	slot atomic.Uint64
}

// NewManualClock starts a clock at the given slot.
func NewManualClock(slot uint64) *ManualClock {
	c := &ManualClock{}
	c.slot.Store(slot)
	return c
}

func (c *ManualClock) Slot() uint64 {
	return c.slot.Load()
}

// Set jumps the clock to an absolute slot.
func (c *ManualClock) Set(slot uint64) {
	c.slot.Store(slot)
}

// Advance moves the clock forward by n slots.
func (c *ManualClock) Advance(n uint64) {
	c.slot.Add(n)
}

// WallClock maps wall time to slots, one slot per second since the Unix
// epoch. Standalone deployments without a surrounding ledger use this.
type WallClock struct{}

func (WallClock) Slot() uint64 {
	return uint64(time.Now().Unix())
}
