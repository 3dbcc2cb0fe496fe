// Package vclock is the deterministic time source that replaces wall-clock
// time for render sessions.
//
// The clock holds a single nanosecond counter that only moves when asked to.
// Frame callbacks are queued against it and run when the clock passes their
// due time, so an animation drawn at virtual instant T looks the same in
// every process run.
//
// Time zero is never observed: every requested instant is offset by
// EpochOffset (one hour), because frame schedulers treat a zero frame time
// as "not yet started".
package vclock

import (
	"sync"
	"sync/atomic"
	"time"
)

// EpochOffset is added to every requested instant.
const EpochOffset = int64(time.Hour)

// Clock is a monotonic virtual clock with a frame-callback queue.
//
// Clock methods are safe for concurrent use, but the callbacks themselves run
// on the goroutine that advances or drains the clock.
type Clock struct {
	now  atomic.Int64
	base atomic.Int64

	// queueMu guards the callback queue; drainMu is held while callbacks run.
	queueMu sync.Mutex
	queue   callbackQueue
	seq     uint64

	drainMu  sync.Mutex
	draining atomic.Bool
}

// New returns a clock positioned at EpochOffset.
func New() *Clock {
	c := &Clock{}
	c.now.Store(EpochOffset)
	return c
}

var (
	defaultOnce  sync.Once
	defaultClock *Clock
)

// Default returns the process-wide clock.
func Default() *Clock {
	defaultOnce.Do(func() { defaultClock = New() })
	return defaultClock
}

// Now returns the current virtual time in nanoseconds, offset included.
func (c *Clock) Now() int64 {
	return c.now.Load()
}

// NanoTime implements capability.Clock.
func (c *Clock) NanoTime() int64 { return c.Now() }

// CurrentTimeMillis implements capability.Clock.
func (c *Clock) CurrentTimeMillis() int64 {
	return c.Now() / int64(time.Millisecond)
}

// Elapsed returns the current time relative to the active sequence base,
// without the epoch offset.
func (c *Clock) Elapsed() int64 {
	return c.Now() - EpochOffset - c.base.Load()
}

// BeginSequence starts a new monotonic sub-range at the current instant:
// afterwards AdvanceTo(0) resolves to Now(). The first sequence of a process
// starts at base zero, so AdvanceTo(n) means EpochOffset+n.
func (c *Clock) BeginSequence() {
	c.base.Store(c.Now() - EpochOffset)
}

// AdvanceTo moves the clock to EpochOffset + base + nanos and runs every
// callback due by then. A target earlier than the current time leaves the
// clock where it is; the clock never runs backwards. It returns the time
// the clock reads afterwards.
func (c *Clock) AdvanceTo(nanos int64) int64 {
	target := EpochOffset + c.base.Load() + nanos
	for {
		cur := c.now.Load()
		if target <= cur || c.now.CompareAndSwap(cur, target) {
			break
		}
	}
	c.Drain()
	return c.Now()
}

// Post queues fn to run on the next drain.
func (c *Clock) Post(fn func(frameNanos int64)) {
	c.PostAt(c.Now(), fn)
}

// PostDelayed queues fn to run once the clock has advanced by d.
func (c *Clock) PostDelayed(d time.Duration, fn func(frameNanos int64)) {
	c.PostAt(c.Now()+int64(d), fn)
}

// PostAt queues fn to run once the clock reaches at (absolute nanos).
// Callbacks due at the same instant run in posting order.
func (c *Clock) PostAt(at int64, fn func(frameNanos int64)) {
	if fn == nil {
		return
	}
	c.queueMu.Lock()
	c.seq++
	c.queue.push(callback{at: at, seq: c.seq, fn: fn})
	c.queueMu.Unlock()
}

// Pending returns the number of queued callbacks.
func (c *Clock) Pending() int {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	return c.queue.Len()
}

// Reset drops every queued callback without running it.
func (c *Clock) Reset() {
	c.queueMu.Lock()
	c.queue = nil
	c.queueMu.Unlock()
}

// Drain runs every callback due at or before Now that was queued before the
// drain started; callbacks posted by a running callback wait for the next
// drain. It returns how many callbacks ran. Drain while another drain is
// running, including from inside a callback, is a no-op.
func (c *Clock) Drain() int {
	if c.draining.Load() {
		return 0
	}
	c.drainMu.Lock()
	defer c.drainMu.Unlock()
	c.draining.Store(true)
	defer c.draining.Store(false)

	c.queueMu.Lock()
	limit := c.seq
	c.queueMu.Unlock()

	var deferred []callback
	ran := 0
	for {
		cb, ok := c.popDue(c.Now())
		if !ok {
			break
		}
		if cb.seq > limit {
			deferred = append(deferred, cb)
			continue
		}
		cb.fn(c.Now())
		ran++
	}

	if len(deferred) > 0 {
		c.queueMu.Lock()
		for _, cb := range deferred {
			c.queue.push(cb)
		}
		c.queueMu.Unlock()
	}
	return ran
}

func (c *Clock) popDue(now int64) (callback, bool) {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	if c.queue.Len() == 0 || c.queue.peek().at > now {
		return callback{}, false
	}
	return c.queue.pop(), true
}
