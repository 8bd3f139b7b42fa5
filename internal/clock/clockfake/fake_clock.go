package clockfake

import (
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/clock"
)

// FakeClock is a manually advanced clock. Callbacks armed through AfterFunc
// run synchronously from Advance, in deadline order.
type FakeClock struct {
	lock   sync.Mutex
	now    time.Time
	timers []*FakeTimer
}

type FakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	delay    time.Duration
	f        func()
	stopped  bool
	fired    bool
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.lock.Lock()
	defer c.lock.Unlock()

	t := &FakeTimer{clock: c, deadline: c.now.Add(d), delay: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and fires every armed timer whose
// deadline has been reached.
func (c *FakeClock) Advance(d time.Duration) {
	c.lock.Lock()
	c.now = c.now.Add(d)
	due := make([]*FakeTimer, 0)
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.lock.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, t := range due {
		t.f()
	}
}

// Pending returns the timers that are armed and have not fired.
func (c *FakeClock) Pending() []*FakeTimer {
	c.lock.Lock()
	defer c.lock.Unlock()

	pending := make([]*FakeTimer, 0)
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			pending = append(pending, t)
		}
	}
	return pending
}

func (t *FakeTimer) Stop() bool {
	t.clock.lock.Lock()
	defer t.clock.lock.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Deadline is the clock time at which the timer fires.
func (t *FakeTimer) Deadline() time.Time {
	return t.deadline
}

// Delay is the duration the timer was armed with.
func (t *FakeTimer) Delay() time.Duration {
	return t.delay
}
