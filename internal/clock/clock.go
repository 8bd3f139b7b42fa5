package clock

import "time"

// Timer is a pending callback armed by an AfterFunc.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer, false if it had already fired or been stopped.
	Stop() bool
}

// AfterFunc arms f to run on its own goroutine after d.
type AfterFunc func(d time.Duration, f func()) Timer

// NowFunc returns the current time.
type NowFunc func() time.Time

// RealAfterFunc is AfterFunc backed by time.AfterFunc.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
