package sessions

import (
	"time"

	"github.com/jrsteele09/go-dashboard/internal/clock"
)

const DefaultRefreshLeadTime = 5 * time.Minute

type Option func(*Manager)

func WithNowFunc(now clock.NowFunc) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithAfterFunc replaces the factory used to arm the refresh timer.
func WithAfterFunc(afterFunc clock.AfterFunc) Option {
	return func(m *Manager) {
		m.afterFunc = afterFunc
	}
}

// WithRefreshLeadTime sets how long before expiry the token is refreshed.
func WithRefreshLeadTime(lead time.Duration) Option {
	return func(m *Manager) {
		m.leadTime = lead
	}
}

// WithStateListener registers a callback run after every state change. It is
// called without the manager lock held.
func WithStateListener(listener func(from, to State)) Option {
	return func(m *Manager) {
		m.listener = listener
	}
}
