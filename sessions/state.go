package sessions

import (
	"time"

	"github.com/jrsteele09/go-dashboard/users"
)

// State is the position of a Manager in its login lifecycle.
type State int

const (
	Anonymous State = iota
	Authenticated
	Refreshing
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	}
	return "unknown"
}

// Session is a point-in-time copy of the manager's session.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *users.User
	State       State
}

// Authenticated reports whether the session holds a token that has not
// expired at now.
func (s Session) Authenticated(now time.Time) bool {
	return s.State != Anonymous && s.AccessToken != "" && now.Before(s.ExpiresAt)
}
