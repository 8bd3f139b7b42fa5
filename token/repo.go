package token

import (
	"context"
	"time"
)

// Stored is the durable part of a session: the bearer token and its
// absolute expiry. The user profile is deliberately not part of it.
type Stored struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Expired reports whether the token is missing or its expiry is not in the
// future relative to now.
func (s *Stored) Expired(now time.Time) bool {
	return s == nil || s.AccessToken == "" || s.ExpiresAt.IsZero() || !now.Before(s.ExpiresAt)
}

// Repo is durable key-value storage for the session token. It survives
// process restarts. Load returns errors.ErrNotFound when nothing is stored.
type Repo interface {
	Save(ctx context.Context, stored Stored) error
	Load(ctx context.Context) (*Stored, error)
	Clear(ctx context.Context) error
}

// Record is the persisted JSON shape shared by the durable repos.
type Record struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // epoch milliseconds
}

func NewRecord(s Stored) Record {
	return Record{Token: s.AccessToken, ExpiresAt: s.ExpiresAt.UnixMilli()}
}

func (r Record) Stored() *Stored {
	s := &Stored{AccessToken: r.Token}
	if r.ExpiresAt > 0 {
		s.ExpiresAt = time.UnixMilli(r.ExpiresAt)
	}
	return s
}
