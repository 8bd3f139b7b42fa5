package token

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/errors"
)

// RevokedTokenCache remembers the jti of every token replaced by a refresh
// until that token would have expired on its own.
type RevokedTokenCache interface {
	Add(jti string, exp time.Time) error
	IsRevoked(jti string) bool
	Cleanup(now time.Time)
}

type InMemoryRevokedTokenCache struct {
	expiries map[string]time.Time // jti -> token expiry
	lock     sync.RWMutex
}

func NewInMemoryRevokedTokenCache() RevokedTokenCache {
	return &InMemoryRevokedTokenCache{expiries: map[string]time.Time{}}
}

func (c *InMemoryRevokedTokenCache) Add(jti string, exp time.Time) error {
	if jti == "" {
		return errors.Wrapf(errors.ErrInvalidToken, "revoke without jti")
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.expiries[jti] = exp
	return nil
}

func (c *InMemoryRevokedTokenCache) IsRevoked(jti string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	_, revoked := c.expiries[jti]
	return revoked
}

// Cleanup forgets tokens that expired before now; Verify rejects those on
// expiry alone.
func (c *InMemoryRevokedTokenCache) Cleanup(now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for jti, exp := range c.expiries {
		if now.After(exp) {
			delete(c.expiries, jti)
		}
	}
}
