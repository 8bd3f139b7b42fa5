package tokenrepofake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo keeps the token in memory. It also counts writes so tests can
// assert when storage was touched.
type FakeTokenRepo struct {
	stored *token.Stored
	saves  int
	clears int
	lock   sync.RWMutex
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{}
}

func (tr *FakeTokenRepo) Save(_ context.Context, stored token.Stored) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.stored = &stored
	tr.saves++
	return nil
}

func (tr *FakeTokenRepo) Load(_ context.Context) (*token.Stored, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	if tr.stored == nil {
		return nil, errors.ErrNotFound
	}
	stored := *tr.stored
	return &stored, nil
}

func (tr *FakeTokenRepo) Clear(_ context.Context) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.stored = nil
	tr.clears++
	return nil
}

func (tr *FakeTokenRepo) Saves() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return tr.saves
}

func (tr *FakeTokenRepo) Clears() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return tr.clears
}
