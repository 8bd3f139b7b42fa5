package fakeuserrepo

import (
	"strings"
	"sync"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[int64]*users.User
	emailIds map[string]int64 // lower-cased email to user id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.UserRepo {
	return &FakeUserRepo{
		users:    make(map[int64]*users.User),
		emailIds: make(map[string]int64),
	}
}

func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == 0 {
		ur.nextID++
		user.ID = ur.nextID
	} else if user.ID > ur.nextID {
		ur.nextID = user.ID
	}
	ur.users[user.ID] = user
	ur.emailIds[strings.ToLower(user.Email)] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return ur.users[id], nil
}

func (ur *FakeUserRepo) GetByID(id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return user, nil
}
