package resourcerepofake

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/resources"
)

// FakeResourceRepo is an in-memory resources.Repo. Records are kept in
// insertion order and listed with the same paging, sorting, filtering and
// search semantics as the production API.
type FakeResourceRepo[R resources.Record] struct {
	records []R
	nextID  int64
	nowFunc func() time.Time
	lock    sync.RWMutex
}

func NewFakeResourceRepo[R resources.Record](nowFunc func() time.Time) *FakeResourceRepo[R] {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &FakeResourceRepo[R]{nowFunc: nowFunc}
}

func (rr *FakeResourceRepo[R]) List(params resources.ListParams) ([]R, int, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	matched := make([]R, 0, len(rr.records))
	search := strings.ToLower(strings.TrimSpace(params.Search))
	for _, r := range rr.records {
		if search != "" && !strings.Contains(strings.ToLower(r.SearchText()), search) {
			continue
		}
		if !matchesFilters(r, params.Filters) {
			continue
		}
		matched = append(matched, r)
	}

	if params.SortBy != "" {
		desc := strings.EqualFold(params.SortDirection, "desc")
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(matched[i].Field(params.SortBy), matched[j].Field(params.SortBy))
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	total := len(matched)
	if params.PerPage < 1 || params.Page < 1 {
		return matched, total, nil
	}

	offset := (params.Page - 1) * params.PerPage
	if offset >= total {
		return []R{}, total, nil
	}
	end := offset + params.PerPage
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (rr *FakeResourceRepo[R]) All() []R {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	all := make([]R, len(rr.records))
	copy(all, rr.records)
	return all
}

func (rr *FakeResourceRepo[R]) Get(id int64) (R, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	if i := rr.indexOf(id); i >= 0 {
		return rr.records[i], nil
	}
	var zero R
	return zero, errors.ErrNotFound
}

func (rr *FakeResourceRepo[R]) Create(record R) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	rr.nextID++
	now := rr.nowFunc()
	record.SetID(rr.nextID)
	record.Stamp(now, now)
	rr.records = append(rr.records, record)
	return nil
}

// Update replaces the stored record, keeping its ID and creation time.
func (rr *FakeResourceRepo[R]) Update(id int64, record R) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	i := rr.indexOf(id)
	if i < 0 {
		return errors.ErrNotFound
	}

	record.SetID(id)
	record.Stamp(rr.records[i].Created(), rr.nowFunc())
	rr.records[i] = record
	return nil
}

func (rr *FakeResourceRepo[R]) Delete(id int64) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	i := rr.indexOf(id)
	if i < 0 {
		return errors.ErrNotFound
	}
	rr.records = append(rr.records[:i], rr.records[i+1:]...)
	return nil
}

func (rr *FakeResourceRepo[R]) indexOf(id int64) int {
	for i, r := range rr.records {
		if r.GetID() == id {
			return i
		}
	}
	return -1
}

func matchesFilters(r resources.Record, filters map[string]string) bool {
	for field, value := range filters {
		if value == "" {
			continue
		}
		if resources.FormatField(r.Field(field)) != value {
			return false
		}
	}
	return true
}

// compare orders nil before any value, numbers numerically and strings
// case-insensitively.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ai, ok := a.(int64); ok {
		if bi, ok := b.(int64); ok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(strings.ToLower(resources.FormatField(a)), strings.ToLower(resources.FormatField(b)))
}
