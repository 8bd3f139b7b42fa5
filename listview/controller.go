package listview

import (
	"context"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-dashboard/internal/clock"
	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/resources"
	"github.com/rs/zerolog/log"
)

// FetchErrorMessage is shown when the API rejected a list request without
// saying why.
const FetchErrorMessage = "Failed to fetch resources"

// Fetcher loads one page of records for a query.
type Fetcher[T any] func(ctx context.Context, query url.Values) (*resources.Page[T], error)

// State is what a list view renders.
type State[T any] struct {
	Query   Query
	Items   []T
	Meta    resources.PageMeta
	Loading bool
	Error   string
}

// Controller keeps one list view's query state in sync with its Location
// and fetches pages for it. Changes are debounced, and a new fetch cancels
// the previous one, so only the most recently issued fetch updates State.
type Controller[T any] struct {
	fetch Fetcher[T]
	loc   Location
	opts  options

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup

	lock     sync.Mutex
	state    State[T]
	onChange func(State[T])
	timer    clock.Timer
	timerSeq uint64 // identifies the armed debounce timer
	cancel   context.CancelFunc
	seq      uint64
	closed   bool
}

func New[T any](fetch Fetcher[T], loc Location, options ...Option) *Controller[T] {
	o := defaultOptions()
	for _, opt := range options {
		opt(&o)
	}

	c := &Controller[T]{fetch: fetch, loc: loc, opts: o}
	c.baseCtx, c.stop = context.WithCancel(context.Background())
	c.state.Query = ParseQuery(nil, o.defaultPerPage)
	c.state.Meta = resources.PageMeta{CurrentPage: 1, LastPage: 1, PerPage: o.defaultPerPage}
	return c
}

func defaultOptions() options {
	return options{
		debounce:       DefaultDebounce,
		afterFunc:      clock.RealAfterFunc,
		defaultPerPage: DefaultPerPage,
	}
}

// OnChange registers the callback run after every state change. It is
// called without the controller lock held.
func (c *Controller[T]) OnChange(fn func(State[T])) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.onChange = fn
}

// Mount restores the query from the location and fetches the first page
// straight away.
func (c *Controller[T]) Mount() {
	c.lock.Lock()
	c.state.Query = ParseQuery(c.loc.Query(), c.opts.defaultPerPage)
	c.lock.Unlock()

	c.start()
}

// SetPage moves to page n. Pages past the last one are left to the server.
func (c *Controller[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	c.update(func(q *Query) {
		q.Page = n
	})
}

func (c *Controller[T]) NextPage() {
	pagination := c.Pagination()
	if pagination.HasNext {
		c.SetPage(pagination.CurrentPage + 1)
	}
}

func (c *Controller[T]) PrevPage() {
	pagination := c.Pagination()
	if pagination.HasPrev {
		c.SetPage(pagination.CurrentPage - 1)
	}
}

func (c *Controller[T]) SetPerPage(perPage int) {
	if perPage < 1 {
		perPage = c.opts.defaultPerPage
	}
	c.update(func(q *Query) {
		q.PerPage = perPage
		q.Page = 1
	})
}

// ToggleSort sorts by field. The active field flips direction; a new field
// starts ascending. Either way the list returns to page 1.
func (c *Controller[T]) ToggleSort(field string) {
	c.update(func(q *Query) {
		if q.SortField == field && q.SortDirection == SortAsc {
			q.SortDirection = SortDesc
		} else {
			q.SortField = field
			q.SortDirection = SortAsc
		}
		q.Page = 1
	})
}

// SetFilter sets one filter. An empty value removes it.
func (c *Controller[T]) SetFilter(key, value string) {
	c.update(func(q *Query) {
		if value == "" {
			delete(q.Filters, key)
		} else {
			q.Filters[key] = value
		}
		q.Page = 1
	})
}

func (c *Controller[T]) SetSearch(search string) {
	c.update(func(q *Query) {
		q.Search = search
		q.Page = 1
	})
}

// Reload fetches the current query immediately, dropping any pending
// debounced fetch. Used after a mutation such as a delete.
func (c *Controller[T]) Reload() {
	c.start()
}

func (c *Controller[T]) State() State[T] {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every fetch started so far has settled.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}

// Close cancels the pending and in-flight fetches. Later changes are
// ignored.
func (c *Controller[T]) Close() {
	c.lock.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.lock.Unlock()

	c.stop()
}

// update mutates the query, mirrors it to the location and schedules a
// debounced fetch.
func (c *Controller[T]) update(mutate func(q *Query)) {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return
	}
	q := c.state.Query.clone()
	mutate(&q)
	c.state.Query = q
	c.loc.Replace(q.Values())

	c.stopTimerLocked()
	timerSeq := c.timerSeq
	c.timer = c.opts.afterFunc(c.opts.debounce, func() {
		c.fire(timerSeq)
	})
	state, onChange := c.snapshotLocked(), c.onChange
	c.lock.Unlock()

	if onChange != nil {
		onChange(state)
	}
}

// fire runs a debounced fetch unless its timer has been replaced or
// stopped since it was armed.
func (c *Controller[T]) fire(timerSeq uint64) {
	c.lock.Lock()
	if c.closed || timerSeq != c.timerSeq {
		c.lock.Unlock()
		return
	}
	c.launchLocked()
}

// start issues a fetch for the current query, cancelling the previous one.
func (c *Controller[T]) start() {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return
	}
	c.launchLocked()
}

// launchLocked starts the fetch and releases the lock.
func (c *Controller[T]) launchLocked() {
	c.stopTimerLocked()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	c.seq++
	seq := c.seq
	query := c.state.Query.Values()
	c.state.Loading = true
	c.state.Error = ""
	state, onChange := c.snapshotLocked(), c.onChange
	c.wg.Add(1)
	c.lock.Unlock()

	if onChange != nil {
		onChange(state)
	}
	go c.run(ctx, seq, query)
}

func (c *Controller[T]) run(ctx context.Context, seq uint64, query url.Values) {
	defer c.wg.Done()

	page, err := c.fetch(ctx, query)

	c.lock.Lock()
	if seq != c.seq || ctx.Err() != nil || errors.Is(err, context.Canceled) {
		// Superseded or cancelled; never touches state.
		c.lock.Unlock()
		log.Debug().Uint64("seq", seq).Msg("discarding stale list response")
		return
	}
	c.cancel = nil
	c.state.Loading = false
	if err != nil {
		c.state.Error = errors.MessageOr(err, FetchErrorMessage)
	} else {
		c.state.Items = page.Data
		c.state.Meta = page.Meta
		if c.state.Meta.LastPage < 1 {
			c.state.Meta.LastPage = 1
		}
	}
	state, onChange := c.snapshotLocked(), c.onChange
	c.lock.Unlock()

	if err != nil {
		log.Warn().Err(err).Str("query", query.Encode()).Msg("list fetch failed")
	}
	if onChange != nil {
		onChange(state)
	}
}

// stopTimerLocked disarms the debounce timer. A callback already waiting
// on the lock sees the new timerSeq and does nothing.
func (c *Controller[T]) stopTimerLocked() {
	c.timerSeq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller[T]) snapshotLocked() State[T] {
	state := c.state
	state.Query = c.state.Query.clone()
	state.Items = append([]T(nil), c.state.Items...)
	return state
}
