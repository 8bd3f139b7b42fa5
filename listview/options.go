package listview

import (
	"time"

	"github.com/jrsteele09/go-dashboard/internal/clock"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultPerPage  = 10
)

type Option func(*options)

type options struct {
	debounce       time.Duration
	afterFunc      clock.AfterFunc
	defaultPerPage int
}

func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

func WithAfterFunc(afterFunc clock.AfterFunc) Option {
	return func(o *options) {
		o.afterFunc = afterFunc
	}
}

func WithDefaultPerPage(perPage int) Option {
	return func(o *options) {
		o.defaultPerPage = perPage
	}
}
