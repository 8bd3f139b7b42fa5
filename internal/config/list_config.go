package config

import "time"

const (
	listDebounceVar   = "LIST_DEBOUNCE"
	defaultPerPageVar = "DEFAULT_PER_PAGE"
)

type List struct {
	src source
}

var _ ListConfig = List{}

func (l List) GetListDebounce() time.Duration {
	return l.src.duration(listDebounceVar, 300*time.Millisecond)
}

func (l List) GetDefaultPerPage() int {
	perPage := l.src.integer(defaultPerPageVar, 10)
	if perPage < 1 {
		return 10
	}
	return perPage
}
