package listview

import (
	"net/url"
	"sync"
)

// Location is where the list view mirrors its query state, the address bar
// in a browser. Replace rewrites the current entry without adding history.
type Location interface {
	Query() url.Values
	Replace(query url.Values)
}

// MemoryLocation is an in-process Location with a navigation history.
type MemoryLocation struct {
	lock    sync.Mutex
	path    string
	history []url.Values
}

func NewMemoryLocation(rawURL string) (*MemoryLocation, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return &MemoryLocation{path: u.Path, history: []url.Values{u.Query()}}, nil
}

func (l *MemoryLocation) Query() url.Values {
	l.lock.Lock()
	defer l.lock.Unlock()
	return cloneValues(l.history[len(l.history)-1])
}

func (l *MemoryLocation) Replace(query url.Values) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.history[len(l.history)-1] = cloneValues(query)
}

// Push navigates to a new entry.
func (l *MemoryLocation) Push(query url.Values) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.history = append(l.history, cloneValues(query))
}

// HistoryLength is the number of history entries.
func (l *MemoryLocation) HistoryLength() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.history)
}

func (l *MemoryLocation) String() string {
	query := l.Query()
	if len(query) == 0 {
		return l.path
	}
	return l.path + "?" + query.Encode()
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
