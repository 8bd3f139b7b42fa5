package resources

// PageMeta is the server-reported pagination state of a list response.
type PageMeta struct {
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	Total       int    `json:"total"`
	From        int    `json:"from"`
	To          int    `json:"to"`
	Path        string `json:"path"`
}

// PageLinks are the navigation URLs that accompany a list response.
type PageLinks struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// Page is the list envelope: {data, links, meta}.
type Page[T any] struct {
	Data  []T       `json:"data"`
	Links PageLinks `json:"links"`
	Meta  PageMeta  `json:"meta"`
}

// Single is the envelope around one record: {data: record}.
type Single[T any] struct {
	Data T `json:"data"`
}
