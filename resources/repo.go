package resources

// ListParams are the query parameters accepted by a collection endpoint.
type ListParams struct {
	Page          int
	PerPage       int
	SortBy        string
	SortDirection string // "asc" or "desc"
	Search        string
	Filters       map[string]string
}

// Repo stores records of one resource type.
type Repo[R Record] interface {
	List(params ListParams) (items []R, total int, err error)
	All() []R
	Get(id int64) (R, error)
	Create(record R) error
	Update(id int64, record R) error
	Delete(id int64) error
}
