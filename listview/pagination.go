package listview

// Pagination is what the page controls need: page links plus whether the
// previous and next buttons are enabled.
type Pagination struct {
	CurrentPage int
	LastPage    int
	Total       int
	From        int
	To          int
	Pages       []int
	HasPrev     bool
	HasNext     bool
}

// Pagination derives page controls from the current query and the last
// page metadata. An empty result still has one page.
func (c *Controller[T]) Pagination() Pagination {
	c.lock.Lock()
	defer c.lock.Unlock()

	meta := c.state.Meta
	p := Pagination{
		CurrentPage: c.state.Query.Page,
		LastPage:    meta.LastPage,
		Total:       meta.Total,
		From:        meta.From,
		To:          meta.To,
	}
	if p.LastPage < 1 {
		p.LastPage = 1
	}
	p.Pages = make([]int, p.LastPage)
	for i := range p.Pages {
		p.Pages[i] = i + 1
	}
	p.HasPrev = p.CurrentPage > 1
	p.HasNext = p.CurrentPage < p.LastPage
	return p
}
