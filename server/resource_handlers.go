package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/resources"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// resourceHandler serves the CRUD endpoints of one resource kind.
type resourceHandler[R resources.Record] struct {
	kind      resources.Kind
	repo      resources.Repo[R]
	newRecord func() R
	validate  func(R) error
	// present returns the representation sent to clients, e.g. with
	// related records embedded. nil sends records unchanged.
	present func(R) R
}

type single[R any] struct {
	Data R `json:"data"`
}

func (h *resourceHandler[R]) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		params := resources.ListParams{
			Page:          queryInt(query, "page", 1),
			PerPage:       queryInt(query, "per_page", defaultPerPage),
			SortBy:        query.Get("sort_by"),
			SortDirection: query.Get("sort_direction"),
			Search:        query.Get("search"),
			Filters:       map[string]string{},
		}
		if params.PerPage > maxPerPage {
			params.PerPage = maxPerPage
		}
		if params.SortBy != "" && !h.kind.IsSortable(params.SortBy) {
			writeMessage(w, http.StatusUnprocessableEntity, fmt.Sprintf("The selected sort by %q is invalid.", params.SortBy))
			return
		}
		if params.SortDirection != "" && params.SortDirection != "asc" && params.SortDirection != "desc" {
			writeMessage(w, http.StatusUnprocessableEntity, "The sort direction must be asc or desc.")
			return
		}
		for _, field := range h.kind.Filters {
			if v := query.Get(field); v != "" {
				params.Filters[field] = v
			}
		}

		items, total, err := h.repo.List(params)
		if err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			writeMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}

		page := resources.Page[R]{Data: make([]R, 0, len(items))}
		for _, item := range items {
			page.Data = append(page.Data, h.show(item))
		}
		page.Meta = pageMeta(params, total, len(items), baseURL(r)+h.kind.Path)
		page.Links = pageLinks(page.Meta, query)
		writeJSON(w, http.StatusOK, page)
	}
}

func (h *resourceHandler[R]) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, ok := h.lookup(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, single[R]{Data: h.show(record)})
	}
}

func (h *resourceHandler[R]) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record := h.newRecord()
		if err := decodeJSON(r, record); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := h.validate(record); err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := h.repo.Create(record); err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			writeMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}
		writeJSON(w, http.StatusCreated, single[R]{Data: h.show(record)})
	}
}

func (h *resourceHandler[R]) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := h.lookup(w, r)
		if !ok {
			return
		}

		record := h.newRecord()
		if err := decodeJSON(r, record); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := h.validate(record); err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := h.repo.Update(existing.GetID(), record); err != nil {
			h.writeRepoError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, single[R]{Data: h.show(record)})
	}
}

func (h *resourceHandler[R]) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, ok := h.lookup(w, r)
		if !ok {
			return
		}
		if err := h.repo.Delete(record.GetID()); err != nil {
			h.writeRepoError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// lookup loads the record named by the {id} path value, writing a 404 when
// there is none.
func (h *resourceHandler[R]) lookup(w http.ResponseWriter, r *http.Request) (R, bool) {
	var zero R
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, h.notFoundMessage(r.PathValue("id")))
		return zero, false
	}

	record, err := h.repo.Get(id)
	if err != nil {
		h.writeRepoError(w, r, err)
		return zero, false
	}
	return record, true
}

func (h *resourceHandler[R]) writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errors.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, h.notFoundMessage(r.PathValue("id")))
		return
	}
	logError(r.Method, r.URL.Path, err.Error())
	writeMessage(w, http.StatusInternalServerError, "Server Error")
}

func (h *resourceHandler[R]) notFoundMessage(id string) string {
	return fmt.Sprintf("No query results for %s %s.", h.kind.Name, id)
}

func (h *resourceHandler[R]) show(record R) R {
	if h.present == nil {
		return record
	}
	return h.present(record)
}

func pageMeta(params resources.ListParams, total, count int, path string) resources.PageMeta {
	meta := resources.PageMeta{
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
		Total:       total,
		LastPage:    (total + params.PerPage - 1) / params.PerPage,
		Path:        path,
	}
	if meta.LastPage < 1 {
		meta.LastPage = 1
	}
	if count > 0 {
		meta.From = (params.Page-1)*params.PerPage + 1
		meta.To = meta.From + count - 1
	}
	return meta
}

func pageLinks(meta resources.PageMeta, query url.Values) resources.PageLinks {
	link := func(page int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		return meta.Path + "?" + q.Encode()
	}

	links := resources.PageLinks{First: link(1), Last: link(meta.LastPage)}
	if meta.CurrentPage > 1 {
		links.Prev = link(meta.CurrentPage - 1)
	}
	if meta.CurrentPage < meta.LastPage {
		links.Next = link(meta.CurrentPage + 1)
	}
	return links
}

func baseURL(r *http.Request) string {
	return getScheme(r) + "://" + r.Host
}

func queryInt(query url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(query.Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
