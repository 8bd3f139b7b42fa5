package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-dashboard/resources"
)

// Resource is the typed CRUD surface of one collection endpoint.
type Resource[T any] struct {
	client *Client
	kind   resources.Kind
}

func NewResource[T any](client *Client, kind resources.Kind) *Resource[T] {
	return &Resource[T]{client: client, kind: kind}
}

func (r *Resource[T]) Kind() resources.Kind {
	return r.kind
}

// List fetches one page. Its signature matches listview.Fetcher.
func (r *Resource[T]) List(ctx context.Context, query url.Values) (*resources.Page[T], error) {
	var page resources.Page[T]
	if err := r.client.authorized(ctx, http.MethodGet, r.kind.Path, query, nil, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return &page, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var single resources.Single[T]
	if err := r.client.authorized(ctx, http.MethodGet, r.itemPath(id), nil, nil, &single); err != nil {
		return nil, err
	}
	return &single.Data, nil
}

// Create posts a new record and returns the stored version when the server
// echoes one back, nil otherwise.
func (r *Resource[T]) Create(ctx context.Context, record *T) (*T, error) {
	var single *resources.Single[T]
	if err := r.client.authorized(ctx, http.MethodPost, r.kind.Path, nil, record, &single); err != nil {
		return nil, err
	}
	if single == nil {
		return nil, nil
	}
	return &single.Data, nil
}

func (r *Resource[T]) Update(ctx context.Context, id int64, record *T) (*T, error) {
	var single *resources.Single[T]
	if err := r.client.authorized(ctx, http.MethodPut, r.itemPath(id), nil, record, &single); err != nil {
		return nil, err
	}
	if single == nil {
		return nil, nil
	}
	return &single.Data, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.authorized(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

func (r *Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.kind.Path, id)
}
