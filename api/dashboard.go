package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/jrsteele09/go-dashboard/resources"
)

func (c *Client) Metrics(ctx context.Context) (*resources.DashboardMetrics, error) {
	var metrics resources.DashboardMetrics
	if err := c.authorized(ctx, http.MethodGet, RouteMetrics, nil, nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// Contact submits the public contact form.
func (c *Client) Contact(ctx context.Context, req oauthmodel.ContactRequest) error {
	return c.Do(ctx, http.MethodPost, RouteContactUs, nil, "", req, nil)
}
