package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-dashboard/oauth2"
	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/jrsteele09/go-dashboard/users"
)

const (
	RouteLogin        = "/login"
	RouteRegister     = "/register"
	RouteMe           = "/auth/me"
	RouteRefreshToken = "/auth/refresh-token"
	RouteMetrics      = "/dashboard/metrics"
	RouteContactUs    = "/contact-us"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*oauth2.TokenResponse, error) {
	var resp oauth2.TokenResponse
	req := oauthmodel.LoginRequest{Email: email, Password: password}
	if err := c.Do(ctx, http.MethodPost, RouteLogin, nil, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. Servers that log the new user straight in
// return a token; otherwise AccessToken is empty.
func (c *Client) Register(ctx context.Context, req oauthmodel.RegisterRequest) (*oauth2.TokenResponse, error) {
	var resp oauth2.TokenResponse
	if err := c.Do(ctx, http.MethodPost, RouteRegister, nil, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the profile of the user owning accessToken.
func (c *Client) Me(ctx context.Context, accessToken string) (*users.User, error) {
	var user users.User
	if err := c.Do(ctx, http.MethodPost, RouteMe, nil, accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh trades a still-valid access token for a new one.
func (c *Client) Refresh(ctx context.Context, accessToken string) (*oauth2.TokenResponse, error) {
	var resp oauth2.TokenResponse
	if err := c.Do(ctx, http.MethodPost, RouteRefreshToken, nil, accessToken, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
