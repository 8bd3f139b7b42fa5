package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/rs/zerolog/log"
	xoauth2 "golang.org/x/oauth2"
)

const (
	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"
)

// Session supplies bearer tokens to protected calls and owns the
// refresh-and-retry-once protocol for authorization failures.
type Session interface {
	Do(ctx context.Context, fn func(accessToken string) error) error
}

// Client is the REST API client. Unprotected endpoints are called directly;
// protected endpoints go through the attached Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithSession(session Session) Option {
	return func(c *Client) {
		c.session = session
	}
}

func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// SetSession attaches the session used for protected endpoints. The session
// usually needs the client itself to refresh, hence the setter.
func (c *Client) SetSession(session Session) {
	c.session = session
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do is the uniform request function every endpoint goes through. body and
// out are JSON encoded/decoded when non-nil; an empty accessToken sends no
// Authorization header. Non-2xx responses return *errors.APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, accessToken string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	if accessToken != "" {
		(&xoauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	return parseResponse(resp, out)
}

// authorized runs a protected call through the session.
func (c *Client) authorized(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.session == nil {
		return errors.ErrNotAuthenticated
	}
	return c.session.Do(ctx, func(accessToken string) error {
		return c.Do(ctx, method, path, query, accessToken, body, out)
	})
}

// parseResponse decodes a 2xx body into out, or turns anything else into an
// *errors.APIError carrying the server's message.
func parseResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &errors.APIError{StatusCode: resp.StatusCode}
		var errResp oauthmodel.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err == nil {
			apiErr.Message = errResp.Text()
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
