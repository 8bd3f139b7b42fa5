package oauth2

import (
	"time"

	xoauth2 "golang.org/x/oauth2"
)

// TokenResponse is the body returned by /login, /register and
// /auth/refresh-token.
type TokenResponse struct {
	// AccessToken is the bearer credential.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// TokenType is "bearer" when the server sends it.
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token, relative to
	// the moment the response was received.
	ExpiresIn int `json:"expires_in"`
}

// Token converts the response into an x/oauth2 token whose Expiry is
// issuedAt + ExpiresIn. A zero ExpiresIn leaves Expiry unset.
func (r TokenResponse) Token(issuedAt time.Time) *xoauth2.Token {
	t := &xoauth2.Token{
		AccessToken: r.AccessToken,
		TokenType:   "Bearer",
	}
	if r.ExpiresIn > 0 {
		t.Expiry = issuedAt.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return t
}
