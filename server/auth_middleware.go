package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyClaims stores parsed token claims
	ContextKeyClaims ContextKey = "claims"
)

const messageUnauthenticated = "Unauthenticated."

// RequireAuth is middleware that validates a Bearer access token
// Used for API routes that expect a token in the Authorization header
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			// Extract Bearer token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
				return
			}

			claims, err := s.issuer.Verify(parts[1])
			if err != nil {
				if !errors.Is(err, errors.ErrTokenExpired) {
					logError(r.Method, r.URL.Path, err.Error())
				}
				writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(int64)
	return id, ok
}

func claimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims, ok
}
