package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/jrsteele09/go-dashboard/users"
)

// LoginHandler exchanges email and password for an access token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauthmodel.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeLoginError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			writeLoginError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		user, err := s.repos.Users.GetByEmail(strings.TrimSpace(req.Email))
		if err != nil || !user.CheckPassword(req.Password) {
			writeLoginError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		s.issueToken(w, r, user)
	}
}

// RegisterHandler creates a user and logs them straight in.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauthmodel.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		email := strings.TrimSpace(req.Email)
		if _, err := s.repos.Users.GetByEmail(email); err == nil {
			writeMessage(w, http.StatusUnprocessableEntity, "The email has already been taken.")
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			writeMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}

		user := &users.User{Name: strings.TrimSpace(req.Name), Email: email, PasswordHash: hash}
		if err := s.repos.Users.Upsert(user); err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			writeMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}

		s.issueToken(w, r, user)
	}
}

// MeHandler returns the profile of the token's owner.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
			return
		}

		user, err := s.repos.Users.GetByID(userID)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// RefreshTokenHandler issues a new token and revokes the one presented.
func (s *Server) RefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
			return
		}

		user, err := s.repos.Users.GetByID(claims.UserID)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, messageUnauthenticated)
			return
		}

		if err := s.issuer.Revoke(claims); err != nil && !errors.Is(err, errors.ErrInvalidToken) {
			logError(r.Method, r.URL.Path, err.Error())
		}
		s.issueToken(w, r, user)
	}
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, user *users.User) {
	resp, err := s.issuer.Issue(user)
	if err != nil {
		logError(r.Method, r.URL.Path, err.Error())
		writeMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
