package oauthmodel

import "strings"

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return ErrEmailRequired
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrEmailRequired
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	if r.Password != r.PasswordConfirmation {
		return ErrPasswordConfirmation
	}
	return nil
}

// ContactRequest is the body of POST /contact-us.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r ContactRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(r.Email) == "":
		return ErrEmailRequired
	case strings.TrimSpace(r.Subject) == "":
		return ErrSubjectRequired
	case strings.TrimSpace(r.Message) == "":
		return ErrMessageRequired
	}
	return nil
}

// ErrorResponse is the error envelope the API sends with 4xx/5xx responses.
// Login failures use Error, everything else uses Message.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns whichever of Message or Error is set.
func (e ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
