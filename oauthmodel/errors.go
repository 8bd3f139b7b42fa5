package oauthmodel

import "errors"

var (
	ErrEmailRequired        = errors.New("The email field is required.")
	ErrPasswordRequired     = errors.New("The password field is required.")
	ErrNameRequired         = errors.New("The name field is required.")
	ErrPasswordConfirmation = errors.New("The password field confirmation does not match.")
	ErrSubjectRequired      = errors.New("The subject field is required.")
	ErrMessageRequired      = errors.New("The message field is required.")
)
