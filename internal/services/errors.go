package services

import "errors"

// Domain outcomes surfaced by the services. Handlers are the single place
// that translates these into HTTP status codes.
var (
	ErrEmailTaken         = errors.New("email address is already in use")
	ErrUsernameTaken      = errors.New("username is already in use")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrEmailNotConfirmed  = errors.New("email address is not confirmed")
	ErrUserNotFound       = errors.New("user not found")
)
