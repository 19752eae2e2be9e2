package domain

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application.
var (
	ErrSignatureUnavailable = errors.New("signed call requires a shared secret")
	ErrAPIKeyMissing        = errors.New("api key is not configured")
	ErrNotAuthenticated     = errors.New("no auth token on client")
	ErrRemote               = errors.New("remote api returned an error")
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalidInput         = errors.New("invalid input")
)

// Error codes returned by the remote service that callers commonly branch on.
const (
	ErrCodeInvalidFrob      = 108
	ErrCodeInvalidSignature = 96
	ErrCodeMissingSignature = 97
	ErrCodeInvalidToken     = 98
	ErrCodeInvalidAPIKey    = 100
)

// APIError is a <err code msg/> failure reported inside a stat="fail" envelope.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

// Is reports whether target is ErrRemote.
func (e *APIError) Is(target error) bool {
	return target == ErrRemote
}

// IsAPIErrorCode reports whether err is an APIError with the given code.
func IsAPIErrorCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
