package callback

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/transport"
	"github.com/bcnelson/flickrkit/internal/validation"
	"github.com/bcnelson/flickrkit/internal/xmlparse"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &domain.APIError{
		Code:    status,
		Message: message,
	})
}

// handleError converts handshake errors to HTTP errors.
func handleError(w http.ResponseWriter, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, verr)
	case domain.IsAPIErrorCode(err, domain.ErrCodeInvalidAPIKey),
		domain.IsAPIErrorCode(err, domain.ErrCodeInvalidSignature),
		domain.IsAPIErrorCode(err, domain.ErrCodeMissingSignature):
		respondError(w, http.StatusServiceUnavailable, "client credentials were rejected")
	// Remote and parse failures come first: a ParseError may wrap ErrInvalidInput.
	case errors.Is(err, domain.ErrRemote),
		errors.Is(err, transport.ErrTransport),
		errors.Is(err, xmlparse.ErrParse):
		respondError(w, http.StatusBadGateway, "remote authentication failed")
	case errors.Is(err, domain.ErrSignatureUnavailable),
		errors.Is(err, domain.ErrAPIKeyMissing):
		respondError(w, http.StatusServiceUnavailable, "client credentials are incomplete")
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid input")
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
