package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playtoearn/coinserver/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeMissingAddress = "MISSING_ADDRESS"
	CodeInvalidAddress = "INVALID_ADDRESS"
	CodeNoWallet       = "NO_WALLET"
	CodePlayerUnknown  = "PLAYER_UNKNOWN"
	CodeInternalError  = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrMissingAddress):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingAddress, "No wallet provided"}}
	case errors.Is(err, model.ErrInvalidAddress):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAddress, "Invalid wallet"}}
	case errors.Is(err, model.ErrNoWallet):
		return &httpError{http.StatusNotFound, APIError{CodeNoWallet, "No wallet record for this player"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewPlayerUnknownError creates an error for a player the roster does
// not know
func NewPlayerUnknownError() error {
	return &httpError{http.StatusNotFound, APIError{CodePlayerUnknown, "Player is not connected"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
