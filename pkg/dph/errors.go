package dph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorTarget names the request field an error refers to.
type ErrorTarget struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// APIError is one entry of a service error response.
type APIError struct {
	Code     string       `json:"code"                yaml:"code"`
	Message  string       `json:"message"             yaml:"message"`
	MoreInfo string       `json:"more_info,omitempty" yaml:"more_info,omitempty"`
	Target   *ErrorTarget `json:"target,omitempty"    yaml:"target,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ResponseError represents the error response from the API.
type ResponseError struct {
	Errors     []APIError `json:"errors"`
	Trace      string     `json:"trace,omitempty"`
	StatusCode int        `json:"status_code,omitempty"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	var msg string

	switch len(e.Errors) {
	case 0:
		msg = "unknown error"
		if e.StatusCode != 0 {
			msg = fmt.Sprintf("unknown error (status %d)", e.StatusCode)
		}
	case 1:
		msg = e.Errors[0].Error()
	default:
		parts := make([]string, 0, len(e.Errors))
		for i := range e.Errors {
			parts = append(parts, e.Errors[i].Error())
		}

		msg = "multiple errors: " + strings.Join(parts, "; ")
	}

	if e.Trace != "" {
		msg += " (trace: " + e.Trace + ")"
	}

	return msg
}

// FirstError returns the first error or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// Common error codes returned by the service.
const (
	ErrorCodeNotFound         = "not_found"
	ErrorCodeMissingAssetID   = "missing_asset_id"
	ErrorCodeNotAuthorized    = "not_authorized"
	ErrorCodeNotAuthenticated = "not_authenticated"
	ErrorCodeAlreadyExists    = "already_exists"
	ErrorCodeConflict         = "conflict"
)

// Common static errors that can be wrapped with context.
var (
	ErrMissingParameter         = errors.New("required parameter is missing")
	ErrConfigRequired           = errors.New("config is required")
	ErrServiceURLRequired       = errors.New("service URL is required")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrCircuitBreakerOpen       = errors.New("circuit breaker is open")
)

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasStatusOrCode(err, http.StatusNotFound, ErrorCodeNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return hasStatusOrCode(err, http.StatusUnauthorized, ErrorCodeNotAuthenticated)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return hasStatusOrCode(err, http.StatusForbidden, ErrorCodeNotAuthorized)
}

// IsConflict checks if the error reports a conflicting or duplicate resource.
func IsConflict(err error) bool {
	return hasStatusOrCode(err, http.StatusConflict, ErrorCodeConflict) ||
		hasStatusOrCode(err, http.StatusConflict, ErrorCodeAlreadyExists)
}

func hasStatusOrCode(err error, status int, code string) bool {
	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		if errResp.StatusCode == status {
			return true
		}

		first := errResp.FirstError()

		return first != nil && first.Code == code
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}

	return false
}

// ParseResponseError parses an error response from JSON.
func ParseResponseError(data []byte) (*ResponseError, error) {
	var errResp ResponseError

	err := json.Unmarshal(data, &errResp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
	}

	return &errResp, nil
}
