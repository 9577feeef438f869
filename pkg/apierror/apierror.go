package apierror

import (
	"fmt"
	"net/http"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
)

// FieldIssue describes one field that failed schema validation.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIError struct {
	Code       string       `json:"-"`
	Message    string       `json:"error"`
	Details    []FieldIssue `json:"details,omitempty"`
	HTTPStatus int          `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s (%d field issues)", e.Code, e.Message, len(e.Details))
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status}
}

func Validation(message string, details []FieldIssue) *APIError {
	return &APIError{Code: CodeValidation, Message: message, Details: details, HTTPStatus: http.StatusBadRequest}
}

func Unauthenticated(message string) *APIError {
	return New(CodeUnauthenticated, message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NotFound(message string) *APIError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Conflict(message string) *APIError {
	return New(CodeConflict, message, http.StatusConflict)
}

func Internal() *APIError {
	return New(CodeInternal, "internal server error", http.StatusInternalServerError)
}
