// Package apierrors defines the caller-visible error taxonomy of the API.
// Every failure that crosses the HTTP boundary is an *APIError; anything else
// is reported as an internal error.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidationFailed   Code = "validation_failed"
	CodeInvalidUserID      Code = "invalid_user_id"
	CodeMissingToken       Code = "missing_token"
	CodeMalformedToken     Code = "malformed_token"
	CodeExpiredToken       Code = "expired_token"
	CodeRevokedToken       Code = "revoked_token"
	CodeUnknownSubject     Code = "unknown_subject"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnknownUser        Code = "unknown_user"
	CodeDuplicateEmail     Code = "duplicate_email"
	CodeUnparsableToken    Code = "unparsable_token"
	CodeUserNotFound       Code = "user_not_found"
	CodeInternal           Code = "internal_error"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is an error with an HTTP status and a stable code.
type APIError struct {
	HTTPStatus int
	Code       Code
	Message    string
	Fields     []FieldError
	Cause      error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Cause }

// As returns the *APIError in err's chain, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newError(status int, code Code, msg string) *APIError {
	return &APIError{HTTPStatus: status, Code: code, Message: msg}
}

// NewErrMissingFields reports absent required fields (400).
func NewErrMissingFields(fields []FieldError) *APIError {
	e := newError(http.StatusBadRequest, CodeValidationFailed, "all fields are required")
	e.Fields = fields
	return e
}

// NewErrMalformedBody reports a body that is not valid JSON (400).
func NewErrMalformedBody(cause error) *APIError {
	e := newError(http.StatusBadRequest, CodeValidationFailed, "request body must be valid JSON")
	e.Cause = cause
	return e
}

// NewErrInvalidFields reports present but badly formed fields (422).
func NewErrInvalidFields(fields []FieldError) *APIError {
	msg := "request validation failed"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	e := newError(http.StatusUnprocessableEntity, CodeValidationFailed, msg)
	e.Fields = fields
	return e
}

func NewErrInvalidUserID(id string) *APIError {
	return newError(http.StatusBadRequest, CodeInvalidUserID, fmt.Sprintf("invalid user id %q", id))
}

func NewErrMissingAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, CodeMissingToken, "authorization token is missing")
}

func NewErrMalformedAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, CodeMalformedToken, "authorization token is invalid")
}

func NewErrExpiredAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, CodeExpiredToken, "authorization token has expired")
}

func NewErrRevokedAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, CodeRevokedToken, "authorization token was revoked, sign in again")
}

func NewErrUnknownSubject() *APIError {
	return newError(http.StatusUnauthorized, CodeUnknownSubject, "token subject does not exist")
}

func NewErrInvalidCredentials() *APIError {
	return newError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid credentials")
}

func NewErrUnknownUser(email string) *APIError {
	e := newError(http.StatusUnauthorized, CodeUnknownUser, "invalid credentials")
	e.Cause = fmt.Errorf("no user with email %q", email)
	return e
}

func NewErrEmailIsTaken(email string) *APIError {
	return newError(http.StatusUnprocessableEntity, CodeDuplicateEmail, fmt.Sprintf("email %s is already registered", email))
}

func NewErrUnparsableToken() *APIError {
	return newError(http.StatusBadRequest, CodeUnparsableToken, "token cannot be used for logout")
}

func NewErrMissingLogoutToken() *APIError {
	return newError(http.StatusBadRequest, CodeMissingToken, "token was not provided for logout")
}

func NewErrUserNotFound(id string) *APIError {
	return newError(http.StatusNotFound, CodeUserNotFound, fmt.Sprintf("user %s not found", id))
}

// NewErrInternalServerError hides cause from callers; it is kept for logs.
func NewErrInternalServerError(cause error) *APIError {
	e := newError(http.StatusInternalServerError, CodeInternal, "internal server error")
	e.Cause = cause
	return e
}
