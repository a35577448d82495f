// Package errors defines the typed failures surfaced by the vendra client.
package errors

import (
	"fmt"
)

// Error types
const (
	// ErrInvalidAddress is returned when a server address cannot be parsed
	ErrInvalidAddress = "invalid_address"

	// ErrDatabaseRequired is returned when no target database could be resolved
	ErrDatabaseRequired = "database_required"

	// ErrAuthenticationFailed is returned when the server rejects the credentials
	ErrAuthenticationFailed = "authentication_failed"

	// ErrNotAuthenticated is returned when an operation requires an active session
	ErrNotAuthenticated = "not_authenticated"

	// ErrRemote is returned when the server reports a JSON-RPC error
	ErrRemote = "remote"

	// ErrEmptyResponse is returned when a response carries neither result nor error
	ErrEmptyResponse = "empty_response"

	// ErrInvalidArgument is returned when an invalid argument is provided
	ErrInvalidArgument = "invalid_argument"
)

// Error represents an error in the application
type Error struct {
	// Type is the error type
	Type string

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error
func NewError(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidAddressError creates a new invalid address error
func NewInvalidAddressError(message string, cause error) *Error {
	return NewError(ErrInvalidAddress, message, cause)
}

// NewDatabaseRequiredError creates a new database required error
func NewDatabaseRequiredError(message string, cause error) *Error {
	return NewError(ErrDatabaseRequired, message, cause)
}

// NewAuthenticationFailedError creates a new authentication failed error
func NewAuthenticationFailedError(message string, cause error) *Error {
	return NewError(ErrAuthenticationFailed, message, cause)
}

// NewNotAuthenticatedError creates a new not authenticated error
func NewNotAuthenticatedError(message string, cause error) *Error {
	return NewError(ErrNotAuthenticated, message, cause)
}

// NewRemoteError creates a new remote error
func NewRemoteError(message string, cause error) *Error {
	return NewError(ErrRemote, message, cause)
}

// NewEmptyResponseError creates a new empty response error
func NewEmptyResponseError(message string, cause error) *Error {
	return NewError(ErrEmptyResponse, message, cause)
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string, cause error) *Error {
	return NewError(ErrInvalidArgument, message, cause)
}

func is(err error, errorType string) bool {
	e, ok := err.(*Error)
	return ok && e.Type == errorType
}

// IsInvalidAddress checks if the error is an invalid address error
func IsInvalidAddress(err error) bool {
	return is(err, ErrInvalidAddress)
}

// IsDatabaseRequired checks if the error is a database required error
func IsDatabaseRequired(err error) bool {
	return is(err, ErrDatabaseRequired)
}

// IsAuthenticationFailed checks if the error is an authentication failed error
func IsAuthenticationFailed(err error) bool {
	return is(err, ErrAuthenticationFailed)
}

// IsNotAuthenticated checks if the error is a not authenticated error
func IsNotAuthenticated(err error) bool {
	return is(err, ErrNotAuthenticated)
}

// IsRemote checks if the error is a remote error
func IsRemote(err error) bool {
	return is(err, ErrRemote)
}

// IsEmptyResponse checks if the error is an empty response error
func IsEmptyResponse(err error) bool {
	return is(err, ErrEmptyResponse)
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return is(err, ErrInvalidArgument)
}
