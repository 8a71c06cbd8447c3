package errors

import (
	"net/http"

	"fitsync/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Participant-related errors
	ErrParticipantNotFound = NewBaseError(
		http.StatusNotFound,
		"PARTICIPANT_NOT_FOUND",
		"Participant not found",
		"",
	)

	ErrParticipantAlreadyExists = NewBaseError(
		http.StatusConflict,
		"PARTICIPANT_ALREADY_EXISTS",
		"A participant with this ID already exists",
		"",
	)

	ErrParticipantCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"PARTICIPANT_CREATION_FAILED",
		"Failed to create participant",
		"",
	)

	// Handshake-level failures. Each of these clears the now-invalid
	// pending handshake; the caller must restart authorization.
	ErrStateMismatch = NewBaseError(
		http.StatusBadRequest,
		"STATE_MISMATCH",
		"OAuth state validation failed, please restart authorization",
		"",
	)

	ErrMissingCode = NewBaseError(
		http.StatusBadRequest,
		"MISSING_CODE",
		"No authorization code received from Fitbit",
		"",
	)

	ErrProviderDenied = NewBaseError(
		http.StatusBadRequest,
		"PROVIDER_DENIED",
		"Fitbit rejected the authorization request",
		"",
	)

	ErrTokenExchangeFailed = NewBaseError(
		http.StatusBadGateway,
		"TOKEN_EXCHANGE_FAILED",
		"Failed to exchange authorization code for tokens",
		"",
	)

	// Credential-related errors
	ErrNoCredential = NewBaseError(
		http.StatusConflict,
		"NO_CREDENTIAL",
		"No Fitbit account connected, connect an account first",
		"",
	)

	ErrCredentialNotFound = NewBaseError(
		http.StatusNotFound,
		"CREDENTIAL_NOT_FOUND",
		"No stored Fitbit credential for this participant",
		"",
	)

	// Sync-related errors
	ErrInvalidDateRange = NewBaseError(
		http.StatusBadRequest,
		"INVALID_DATE_RANGE",
		"Start date must not be after end date",
		"",
	)

	// Export-related errors
	ErrUnsupportedFormat = NewBaseError(
		http.StatusBadRequest,
		"UNSUPPORTED_FORMAT",
		"Unsupported export format",
		"",
	)

	ErrExportFailed = NewBaseError(
		http.StatusInternalServerError,
		"EXPORT_FAILED",
		"Failed to generate export file",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
