package domain

import "errors"

// Error codes surfaced to API clients. Every component-level failure
// is one of these; the HTTP layer maps codes to status codes.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidRole        = "INVALID_ROLE"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeAlreadyBooked      = "ALREADY_BOOKED"
	CodeInvalidState       = "INVALID_STATE"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Error is a discriminated application error: a stable code, a human
// message and an optional list of structured details (used by
// validation failures to name every violated field).
type Error struct {
	Code    string
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

func E(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func ValidationFailed(details []string) *Error {
	return &Error{Code: CodeValidationError, Message: "validation failed", Details: details}
}

// AsError extracts the application error from err, or wraps an
// unanticipated fault as INTERNAL_ERROR without leaking its text.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return E(CodeInternalError, "internal server error")
}
