package domain

import (
	"fmt"
	"net/http"
)

// ErrorCode is the stable identifier of an error category across the API
// boundary. The taxonomy is flat: codes are compared, never type-switched.
type ErrorCode string

const (
	CodeMissingToken           ErrorCode = "MISSING_TOKEN"
	CodeInvalidToken           ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired           ErrorCode = "TOKEN_EXPIRED"
	CodeUserNotFound           ErrorCode = "USER_NOT_FOUND"
	CodeUserNotAuthenticated   ErrorCode = "USER_NOT_AUTHENTICATED"
	CodeInsufficientPermission ErrorCode = "INSUFFICIENT_PERMISSION"
	CodeProjectIDMissing       ErrorCode = "PROJECT_ID_MISSING"
	CodeProjectAccessDenied    ErrorCode = "PROJECT_ACCESS_DENIED"
	CodeInvalidCredentials     ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidCurrentPassword ErrorCode = "INVALID_CURRENT_PASSWORD"
	CodeEmailExists            ErrorCode = "EMAIL_EXISTS"
	CodeUsernameExists         ErrorCode = "USERNAME_EXISTS"
	CodeValidation             ErrorCode = "VALIDATION_ERROR"
	CodeDuplicate              ErrorCode = "DUPLICATE_ERROR"
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeMethodNotAllowed       ErrorCode = "METHOD_NOT_ALLOWED"
	CodeForeignKey             ErrorCode = "FOREIGN_KEY_ERROR"
	CodeRelation               ErrorCode = "RELATION_ERROR"
	CodeDatabase               ErrorCode = "DATABASE_ERROR"
	CodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// Error is an error carrying an explicit taxonomy code, HTTP status and a
// message that is safe to show to clients. Cause holds the internal detail
// and is never rendered in production.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Cause   error
}

// NewError creates an Error without a cause.
func NewError(code ErrorCode, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code and status, so sentinels keep
// matching after WithCause or WithMessage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Status == t.Status
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithMessage returns a copy of e with a different client-facing message.
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// Authentication failures.
var (
	ErrMissingToken = NewError(CodeMissingToken, http.StatusUnauthorized, "authentication token not provided")
	ErrInvalidToken = NewError(CodeInvalidToken, http.StatusUnauthorized, "invalid authentication token")
	ErrTokenExpired = NewError(CodeTokenExpired, http.StatusUnauthorized, "authentication token has expired")
	// ErrSubjectNotFound is raised while resolving a token whose subject was
	// deleted or deactivated after issuance.
	ErrSubjectNotFound = NewError(CodeUserNotFound, http.StatusUnauthorized, "user does not exist or has been deactivated")
)

// Authorization failures.
var (
	ErrNotAuthenticated       = NewError(CodeUserNotAuthenticated, http.StatusUnauthorized, "user not authenticated")
	ErrInsufficientPermission = NewError(CodeInsufficientPermission, http.StatusForbidden, "insufficient permission")
	ErrProjectIDMissing       = NewError(CodeProjectIDMissing, http.StatusBadRequest, "project id not provided")
	ErrProjectAccessDenied    = NewError(CodeProjectAccessDenied, http.StatusForbidden, "no access to this project")
)

// Credential issuance failures.
var (
	// ErrInvalidCredentials deliberately covers unknown identifiers, wrong
	// passwords and inactive accounts alike.
	ErrInvalidCredentials     = NewError(CodeInvalidCredentials, http.StatusUnauthorized, "invalid username/email or password")
	ErrInvalidCurrentPassword = NewError(CodeInvalidCurrentPassword, http.StatusBadRequest, "current password is incorrect")
	ErrEmailExists            = NewError(CodeEmailExists, http.StatusConflict, "email is already registered")
	ErrUsernameExists         = NewError(CodeUsernameExists, http.StatusConflict, "username is already taken")
	ErrUserNotFound           = NewError(CodeUserNotFound, http.StatusNotFound, "user not found")
)

// Generic categories used by the error normalizer.
var (
	ErrValidation       = NewError(CodeValidation, http.StatusBadRequest, "request validation failed")
	ErrDuplicate        = NewError(CodeDuplicate, http.StatusConflict, "duplicate data violates a uniqueness constraint")
	ErrNotFound         = NewError(CodeNotFound, http.StatusNotFound, "record not found")
	ErrMethodNotAllowed = NewError(CodeMethodNotAllowed, http.StatusMethodNotAllowed, "method not allowed")
	ErrForeignKey       = NewError(CodeForeignKey, http.StatusBadRequest, "foreign key constraint failed")
	ErrRelation         = NewError(CodeRelation, http.StatusBadRequest, "data relation conflict")
	ErrDatabase         = NewError(CodeDatabase, http.StatusInternalServerError, "database operation failed")
	ErrInternal         = NewError(CodeInternal, http.StatusInternalServerError, "internal server error")
)

// ValidationError reports malformed input at the request boundary. Message is
// safe to return to clients.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }
