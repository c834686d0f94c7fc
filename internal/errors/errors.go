// Package errors defines the domain error type shared by the trigger layer,
// the repositories and the services.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes.
const (
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeRowLevelSecurity  = "ROW_LEVEL_SECURITY"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeDataAccess        = "DATA_ACCESS"
	CodeImmutable         = "IMMUTABLE"
	CodeInvalidCredential = "INVALID_CREDENTIALS"
	CodeUnauthenticated   = "UNAUTHENTICATED"
)

// DomainError is an error with a stable machine readable code.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches on the error code so wrapped copies compare equal to the sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy of e carrying err as its cause.
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Err: err}
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(msg string) *DomainError {
	return &DomainError{Code: e.Code, Message: msg, Err: e.Err}
}

var (
	ErrInvalidTransactionAmount = &DomainError{
		Code:    CodeInvalidAmount,
		Message: "transaction amount must be greater than 0 and at most 100000000",
	}
	ErrInvalidRequest = &DomainError{
		Code:    CodeInvalidRequest,
		Message: "invalid request",
	}
	ErrRowLevelSecurity = &DomainError{
		Code:    CodeRowLevelSecurity,
		Message: "row violates row-level security policy",
	}
	ErrNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "record not found",
	}
	ErrConflict = &DomainError{
		Code:    CodeConflict,
		Message: "record already exists",
	}
	ErrDataAccess = &DomainError{
		Code:    CodeDataAccess,
		Message: "data access failed",
	}
	ErrAuditLogImmutable = &DomainError{
		Code:    CodeImmutable,
		Message: "audit log entries cannot be modified",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    CodeInvalidCredential,
		Message: "invalid credentials",
	}
	ErrUnauthenticated = &DomainError{
		Code:    CodeUnauthenticated,
		Message: "caller identity is required",
	}
)

// CodeOf returns the domain code carried by err, or "" when err is not a DomainError.
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ""
}
