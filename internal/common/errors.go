package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// AppError codes
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeBlockedInput = "BLOCKED_INPUT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeRemoteCall   = "REMOTE_CALL"
	CodeValidation   = "VALIDATION"
	CodeInternal     = "INTERNAL"
	CodeDatabase     = "DATABASE"
)

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrBlockedInput = errors.New("input rejected by sanitizer")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrRemoteCall   = errors.New("remote model call failed")
	ErrValidation   = errors.New("validation failed")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
)

var codeSentinels = map[string]error{
	CodeNotFound:     ErrNotFound,
	CodeInvalidInput: ErrInvalidInput,
	CodeBlockedInput: ErrBlockedInput,
	CodeRateLimited:  ErrRateLimited,
	CodeRemoteCall:   ErrRemoteCall,
	CodeValidation:   ErrValidation,
	CodeInternal:     ErrInternal,
	CodeDatabase:     ErrDatabase,
}

// Is lets errors.Is match an AppError against the sentinel for its code.
func (e *AppError) Is(target error) bool {
	return codeSentinels[e.Code] == target
}

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus maps an error to the status code the JSON API should return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBlockedInput), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
