package errors

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Status     int    `json:"status"`
	RetryAfter int    `json:"retry_after_seconds,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
}

// Common error codes
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeConflict      = "CONFLICT"
	CodeInternalError = "INTERNAL_ERROR"
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnprocessable = "UNPROCESSABLE_ENTITY"
)

// Engine error codes
const (
	CodeAdmissionDenied     = "ADMISSION_DENIED"
	CodeInvalidTopic        = "INVALID_TOPIC"
	CodeGenerationExhausted = "GENERATION_EXHAUSTED"
	CodePersistenceFailure  = "PERSISTENCE_FAILURE"
)

// GenerationFailureKind classifies a single failed generation attempt.
// These drive the retry loop and are only surfaced once the attempt
// budget is exhausted.
type GenerationFailureKind string

const (
	MalformedResponse  GenerationFailureKind = "malformed_response"
	PolicyViolation    GenerationFailureKind = "policy_violation"
	BackendUnavailable GenerationFailureKind = "backend_unavailable"
	BackendTimeout     GenerationFailureKind = "timeout"
)

// GenerationFailure is an internal, retryable failure of one attempt.
type GenerationFailure struct {
	Kind GenerationFailureKind
	Err  error
}

func (e *GenerationFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failure (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("generation failure (%s)", e.Kind)
}

func (e *GenerationFailure) Unwrap() error { return e.Err }

// NewGenerationFailure wraps an attempt error with its classification.
func NewGenerationFailure(kind GenerationFailureKind, err error) *GenerationFailure {
	return &GenerationFailure{Kind: kind, Err: err}
}

// AsGenerationFailure extracts a GenerationFailure from an error chain.
func AsGenerationFailure(err error) (*GenerationFailure, bool) {
	var gf *GenerationFailure
	if errors.As(err, &gf) {
		return gf, true
	}
	return nil, false
}

// Error constructors
func Validation(message string, details string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
		Status:  400,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  403,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  409,
	}
}

func Internal(message string, details string) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Details: details,
		Status:  500,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  400,
	}
}

func Unprocessable(message string, details string) *AppError {
	return &AppError{
		Code:    CodeUnprocessable,
		Message: message,
		Details: details,
		Status:  422,
	}
}

// AdmissionDenied reports a rate-limit rejection. Retryable after the
// window resets; retryAfter is the earliest retry time in seconds.
func AdmissionDenied(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeAdmissionDenied,
		Message:    "request rate limit exceeded",
		Details:    fmt.Sprintf("retry after %d seconds", retryAfterSeconds),
		Status:     429,
		RetryAfter: retryAfterSeconds,
	}
}

func InvalidTopic(topic string) *AppError {
	return &AppError{
		Code:    CodeInvalidTopic,
		Message: fmt.Sprintf("unknown topic %q", topic),
		Status:  400,
	}
}

// GenerationExhausted reports that every generation attempt failed or
// produced a duplicate.
func GenerationExhausted(details string) *AppError {
	return &AppError{
		Code:    CodeGenerationExhausted,
		Message: "could not produce a unique question",
		Details: details,
		Status:  502,
	}
}

func PersistenceFailure(details string) *AppError {
	return &AppError{
		Code:    CodePersistenceFailure,
		Message: "storage unavailable",
		Details: details,
		Status:  500,
	}
}
