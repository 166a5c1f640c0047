package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/feedback-service/internal/poll"
	"github.com/spec-kit/feedback-service/internal/workflow"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// coreCodes maps workflow and poll sentinels to stable API codes. All of them
// reject a single request, so they render as 4xx rather than 5xx.
var coreCodes = map[error]struct {
	code   string
	status int
}{
	workflow.ErrInvalidTransition: {"INVALID_TRANSITION", http.StatusConflict},
	workflow.ErrPostTerminal:      {"POST_IS_TERMINAL", http.StatusConflict},
	workflow.ErrPostNotTerminal:   {"POST_NOT_TERMINAL", http.StatusConflict},
	workflow.ErrInvalidDueDate:    {"INVALID_DUE_DATE", http.StatusBadRequest},
	workflow.ErrEmptyComment:      {"EMPTY_COMMENT", http.StatusBadRequest},
	workflow.ErrInvalidTarget:     {"INVALID_TARGET", http.StatusBadRequest},
	workflow.ErrNothingAssigned:   {"NOTHING_ASSIGNED", http.StatusConflict},
	poll.ErrPollEnded:             {"POLL_ENDED", http.StatusConflict},
	poll.ErrInvalidOption:         {"INVALID_OPTION", http.StatusBadRequest},
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for sentinel, mapping := range coreCodes {
		if errors.Is(err, sentinel) {
			return &DomainError{
				Code:       mapping.code,
				Message:    sentinel.Error(),
				HTTPStatus: mapping.status,
			}
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
