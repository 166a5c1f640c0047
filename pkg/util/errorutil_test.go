package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/feedback-service/internal/poll"
	"github.com/spec-kit/feedback-service/internal/workflow"
)

func TestToDomainErrorSentinels(t *testing.T) {
	tests := []struct {
		err        error
		wantCode   string
		wantStatus int
	}{
		{workflow.ErrInvalidTransition, "INVALID_TRANSITION", http.StatusConflict},
		{workflow.ErrPostTerminal, "POST_IS_TERMINAL", http.StatusConflict},
		{workflow.ErrPostNotTerminal, "POST_NOT_TERMINAL", http.StatusConflict},
		{workflow.ErrInvalidDueDate, "INVALID_DUE_DATE", http.StatusBadRequest},
		{workflow.ErrEmptyComment, "EMPTY_COMMENT", http.StatusBadRequest},
		{workflow.ErrInvalidTarget, "INVALID_TARGET", http.StatusBadRequest},
		{workflow.ErrNothingAssigned, "NOTHING_ASSIGNED", http.StatusConflict},
		{poll.ErrPollEnded, "POLL_ENDED", http.StatusConflict},
		{poll.ErrInvalidOption, "INVALID_OPTION", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.wantCode || got.HTTPStatus != tt.wantStatus {
				t.Fatalf("ToDomainError() = (%s, %d), want (%s, %d)", got.Code, got.HTTPStatus, tt.wantCode, tt.wantStatus)
			}
		})
	}
}

func TestToDomainErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("change status: %w", workflow.ErrPostTerminal)
	got := ToDomainError(wrapped)
	if got.Code != "POST_IS_TERMINAL" {
		t.Fatalf("Code = %s, want POST_IS_TERMINAL", got.Code)
	}
}

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewValidationError("bad input", map[string]any{"field": "title"})
	got := ToDomainError(original)
	if got.Code != "VALIDATION_FAILED" || got.Details["field"] != "title" {
		t.Fatalf("ToDomainError() = %+v, want original validation error", got)
	}
}

func TestToDomainErrorNoRows(t *testing.T) {
	got := ToDomainError(pgx.ErrNoRows)
	if got.Code != "NOT_FOUND" || got.HTTPStatus != http.StatusNotFound {
		t.Fatalf("ToDomainError() = (%s, %d), want NOT_FOUND 404", got.Code, got.HTTPStatus)
	}
}

func TestToDomainErrorUnknown(t *testing.T) {
	got := ToDomainError(errors.New("disk full"))
	if got.Code != "INTERNAL_ERROR" || got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("ToDomainError() = (%s, %d), want INTERNAL_ERROR 500", got.Code, got.HTTPStatus)
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if got := ToDomainError(nil); got != nil {
		t.Fatalf("ToDomainError(nil) = %v, want nil", got)
	}
}
