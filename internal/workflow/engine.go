// Package workflow implements the post lifecycle: status and priority
// transitions, due dates, admin comments and assignment. Every successful
// operation appends activity records through an ActivityRecorder; recorder
// failures propagate unchanged so the calling layer owns retry policy.
package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/feedback-service/internal/clock"
	"github.com/spec-kit/feedback-service/internal/domain"
)

// Engine validates and applies post workflow transitions.
type Engine struct {
	recorder ActivityRecorder
	clock    clock.Clock
}

// NewEngine constructs the engine.
func NewEngine(recorder ActivityRecorder, clk clock.Clock) *Engine {
	return &Engine{recorder: recorder, clock: clk}
}

// ChangeStatus moves a post to newStatus. Any non-terminal status may move to
// any other status directly; terminal statuses only exit via Reopen.
func (e *Engine) ChangeStatus(ctx context.Context, post *domain.Post, newStatus domain.PostStatus, actor domain.Actor, comment string) error {
	if !domain.ValidPostStatus(newStatus) || newStatus == post.Status {
		return ErrInvalidTransition
	}
	if post.Status.IsTerminal() {
		return ErrPostTerminal
	}

	oldStatus := post.Status
	now := e.clock.Now()
	post.Status = newStatus
	post.StatusChangedAt = &now
	post.UpdatedAt = now

	if err := e.append(ctx, post.ID, domain.ActivityStatusChanged, actor, map[string]any{
		"old_status": oldStatus,
		"new_status": newStatus,
		"comment":    comment,
	}); err != nil {
		return err
	}
	if newStatus == domain.PostStatusResolved {
		return e.append(ctx, post.ID, domain.ActivityResolved, actor, map[string]any{
			"old_status": oldStatus,
		})
	}
	return nil
}

// Reopen returns a terminal post to OPEN.
func (e *Engine) Reopen(ctx context.Context, post *domain.Post, actor domain.Actor, reason string) error {
	if !post.Status.IsTerminal() {
		return ErrPostNotTerminal
	}

	oldStatus := post.Status
	now := e.clock.Now()
	post.Status = domain.PostStatusOpen
	post.StatusChangedAt = &now
	post.UpdatedAt = now

	return e.append(ctx, post.ID, domain.ActivityReopened, actor, map[string]any{
		"old_status": oldStatus,
		"reason":     reason,
	})
}

// ChangePriority moves a post to newPriority. De-escalation is allowed.
func (e *Engine) ChangePriority(ctx context.Context, post *domain.Post, newPriority domain.PostPriority, actor domain.Actor) error {
	if !domain.ValidPostPriority(newPriority) || newPriority == post.Priority {
		return ErrInvalidTransition
	}

	oldPriority := post.Priority
	post.Priority = newPriority
	post.UpdatedAt = e.clock.Now()

	return e.append(ctx, post.ID, domain.ActivityPriorityChanged, actor, map[string]any{
		"old_priority": oldPriority,
		"new_priority": newPriority,
	})
}

// SetDueDate sets or replaces the post's due date. Past dates are rejected.
func (e *Engine) SetDueDate(ctx context.Context, post *domain.Post, date time.Time, actor domain.Actor) error {
	now := e.clock.Now()
	if date.Before(now) {
		return ErrInvalidDueDate
	}

	activityType := domain.ActivityDueDateSet
	metadata := map[string]any{"new_due_date": date}
	if post.DueDate != nil {
		activityType = domain.ActivityDueDateChanged
		metadata["old_due_date"] = *post.DueDate
	}
	post.DueDate = &date
	post.UpdatedAt = now

	return e.append(ctx, post.ID, activityType, actor, metadata)
}

// AddAdminComment appends a comment record without mutating the post.
func (e *Engine) AddAdminComment(ctx context.Context, post *domain.Post, actor domain.Actor, text string) (*domain.ActivityRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}
	record := e.newRecord(post.ID, domain.ActivityAdminComment, actor, map[string]any{
		"comment": text,
	})
	if err := e.recorder.Append(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// RecordCreated appends the CREATED record for a freshly stored post.
func (e *Engine) RecordCreated(ctx context.Context, post *domain.Post, actor domain.Actor) error {
	return e.append(ctx, post.ID, domain.ActivityCreated, actor, map[string]any{
		"type":     post.Type,
		"priority": post.Priority,
	})
}

func (e *Engine) append(ctx context.Context, postID string, activityType domain.ActivityType, actor domain.Actor, metadata map[string]any) error {
	return e.recorder.Append(ctx, e.newRecord(postID, activityType, actor, metadata))
}

func (e *Engine) newRecord(postID string, activityType domain.ActivityType, actor domain.Actor, metadata map[string]any) *domain.ActivityRecord {
	return &domain.ActivityRecord{
		ID:        uuid.NewString(),
		PostID:    postID,
		Type:      activityType,
		Actor:     actor,
		Metadata:  metadata,
		CreatedAt: e.clock.Now(),
	}
}
