package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/feedback-service/internal/clock"
	"github.com/spec-kit/feedback-service/internal/domain"
)

// AssignmentManager assigns and unassigns posts, keeping the single-assignee
// invariant: at most one user or department holds a post at a time.
type AssignmentManager struct {
	recorder ActivityRecorder
	clock    clock.Clock
}

// NewAssignmentManager constructs the manager.
func NewAssignmentManager(recorder ActivityRecorder, clk clock.Clock) *AssignmentManager {
	return &AssignmentManager{recorder: recorder, clock: clk}
}

// Assign sets the post's assignee. Assigning over a different existing target
// replaces it and emits UNASSIGNED for the old target before ASSIGNED for the
// new one.
func (m *AssignmentManager) Assign(ctx context.Context, post *domain.Post, target domain.Assignee, actor domain.Actor) error {
	if target.Kind != domain.AssigneeKindUser && target.Kind != domain.AssigneeKindDepartment {
		return ErrInvalidTarget
	}
	if target.ID == "" {
		return ErrInvalidTarget
	}

	if prior := post.AssignedTo; prior != nil && (prior.Kind != target.Kind || prior.ID != target.ID) {
		if err := m.append(ctx, post.ID, domain.ActivityUnassigned, actor, assigneeMetadata(*prior)); err != nil {
			return err
		}
	}

	post.AssignedTo = &target
	post.UpdatedAt = m.clock.Now()
	return m.append(ctx, post.ID, domain.ActivityAssigned, actor, assigneeMetadata(target))
}

// Unassign clears the post's assignee.
func (m *AssignmentManager) Unassign(ctx context.Context, post *domain.Post, actor domain.Actor) error {
	if post.AssignedTo == nil {
		return ErrNothingAssigned
	}

	prior := *post.AssignedTo
	post.AssignedTo = nil
	post.UpdatedAt = m.clock.Now()
	return m.append(ctx, post.ID, domain.ActivityUnassigned, actor, assigneeMetadata(prior))
}

func (m *AssignmentManager) append(ctx context.Context, postID string, activityType domain.ActivityType, actor domain.Actor, metadata map[string]any) error {
	return m.recorder.Append(ctx, &domain.ActivityRecord{
		ID:        uuid.NewString(),
		PostID:    postID,
		Type:      activityType,
		Actor:     actor,
		Metadata:  metadata,
		CreatedAt: m.clock.Now(),
	})
}

func assigneeMetadata(target domain.Assignee) map[string]any {
	return map[string]any{
		"kind": target.Kind,
		"id":   target.ID,
		"name": target.Name,
	}
}
