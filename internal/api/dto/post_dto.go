package dto

import (
	"time"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// CreatePostRequest payload.
type CreatePostRequest struct {
	Type     domain.PostType     `json:"type"`
	Title    string              `json:"title"`
	Body     string              `json:"body"`
	Priority domain.PostPriority `json:"priority"`
	Poll     *CreatePollRequest  `json:"poll,omitempty"`
}

// AssigneeResponse describes the current assignee.
type AssigneeResponse struct {
	Kind domain.AssigneeKind `json:"kind"`
	ID   string              `json:"id"`
	Name string              `json:"name,omitempty"`
}

// PostSummary response.
type PostSummary struct {
	ID         string              `json:"id"`
	AuthorID   string              `json:"author_id"`
	Type       domain.PostType     `json:"type"`
	Title      string              `json:"title"`
	Status     domain.PostStatus   `json:"status"`
	Priority   domain.PostPriority `json:"priority"`
	AssignedTo *AssigneeResponse   `json:"assigned_to,omitempty"`
	DueDate    *time.Time          `json:"due_date,omitempty"`
	HasPoll    bool                `json:"has_poll"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// PostDetailResponse provides full post info.
type PostDetailResponse struct {
	PostSummary
	Body     string             `json:"body"`
	Poll     *PollResponse      `json:"poll,omitempty"`
	Activity []ActivityResponse `json:"activity"`
}

// ActivityResponse represents one audit trail entry.
type ActivityResponse struct {
	ID        string              `json:"id"`
	Type      domain.ActivityType `json:"type"`
	ActorType domain.ActorType    `json:"actor_type"`
	ActorID   string              `json:"actor_id"`
	Metadata  map[string]any      `json:"metadata"`
	CreatedAt time.Time           `json:"created_at"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status  domain.PostStatus `json:"status"`
	Comment string            `json:"comment,omitempty"`
}

// ReopenRequest payload.
type ReopenRequest struct {
	Reason string `json:"reason"`
}

// ChangePriorityRequest payload.
type ChangePriorityRequest struct {
	Priority domain.PostPriority `json:"priority"`
}

// SetDueDateRequest payload.
type SetDueDateRequest struct {
	DueDate time.Time `json:"due_date"`
}

// AdminCommentRequest payload.
type AdminCommentRequest struct {
	Comment string `json:"comment"`
}

// AssignRequest payload.
type AssignRequest struct {
	Kind domain.AssigneeKind `json:"kind"`
	ID   string              `json:"id"`
	Name string              `json:"name,omitempty"`
}
