package events

import (
	"time"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostCreated         EventType = "post_created"
	EventPostStatusChanged   EventType = "post_status_changed"
	EventPostPriorityChanged EventType = "post_priority_changed"
	EventPostAssigned        EventType = "post_assigned"
	EventPostUnassigned      EventType = "post_unassigned"
	EventPostReopened        EventType = "post_reopened"
	EventPostDueDateSet      EventType = "post_due_date_set"
	EventAdminCommentAdded   EventType = "admin_comment_added"
	EventVoteCast            EventType = "vote_cast"
	EventPostEscalated       EventType = "post_escalated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	PostID    string       `json:"post_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	Type     domain.PostType     `json:"type"`
	Priority domain.PostPriority `json:"priority"`
	Title    string              `json:"title"`
	HasPoll  bool                `json:"has_poll"`
}

// PostStatusChangedPayload payload.
type PostStatusChangedPayload struct {
	OldStatus domain.PostStatus `json:"old_status"`
	NewStatus domain.PostStatus `json:"new_status"`
	Comment   string            `json:"comment,omitempty"`
}

// PostPriorityChangedPayload payload.
type PostPriorityChangedPayload struct {
	OldPriority domain.PostPriority `json:"old_priority"`
	NewPriority domain.PostPriority `json:"new_priority"`
	Escalated   bool                `json:"escalated,omitempty"`
}

// PostAssignedPayload payload.
type PostAssignedPayload struct {
	Kind domain.AssigneeKind `json:"kind"`
	ID   string              `json:"id"`
	Name string              `json:"name,omitempty"`
}

// PostReopenedPayload payload.
type PostReopenedPayload struct {
	Reason string `json:"reason"`
}

// PostDueDateSetPayload payload.
type PostDueDateSetPayload struct {
	DueDate time.Time `json:"due_date"`
}

// VoteCastPayload payload.
type VoteCastPayload struct {
	OptionIndex int  `json:"option_index"`
	TotalVotes  int  `json:"total_votes"`
	Retracted   bool `json:"retracted"`
}
