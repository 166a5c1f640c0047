package domain

import "time"

// PostType enumerates the kinds of submissions employees can make.
type PostType string

const (
	PostTypeProblemReport   PostType = "PROBLEM_REPORT"
	PostTypeCreativeContent PostType = "CREATIVE_CONTENT"
	PostTypeTeamDiscussion  PostType = "TEAM_DISCUSSION"
	PostTypeIdeaSuggestion  PostType = "IDEA_SUGGESTION"
)

// ValidPostType reports whether t is a known post type.
func ValidPostType(t PostType) bool {
	switch t {
	case PostTypeProblemReport, PostTypeCreativeContent, PostTypeTeamDiscussion, PostTypeIdeaSuggestion:
		return true
	}
	return false
}

// PostStatus enumerates lifecycle states for posts.
type PostStatus string

const (
	PostStatusOpen         PostStatus = "OPEN"
	PostStatusAcknowledged PostStatus = "ACKNOWLEDGED"
	PostStatusInProgress   PostStatus = "IN_PROGRESS"
	PostStatusUnderReview  PostStatus = "UNDER_REVIEW"
	PostStatusWorkingOn    PostStatus = "WORKING_ON"
	PostStatusResolved     PostStatus = "RESOLVED"
	PostStatusClosed       PostStatus = "CLOSED"
	PostStatusRejected     PostStatus = "REJECTED"
	PostStatusNotAProblem  PostStatus = "NOT_A_PROBLEM"
)

// IsTerminal reports whether the status only exits via reopen.
func (s PostStatus) IsTerminal() bool {
	switch s {
	case PostStatusResolved, PostStatusClosed, PostStatusRejected, PostStatusNotAProblem:
		return true
	}
	return false
}

// ValidPostStatus reports whether s is a known status.
func ValidPostStatus(s PostStatus) bool {
	switch s {
	case PostStatusOpen, PostStatusAcknowledged, PostStatusInProgress, PostStatusUnderReview,
		PostStatusWorkingOn, PostStatusResolved, PostStatusClosed, PostStatusRejected, PostStatusNotAProblem:
		return true
	}
	return false
}

// PostPriority enumerates urgency levels.
type PostPriority string

const (
	PostPriorityCritical PostPriority = "CRITICAL"
	PostPriorityHigh     PostPriority = "HIGH"
	PostPriorityMedium   PostPriority = "MEDIUM"
	PostPriorityLow      PostPriority = "LOW"
)

// ValidPostPriority reports whether p is a known priority.
func ValidPostPriority(p PostPriority) bool {
	switch p {
	case PostPriorityCritical, PostPriorityHigh, PostPriorityMedium, PostPriorityLow:
		return true
	}
	return false
}

// NotificationCadence controls how often reminders go out for a priority.
type NotificationCadence string

const (
	CadenceImmediate NotificationCadence = "IMMEDIATE"
	CadenceDaily     NotificationCadence = "DAILY"
	CadenceWeekly    NotificationCadence = "WEEKLY"
	CadenceNever     NotificationCadence = "NEVER"
)

// priorityMeta is built once at init and never mutated.
type priorityMeta struct {
	escalationWindow time.Duration // zero means the priority never escalates
	cadence          NotificationCadence
}

var priorityTable = map[PostPriority]priorityMeta{
	PostPriorityCritical: {escalationWindow: 2 * time.Hour, cadence: CadenceImmediate},
	PostPriorityHigh:     {escalationWindow: 24 * time.Hour, cadence: CadenceDaily},
	PostPriorityMedium:   {escalationWindow: 72 * time.Hour, cadence: CadenceWeekly},
	PostPriorityLow:      {cadence: CadenceNever},
}

// EscalationWindow returns the maximum time a post may stay unresolved at this
// priority. ok is false when the priority never escalates.
func (p PostPriority) EscalationWindow() (window time.Duration, ok bool) {
	meta, found := priorityTable[p]
	if !found || meta.escalationWindow == 0 {
		return 0, false
	}
	return meta.escalationWindow, true
}

// Cadence returns the notification cadence for this priority.
func (p PostPriority) Cadence() NotificationCadence {
	meta, found := priorityTable[p]
	if !found {
		return CadenceNever
	}
	return meta.cadence
}

// EscalateOneStep returns the next priority up, or p itself at the top.
func (p PostPriority) EscalateOneStep() PostPriority {
	switch p {
	case PostPriorityLow:
		return PostPriorityMedium
	case PostPriorityMedium:
		return PostPriorityHigh
	case PostPriorityHigh:
		return PostPriorityCritical
	}
	return p
}

// AssigneeKind differentiates user vs department targets.
type AssigneeKind string

const (
	AssigneeKindUser       AssigneeKind = "USER"
	AssigneeKindDepartment AssigneeKind = "DEPARTMENT"
)

// Assignee identifies who a post is assigned to. At most one per post.
type Assignee struct {
	Kind AssigneeKind
	ID   string
	Name string
}

// Post is the aggregate for employee submissions.
type Post struct {
	ID              string
	AuthorID        string
	Type            PostType
	Title           string
	Body            string
	Status          PostStatus
	Priority        PostPriority
	AssignedTo      *Assignee
	DueDate         *time.Time
	StatusChangedAt *time.Time
	Poll            *Poll
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
