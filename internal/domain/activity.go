package domain

import "time"

// ActivityType captures what changed in an activity record.
type ActivityType string

const (
	ActivityCreated         ActivityType = "CREATED"
	ActivityStatusChanged   ActivityType = "STATUS_CHANGED"
	ActivityPriorityChanged ActivityType = "PRIORITY_CHANGED"
	ActivityAssigned        ActivityType = "ASSIGNED"
	ActivityUnassigned      ActivityType = "UNASSIGNED"
	ActivityDueDateSet      ActivityType = "DUE_DATE_SET"
	ActivityDueDateChanged  ActivityType = "DUE_DATE_CHANGED"
	ActivityAdminComment    ActivityType = "ADMIN_COMMENT"
	ActivityResolved        ActivityType = "RESOLVED"
	ActivityReopened        ActivityType = "REOPENED"
)

// ActorType indicates who performed a change.
type ActorType string

const (
	ActorTypeUser   ActorType = "USER"
	ActorTypeSystem ActorType = "SYSTEM"
)

// Actor identifies the principal behind a change.
type Actor struct {
	Type ActorType
	ID   string
}

// SystemActor is used by background workers.
func SystemActor() Actor {
	return Actor{Type: ActorTypeSystem, ID: "system"}
}

// UserActor builds an actor for a user id.
func UserActor(userID string) Actor {
	return Actor{Type: ActorTypeUser, ID: userID}
}

// ActivityRecord is an immutable audit trail entry. Records are append-only;
// nothing updates or deletes them after creation.
type ActivityRecord struct {
	ID        string
	PostID    string
	Type      ActivityType
	Actor     Actor
	Metadata  map[string]any
	CreatedAt time.Time
}
