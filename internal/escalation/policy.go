// Package escalation derives overdue state and notification timing from a
// post's priority. It computes values only; bumping priorities and sending
// notifications belong to the scheduler and notification layers.
package escalation

import (
	"time"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// IsOverdue reports whether the post has sat unresolved past its priority's
// escalation window. The window is measured from the last status change, or
// from creation when the status never changed. Terminal posts are never
// overdue.
func IsOverdue(post domain.Post, now time.Time) bool {
	window, ok := post.Priority.EscalationWindow()
	if !ok {
		return false
	}
	if post.Status.IsTerminal() {
		return false
	}
	since := post.CreatedAt
	if post.StatusChangedAt != nil {
		since = *post.StatusChangedAt
	}
	return now.Sub(since) > window
}

// NextNotificationDue returns when the next reminder for the post should go
// out, based on its priority's cadence. Nil means never. Daily and weekly
// boundaries are computed in UTC.
func NextNotificationDue(post domain.Post, now time.Time) *time.Time {
	switch post.Priority.Cadence() {
	case domain.CadenceImmediate:
		due := now
		return &due
	case domain.CadenceDaily:
		due := nextMidnight(now)
		return &due
	case domain.CadenceWeekly:
		due := nextWeekStart(now)
		return &due
	}
	return nil
}

func nextMidnight(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

func nextWeekStart(now time.Time) time.Time {
	midnight := nextMidnight(now)
	for midnight.Weekday() != time.Monday {
		midnight = midnight.AddDate(0, 0, 1)
	}
	return midnight
}
