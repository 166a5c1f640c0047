package domain

import (
	"testing"
	"time"
)

func TestPriorityMetadata(t *testing.T) {
	tests := []struct {
		priority   PostPriority
		window     time.Duration
		hasWindow  bool
		cadence    NotificationCadence
	}{
		{PostPriorityCritical, 2 * time.Hour, true, CadenceImmediate},
		{PostPriorityHigh, 24 * time.Hour, true, CadenceDaily},
		{PostPriorityMedium, 72 * time.Hour, true, CadenceWeekly},
		{PostPriorityLow, 0, false, CadenceNever},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			window, ok := tt.priority.EscalationWindow()
			if ok != tt.hasWindow || window != tt.window {
				t.Fatalf("EscalationWindow() = (%v, %v), want (%v, %v)", window, ok, tt.window, tt.hasWindow)
			}
			if got := tt.priority.Cadence(); got != tt.cadence {
				t.Fatalf("Cadence() = %s, want %s", got, tt.cadence)
			}
		})
	}
}

func TestEscalateOneStep(t *testing.T) {
	tests := []struct {
		from, want PostPriority
	}{
		{PostPriorityLow, PostPriorityMedium},
		{PostPriorityMedium, PostPriorityHigh},
		{PostPriorityHigh, PostPriorityCritical},
		{PostPriorityCritical, PostPriorityCritical},
	}
	for _, tt := range tests {
		if got := tt.from.EscalateOneStep(); got != tt.want {
			t.Errorf("%s.EscalateOneStep() = %s, want %s", tt.from, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []PostStatus{PostStatusResolved, PostStatusClosed, PostStatusRejected, PostStatusNotAProblem}
	active := []PostStatus{PostStatusOpen, PostStatusAcknowledged, PostStatusInProgress, PostStatusUnderReview, PostStatusWorkingOn}

	for _, status := range terminal {
		if !status.IsTerminal() {
			t.Errorf("%s.IsTerminal() = false, want true", status)
		}
	}
	for _, status := range active {
		if status.IsTerminal() {
			t.Errorf("%s.IsTerminal() = true, want false", status)
		}
	}
}

func TestPollClone(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	original := Poll{
		Question: "q",
		Options:  []PollOption{{Text: "a", Votes: []string{"alice"}}},
		EndDate:  &end,
	}

	clone := original.Clone()
	clone.Options[0].Votes = append(clone.Options[0].Votes, "bob")
	*clone.EndDate = end.Add(time.Hour)

	if len(original.Options[0].Votes) != 1 {
		t.Fatalf("clone aliases vote set: %v", original.Options[0].Votes)
	}
	if !original.EndDate.Equal(end) {
		t.Fatalf("clone aliases end date: %v", original.EndDate)
	}
}
