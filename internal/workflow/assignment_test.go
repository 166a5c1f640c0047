package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/feedback-service/internal/clock"
	"github.com/spec-kit/feedback-service/internal/domain"
)

func newTestAssignments() (*AssignmentManager, *memRecorder) {
	recorder := &memRecorder{}
	return NewAssignmentManager(recorder, &clock.Fixed{Time: engineNow}), recorder
}

func TestAssign(t *testing.T) {
	manager, recorder := newTestAssignments()
	post := openPost()
	target := domain.Assignee{Kind: domain.AssigneeKindUser, ID: "user-2", Name: "Dana"}

	if err := manager.Assign(context.Background(), post, target, domain.UserActor("admin-1")); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if post.AssignedTo == nil || post.AssignedTo.ID != "user-2" {
		t.Fatalf("AssignedTo = %v, want user-2", post.AssignedTo)
	}
	if len(recorder.records) != 1 || recorder.records[0].Type != domain.ActivityAssigned {
		t.Fatalf("record types = %v, want [ASSIGNED]", recorder.types())
	}
	if recorder.records[0].Metadata["id"] != "user-2" {
		t.Fatalf("unexpected metadata: %v", recorder.records[0].Metadata)
	}
}

func TestAssignReplacesExistingTarget(t *testing.T) {
	manager, recorder := newTestAssignments()
	post := openPost()
	post.AssignedTo = &domain.Assignee{Kind: domain.AssigneeKindUser, ID: "user-2", Name: "Dana"}

	target := domain.Assignee{Kind: domain.AssigneeKindDepartment, ID: "dept-1", Name: "Facilities"}
	if err := manager.Assign(context.Background(), post, target, domain.UserActor("admin-1")); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	got := recorder.types()
	if len(got) != 2 || got[0] != domain.ActivityUnassigned || got[1] != domain.ActivityAssigned {
		t.Fatalf("record types = %v, want [UNASSIGNED ASSIGNED]", got)
	}
	if recorder.records[0].Metadata["id"] != "user-2" {
		t.Fatalf("UNASSIGNED names %v, want prior target", recorder.records[0].Metadata)
	}
	if recorder.records[1].Metadata["id"] != "dept-1" {
		t.Fatalf("ASSIGNED names %v, want new target", recorder.records[1].Metadata)
	}
	if post.AssignedTo.Kind != domain.AssigneeKindDepartment {
		t.Fatalf("AssignedTo = %v, want department", post.AssignedTo)
	}
}

func TestAssignSameTargetEmitsNoUnassign(t *testing.T) {
	manager, recorder := newTestAssignments()
	post := openPost()
	target := domain.Assignee{Kind: domain.AssigneeKindUser, ID: "user-2", Name: "Dana"}
	post.AssignedTo = &target

	if err := manager.Assign(context.Background(), post, target, domain.UserActor("admin-1")); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	got := recorder.types()
	if len(got) != 1 || got[0] != domain.ActivityAssigned {
		t.Fatalf("record types = %v, want [ASSIGNED]", got)
	}
}

func TestAssignInvalidTarget(t *testing.T) {
	manager, _ := newTestAssignments()

	tests := []struct {
		name   string
		target domain.Assignee
	}{
		{"unknown kind", domain.Assignee{Kind: "TEAM", ID: "t-1"}},
		{"empty id", domain.Assignee{Kind: domain.AssigneeKindUser}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := openPost()
			if err := manager.Assign(context.Background(), post, tt.target, domain.UserActor("admin-1")); !errors.Is(err, ErrInvalidTarget) {
				t.Fatalf("Assign() error = %v, want ErrInvalidTarget", err)
			}
			if post.AssignedTo != nil {
				t.Fatal("post mutated on rejection")
			}
		})
	}
}

func TestUnassign(t *testing.T) {
	manager, recorder := newTestAssignments()
	post := openPost()
	post.AssignedTo = &domain.Assignee{Kind: domain.AssigneeKindUser, ID: "user-2", Name: "Dana"}

	if err := manager.Unassign(context.Background(), post, domain.UserActor("admin-1")); err != nil {
		t.Fatalf("Unassign() error = %v", err)
	}
	if post.AssignedTo != nil {
		t.Fatalf("AssignedTo = %v, want nil", post.AssignedTo)
	}
	if len(recorder.records) != 1 || recorder.records[0].Type != domain.ActivityUnassigned {
		t.Fatalf("record types = %v, want [UNASSIGNED]", recorder.types())
	}
}

func TestUnassignNothingAssigned(t *testing.T) {
	manager, _ := newTestAssignments()
	post := openPost()

	if err := manager.Unassign(context.Background(), post, domain.UserActor("admin-1")); !errors.Is(err, ErrNothingAssigned) {
		t.Fatalf("Unassign() error = %v, want ErrNothingAssigned", err)
	}
}
