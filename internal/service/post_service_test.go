package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/feedback-service/internal/clock"
	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/events"
	"github.com/spec-kit/feedback-service/internal/workflow"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

type fakeRecorder struct {
	records []domain.ActivityRecord
}

func (r *fakeRecorder) Append(_ context.Context, record *domain.ActivityRecord) error {
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeRecorder) ListFor(_ context.Context, postID string) ([]domain.ActivityRecord, error) {
	var out []domain.ActivityRecord
	for _, record := range r.records {
		if record.PostID == postID {
			out = append(out, record)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id string, role domain.UserRole) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	return nil
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dept, nil
}

func (f *fakeDepartmentRepo) List(context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(f.departments))
	for _, dept := range f.departments {
		out = append(out, *dept)
	}
	return out, nil
}

type postServiceFixture struct {
	svc        *PostService
	posts      *fakePostRepo
	recorder   *fakeRecorder
	dispatcher events.Dispatcher
	published  *[]events.Event
}

func newPostServiceFixture(post *domain.Post) postServiceFixture {
	posts := &fakePostRepo{post: post}
	recorder := &fakeRecorder{}
	clk := &clock.Fixed{Time: pollNow}
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	for _, eventType := range []events.EventType{
		events.EventPostCreated, events.EventPostStatusChanged, events.EventPostPriorityChanged,
		events.EventPostAssigned, events.EventPostUnassigned, events.EventPostReopened,
		events.EventPostDueDateSet, events.EventAdminCommentAdded, events.EventPostEscalated,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			published = append(published, event)
			return nil
		})
	}

	svc := NewPostService(PostDependencies{
		PostRepo: posts,
		UserRepo: &fakeUserRepo{users: map[string]*domain.User{
			"user-2": {ID: "user-2", Name: "Dana", Role: domain.UserRoleEmployee, Active: true},
		}},
		DepartmentRepo: &fakeDepartmentRepo{departments: map[string]*domain.Department{
			"dept-1": {ID: "dept-1", Name: "Facilities", IsActive: true},
		}},
		Activity:    recorder,
		Engine:      workflow.NewEngine(recorder, clk),
		Assignments: workflow.NewAssignmentManager(recorder, clk),
		Dispatcher:  dispatcher,
		Clock:       clk,
	})
	return postServiceFixture{svc: svc, posts: posts, recorder: recorder, dispatcher: dispatcher, published: &published}
}

func moderator() *domain.User {
	return &domain.User{ID: "responder-1", Role: domain.UserRoleResponder, Active: true}
}

func workflowPost() *domain.Post {
	return &domain.Post{
		ID:       "post-1",
		AuthorID: "author-1",
		Type:     domain.PostTypeProblemReport,
		Title:    "Broken printer",
		Body:     "The third floor printer jams constantly.",
		Status:   domain.PostStatusOpen,
		Priority: domain.PostPriorityMedium,
	}
}

func TestCreatePost(t *testing.T) {
	fx := newPostServiceFixture(nil)

	post, err := fx.svc.CreatePost(context.Background(), "author-1", PostCreateInput{
		Type:  domain.PostTypeIdeaSuggestion,
		Title: "Standing desks",
		Body:  "Offer standing desks on request.",
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if post.Status != domain.PostStatusOpen {
		t.Fatalf("Status = %s, want OPEN", post.Status)
	}
	if post.Priority != domain.PostPriorityMedium {
		t.Fatalf("Priority = %s, want MEDIUM default", post.Priority)
	}
	if len(fx.recorder.records) != 1 || fx.recorder.records[0].Type != domain.ActivityCreated {
		t.Fatalf("records = %v, want single CREATED", fx.recorder.records)
	}
	if len(*fx.published) != 1 || (*fx.published)[0].Type != events.EventPostCreated {
		t.Fatalf("published = %v, want post_created", *fx.published)
	}
}

func TestCreatePostValidation(t *testing.T) {
	fx := newPostServiceFixture(nil)

	tests := []struct {
		name  string
		input PostCreateInput
	}{
		{"unknown type", PostCreateInput{Type: "RANT", Title: "t", Body: "b"}},
		{"blank title", PostCreateInput{Type: domain.PostTypeProblemReport, Title: " ", Body: "b"}},
		{"unknown priority", PostCreateInput{Type: domain.PostTypeProblemReport, Title: "t", Body: "b", Priority: "URGENT"}},
		{"bad poll", PostCreateInput{Type: domain.PostTypeTeamDiscussion, Title: "t", Body: "b", Poll: &domain.Poll{Question: "q"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fx.svc.CreatePost(context.Background(), "author-1", tt.input); err == nil {
				t.Fatal("CreatePost() succeeded, want validation error")
			}
		})
	}
}

func TestChangeStatusRequiresModerator(t *testing.T) {
	fx := newPostServiceFixture(workflowPost())
	employee := &domain.User{ID: "emp-1", Role: domain.UserRoleEmployee, Active: true}

	_, err := fx.svc.ChangeStatus(context.Background(), employee, "post-1", domain.PostStatusInProgress, "")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("ChangeStatus() error = %v, want FORBIDDEN", err)
	}

	if _, err := fx.svc.ChangeStatus(context.Background(), nil, "post-1", domain.PostStatusInProgress, ""); err == nil {
		t.Fatal("ChangeStatus() with nil actor succeeded")
	}
}

func TestChangeStatusTerminalLock(t *testing.T) {
	post := workflowPost()
	post.Status = domain.PostStatusClosed
	fx := newPostServiceFixture(post)

	_, err := fx.svc.ChangeStatus(context.Background(), moderator(), "post-1", domain.PostStatusInProgress, "")
	if !errors.Is(err, workflow.ErrPostTerminal) {
		t.Fatalf("ChangeStatus() error = %v, want ErrPostTerminal", err)
	}

	// Reopen is the only exit from a terminal status.
	reopened, err := fx.svc.Reopen(context.Background(), moderator(), "post-1", "needs another look")
	if err != nil {
		t.Fatalf("Reopen() error = %v", err)
	}
	if reopened.Status != domain.PostStatusOpen {
		t.Fatalf("Status = %s, want OPEN", reopened.Status)
	}
}

func TestAssignValidatesTarget(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		fx := newPostServiceFixture(workflowPost())
		if _, err := fx.svc.Assign(context.Background(), moderator(), "post-1", domain.Assignee{
			Kind: domain.AssigneeKindUser, ID: "ghost",
		}); err == nil {
			t.Fatal("Assign() to unknown user succeeded")
		}
	})

	t.Run("department name filled in", func(t *testing.T) {
		fx := newPostServiceFixture(workflowPost())
		post, err := fx.svc.Assign(context.Background(), moderator(), "post-1", domain.Assignee{
			Kind: domain.AssigneeKindDepartment, ID: "dept-1",
		})
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if post.AssignedTo == nil || post.AssignedTo.Name != "Facilities" {
			t.Fatalf("AssignedTo = %v, want Facilities", post.AssignedTo)
		}
	})
}

func TestEscalateAsSystem(t *testing.T) {
	t.Run("bumps one step", func(t *testing.T) {
		fx := newPostServiceFixture(workflowPost())

		post, err := fx.svc.EscalateAsSystem(context.Background(), "post-1")
		if err != nil {
			t.Fatalf("EscalateAsSystem() error = %v", err)
		}
		if post.Priority != domain.PostPriorityHigh {
			t.Fatalf("Priority = %s, want HIGH", post.Priority)
		}
		if len(fx.recorder.records) != 1 || fx.recorder.records[0].Actor != domain.SystemActor() {
			t.Fatalf("records = %v, want system PRIORITY_CHANGED", fx.recorder.records)
		}
		if len(*fx.published) != 1 || (*fx.published)[0].Type != events.EventPostEscalated {
			t.Fatalf("published = %v, want post_escalated", *fx.published)
		}
	})

	t.Run("critical stays critical but still notifies", func(t *testing.T) {
		post := workflowPost()
		post.Priority = domain.PostPriorityCritical
		fx := newPostServiceFixture(post)

		escalated, err := fx.svc.EscalateAsSystem(context.Background(), "post-1")
		if err != nil {
			t.Fatalf("EscalateAsSystem() error = %v", err)
		}
		if escalated.Priority != domain.PostPriorityCritical {
			t.Fatalf("Priority = %s, want CRITICAL", escalated.Priority)
		}
		if len(fx.recorder.records) != 0 {
			t.Fatalf("records = %v, want none", fx.recorder.records)
		}
		if len(*fx.published) != 1 || (*fx.published)[0].Type != events.EventPostEscalated {
			t.Fatalf("published = %v, want post_escalated", *fx.published)
		}
	})
}
