package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/feedback-service/internal/clock"
	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/events"
	"github.com/spec-kit/feedback-service/internal/poll"
	"github.com/spec-kit/feedback-service/internal/repository"
	"github.com/spec-kit/feedback-service/internal/workflow"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

// PostService coordinates post workflows on top of the core engines. Store and
// recorder failures propagate unchanged; retry policy lives with the caller.
type PostService struct {
	posts       repository.PostRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	activity    workflow.ActivityRecorder
	engine      *workflow.Engine
	assignments *workflow.AssignmentManager
	dispatcher  events.Dispatcher
	clock       clock.Clock
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo       repository.PostRepository
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	Activity       workflow.ActivityRecorder
	Engine         *workflow.Engine
	Assignments    *workflow.AssignmentManager
	Dispatcher     events.Dispatcher
	Clock          clock.Clock
}

// PostCreateInput describes post creation payload.
type PostCreateInput struct {
	Type     domain.PostType
	Title    string
	Body     string
	Priority domain.PostPriority
	Poll     *domain.Poll
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	return &PostService{
		posts:       deps.PostRepo,
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		activity:    deps.Activity,
		engine:      deps.Engine,
		assignments: deps.Assignments,
		dispatcher:  deps.Dispatcher,
		clock:       deps.Clock,
	}
}

// CreatePost creates a post for an author, optionally with an embedded poll.
func (s *PostService) CreatePost(ctx context.Context, authorID string, input PostCreateInput) (*domain.Post, error) {
	if !domain.ValidPostType(input.Type) {
		return nil, apperrors.NewValidationError("unknown post type", map[string]any{"type": input.Type})
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewValidationError("title and body required", nil)
	}
	if input.Poll != nil {
		result := poll.Validate(*input.Poll, s.clock.Now())
		if !result.IsValid {
			return nil, apperrors.NewValidationError("invalid poll", map[string]any{"errors": result.Errors})
		}
	}

	post := &domain.Post{
		AuthorID: authorID,
		Type:     input.Type,
		Title:    strings.TrimSpace(input.Title),
		Body:     strings.TrimSpace(input.Body),
		Status:   domain.PostStatusOpen,
		Priority: input.Priority,
		Poll:     input.Poll,
	}
	if post.Priority == "" {
		post.Priority = domain.PostPriorityMedium
	}
	if !domain.ValidPostPriority(post.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": post.Priority})
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	if err := s.engine.RecordCreated(ctx, post, domain.UserActor(authorID)); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:   events.EventPostCreated,
		PostID: post.ID,
		Actor:  domain.UserActor(authorID),
		Payload: events.PostCreatedPayload{
			Type:     post.Type,
			Priority: post.Priority,
			Title:    post.Title,
			HasPoll:  post.Poll != nil,
		},
	})
	return post, nil
}

// GetPost fetches a post with its activity trail.
func (s *PostService) GetPost(ctx context.Context, postID string) (*domain.Post, []domain.ActivityRecord, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.activity.ListFor(ctx, post.ID)
	if err != nil {
		return nil, nil, err
	}
	return post, records, nil
}

// ListPosts returns posts matching the filter.
func (s *PostService) ListPosts(ctx context.Context, filter repository.PostFilter) ([]domain.Post, error) {
	return s.posts.ListWithFilter(ctx, filter)
}

// ChangeStatus moves a post to a new status on behalf of a responder or admin.
func (s *PostService) ChangeStatus(ctx context.Context, actor *domain.User, postID string, newStatus domain.PostStatus, comment string) (*domain.Post, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	oldStatus := post.Status
	if err := s.engine.ChangeStatus(ctx, post, newStatus, domain.UserActor(actor.ID), comment); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:   events.EventPostStatusChanged,
		PostID: post.ID,
		Actor:  domain.UserActor(actor.ID),
		Payload: events.PostStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return post, nil
}

// Reopen returns a terminal post to OPEN.
func (s *PostService) Reopen(ctx context.Context, actor *domain.User, postID, reason string) (*domain.Post, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Reopen(ctx, post, domain.UserActor(actor.ID), reason); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventPostReopened,
		PostID:  post.ID,
		Actor:   domain.UserActor(actor.ID),
		Payload: events.PostReopenedPayload{Reason: reason},
	})
	return post, nil
}

// ChangePriority changes a post's priority.
func (s *PostService) ChangePriority(ctx context.Context, actor *domain.User, postID string, newPriority domain.PostPriority) (*domain.Post, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	oldPriority := post.Priority
	if err := s.engine.ChangePriority(ctx, post, newPriority, domain.UserActor(actor.ID)); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:   events.EventPostPriorityChanged,
		PostID: post.ID,
		Actor:  domain.UserActor(actor.ID),
		Payload: events.PostPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return post, nil
}

// SetDueDate sets or replaces a post's due date.
func (s *PostService) SetDueDate(ctx context.Context, actor *domain.User, postID string, date time.Time) (*domain.Post, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.SetDueDate(ctx, post, date, domain.UserActor(actor.ID)); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventPostDueDateSet,
		PostID:  post.ID,
		Actor:   domain.UserActor(actor.ID),
		Payload: events.PostDueDateSetPayload{DueDate: date},
	})
	return post, nil
}

// AddAdminComment appends a comment to the activity trail.
func (s *PostService) AddAdminComment(ctx context.Context, actor *domain.User, postID, text string) (*domain.ActivityRecord, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	record, err := s.engine.AddAdminComment(ctx, post, domain.UserActor(actor.ID), text)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventAdminCommentAdded,
		PostID:  post.ID,
		Actor:   domain.UserActor(actor.ID),
		Payload: map[string]any{"record_id": record.ID},
	})
	return record, nil
}

// Assign sets the post's assignee after validating the target exists.
func (s *PostService) Assign(ctx context.Context, actor *domain.User, postID string, target domain.Assignee) (*domain.Post, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	switch target.Kind {
	case domain.AssigneeKindUser:
		assignee, err := s.users.GetByID(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		if !assignee.Active {
			return nil, apperrors.NewConflict("assignee inactive", map[string]any{"user_id": target.ID})
		}
		if target.Name == "" {
			target.Name = assignee.Name
		}
	case domain.AssigneeKindDepartment:
		dept, err := s.departments.GetByID(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		if !dept.IsActive {
			return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": target.ID})
		}
		if target.Name == "" {
			target.Name = dept.Name
		}
	default:
		return nil, workflow.ErrInvalidTarget
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.assignments.Assign(ctx, post, target, domain.UserActor(actor.ID)); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:   events.EventPostAssigned,
		PostID: post.ID,
		Actor:  domain.UserActor(actor.ID),
		Payload: events.PostAssignedPayload{
			Kind: target.Kind,
			ID:   target.ID,
			Name: target.Name,
		},
	})
	return post, nil
}

// Unassign clears the post's assignee.
func (s *PostService) Unassign(ctx context.Context, actor *domain.User, postID string) (*domain.Post, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	prior := post.AssignedTo
	if err := s.assignments.Unassign(ctx, post, domain.UserActor(actor.ID)); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:   events.EventPostUnassigned,
		PostID: post.ID,
		Actor:  domain.UserActor(actor.ID),
		Payload: events.PostAssignedPayload{
			Kind: prior.Kind,
			ID:   prior.ID,
			Name: prior.Name,
		},
	})
	return post, nil
}

// EscalateAsSystem bumps an overdue post's priority one step on behalf of the
// escalation sweeper. A post already at CRITICAL keeps its priority but still
// produces an escalation event so reminders go out.
func (s *PostService) EscalateAsSystem(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	oldPriority := post.Priority
	next := post.Priority.EscalateOneStep()
	if next != oldPriority {
		if err := s.engine.ChangePriority(ctx, post, next, domain.SystemActor()); err != nil {
			return nil, err
		}
		if err := s.posts.Update(ctx, post); err != nil {
			return nil, err
		}
	}
	s.publish(ctx, events.Event{
		Type:   events.EventPostEscalated,
		PostID: post.ID,
		Actor:  domain.SystemActor(),
		Payload: events.PostPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: post.Priority,
			Escalated:   true,
		},
	})
	return post, nil
}

// ListActivity returns the ordered audit trail for a post.
func (s *PostService) ListActivity(ctx context.Context, postID string) ([]domain.ActivityRecord, error) {
	return s.activity.ListFor(ctx, postID)
}

func (s *PostService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func requireModerator(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Role.CanModerate() {
		return apperrors.NewForbidden("responder or admin role required")
	}
	return nil
}
