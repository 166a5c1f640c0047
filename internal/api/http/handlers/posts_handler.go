package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-service/internal/api/dto"
	"github.com/spec-kit/feedback-service/internal/auth"
	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/poll"
	"github.com/spec-kit/feedback-service/internal/repository"
	"github.com/spec-kit/feedback-service/internal/service"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

// PostsHandler manages post and poll endpoints for all authenticated users.
type PostsHandler struct {
	posts *service.PostService
	polls *service.PollService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService, polls *service.PollService) *PostsHandler {
	return &PostsHandler{posts: posts, polls: polls}
}

// CreatePost POST /posts.
func (h *PostsHandler) CreatePost(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.PostCreateInput{
		Type:     req.Type,
		Title:    req.Title,
		Body:     req.Body,
		Priority: req.Priority,
	}
	if req.Poll != nil {
		options := make([]domain.PollOption, 0, len(req.Poll.Options))
		for _, text := range req.Poll.Options {
			options = append(options, domain.PollOption{Text: text})
		}
		input.Poll = &domain.Poll{
			Question:       req.Poll.Question,
			Options:        options,
			MultipleChoice: req.Poll.MultipleChoice,
			EndDate:        req.Poll.EndDate,
		}
	}

	post, err := h.posts.CreatePost(c.Context(), user.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": postSummary(post)})
}

// ListPosts GET /posts.
func (h *PostsHandler) ListPosts(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	posts, err := h.posts.ListPosts(c.Context(), parsePostQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.PostSummary, 0, len(posts))
	for i := range posts {
		items = append(items, postSummary(&posts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetPost GET /posts/:id.
func (h *PostsHandler) GetPost(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	post, activity, err := h.posts.GetPost(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	detail := dto.PostDetailResponse{
		PostSummary: postSummary(post),
		Body:        post.Body,
		Activity:    activityResponses(activity),
	}
	if post.Poll != nil {
		view, err := h.polls.Results(c.Context(), user.ID, post.ID)
		if err != nil {
			return err
		}
		detail.Poll = pollResponse(view)
	}
	return c.JSON(fiber.Map{"data": detail})
}

// CastVote POST /posts/:id/votes.
func (h *PostsHandler) CastVote(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CastVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.polls.CastVote(c.Context(), user.ID, c.Params("id"), req.OptionIndex)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pollResponse(view)})
}

// GetPollResults GET /posts/:id/poll.
func (h *PostsHandler) GetPollResults(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	view, err := h.polls.Results(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pollResponse(view)})
}

// GetActivity GET /posts/:id/activity.
func (h *PostsHandler) GetActivity(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	records, err := h.posts.ListActivity(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": activityResponses(records)})
}

func parsePostQuery(c *fiber.Ctx) repository.PostFilter {
	filter := repository.PostFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.PostStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.PostPriority(strings.TrimSpace(part)))
		}
	}
	if typeStr := c.Query("type"); typeStr != "" {
		for _, part := range strings.Split(typeStr, ",") {
			filter.Types = append(filter.Types, domain.PostType(strings.TrimSpace(part)))
		}
	}
	if author := c.Query("author_id"); author != "" {
		filter.AuthorID = &author
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func postSummary(post *domain.Post) dto.PostSummary {
	summary := dto.PostSummary{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Type:      post.Type,
		Title:     post.Title,
		Status:    post.Status,
		Priority:  post.Priority,
		DueDate:   post.DueDate,
		HasPoll:   post.Poll != nil,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if post.AssignedTo != nil {
		summary.AssignedTo = &dto.AssigneeResponse{
			Kind: post.AssignedTo.Kind,
			ID:   post.AssignedTo.ID,
			Name: post.AssignedTo.Name,
		}
	}
	return summary
}

func activityResponses(records []domain.ActivityRecord) []dto.ActivityResponse {
	resp := make([]dto.ActivityResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, dto.ActivityResponse{
			ID:        record.ID,
			Type:      record.Type,
			ActorType: record.Actor.Type,
			ActorID:   record.Actor.ID,
			Metadata:  record.Metadata,
			CreatedAt: record.CreatedAt,
		})
	}
	return resp
}

func pollResponse(view *service.PollView) *dto.PollResponse {
	return &dto.PollResponse{
		Question:       view.Question,
		MultipleChoice: view.MultipleChoice,
		TotalVotes:     view.Stats.TotalVotes,
		Options:        pollOptionResponses(view.Stats.Options),
		HasEnded:       view.Stats.HasEnded,
		HasVoted:       view.HasVoted,
		VotesOf:        view.VotesOf,
	}
}

func pollOptionResponses(options []poll.OptionStats) []dto.PollOptionResponse {
	resp := make([]dto.PollOptionResponse, 0, len(options))
	for _, opt := range options {
		resp = append(resp, dto.PollOptionResponse{
			Text:       opt.Text,
			Votes:      opt.Votes,
			Percentage: opt.Percentage,
		})
	}
	return resp
}
