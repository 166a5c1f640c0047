package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-service/internal/api/dto"
	"github.com/spec-kit/feedback-service/internal/auth"
	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/repository"
	"github.com/spec-kit/feedback-service/internal/service"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

// ModerationHandler manages workflow endpoints for responders and admins.
type ModerationHandler struct {
	posts       *service.PostService
	departments repository.DepartmentRepository
}

// NewModerationHandler constructs handler.
func NewModerationHandler(posts *service.PostService, departments repository.DepartmentRepository) *ModerationHandler {
	return &ModerationHandler{posts: posts, departments: departments}
}

// ChangeStatus PATCH /posts/:id/status.
func (h *ModerationHandler) ChangeStatus(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	post, err := h.posts.ChangeStatus(c.Context(), user, c.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postSummary(post)})
}

// Reopen POST /posts/:id/reopen.
func (h *ModerationHandler) Reopen(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReopenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return apperrors.NewValidationError("reason required", nil)
	}
	post, err := h.posts.Reopen(c.Context(), user, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postSummary(post)})
}

// ChangePriority PATCH /posts/:id/priority.
func (h *ModerationHandler) ChangePriority(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	post, err := h.posts.ChangePriority(c.Context(), user, c.Params("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postSummary(post)})
}

// SetDueDate PUT /posts/:id/due-date.
func (h *ModerationHandler) SetDueDate(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SetDueDateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	post, err := h.posts.SetDueDate(c.Context(), user, c.Params("id"), req.DueDate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postSummary(post)})
}

// AddComment POST /posts/:id/comments.
func (h *ModerationHandler) AddComment(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AdminCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.posts.AddAdminComment(c.Context(), user, c.Params("id"), req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ActivityResponse{
		ID:        record.ID,
		Type:      record.Type,
		ActorType: record.Actor.Type,
		ActorID:   record.Actor.ID,
		Metadata:  record.Metadata,
		CreatedAt: record.CreatedAt,
	}})
}

// Assign PUT /posts/:id/assignee.
func (h *ModerationHandler) Assign(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	post, err := h.posts.Assign(c.Context(), user, c.Params("id"), domain.Assignee{
		Kind: req.Kind,
		ID:   req.ID,
		Name: req.Name,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postSummary(post)})
}

// Unassign DELETE /posts/:id/assignee.
func (h *ModerationHandler) Unassign(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	post, err := h.posts.Unassign(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postSummary(post)})
}

// ListDepartments GET /departments.
func (h *ModerationHandler) ListDepartments(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	departments, err := h.departments.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{
			ID:       dept.ID,
			Name:     dept.Name,
			IsActive: dept.IsActive,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
