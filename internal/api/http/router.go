package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-service/internal/api/http/handlers"
	"github.com/spec-kit/feedback-service/internal/auth"
	"github.com/spec-kit/feedback-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Posts          *handlers.PostsHandler
	Moderation     *handlers.ModerationHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle)
	authed.Get("/auth/me", cfg.Users.Me)

	authed.Post("/posts", cfg.Posts.CreatePost)
	authed.Get("/posts", cfg.Posts.ListPosts)
	authed.Get("/posts/:id", cfg.Posts.GetPost)
	authed.Get("/posts/:id/activity", cfg.Posts.GetActivity)
	authed.Get("/posts/:id/poll", cfg.Posts.GetPollResults)
	authed.Post("/posts/:id/votes", cfg.Posts.CastVote)

	moderation := authed.Group("", auth.RequireModerator())
	moderation.Patch("/posts/:id/status", cfg.Moderation.ChangeStatus)
	moderation.Post("/posts/:id/reopen", cfg.Moderation.Reopen)
	moderation.Patch("/posts/:id/priority", cfg.Moderation.ChangePriority)
	moderation.Put("/posts/:id/due-date", cfg.Moderation.SetDueDate)
	moderation.Post("/posts/:id/comments", cfg.Moderation.AddComment)
	moderation.Put("/posts/:id/assignee", cfg.Moderation.Assign)
	moderation.Delete("/posts/:id/assignee", cfg.Moderation.Unassign)
	moderation.Get("/departments", cfg.Moderation.ListDepartments)

	admin := authed.Group("", auth.RequireRole(domain.UserRoleAdmin))
	admin.Patch("/users/:id/role", cfg.Users.SetRole)
}
