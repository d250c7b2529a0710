package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ticket-activity/internal/config"
	"github.com/iliyamo/ticket-activity/internal/handler"
	"github.com/iliyamo/ticket-activity/internal/middleware"
	"github.com/iliyamo/ticket-activity/internal/repository"
)

// Handlers groups everything the route table needs.
type Handlers struct {
	Auth        *handler.AuthHandler
	Tickets     *handler.TicketHandler
	Comments    *handler.CommentHandler
	Attachments *handler.AttachmentHandler
	Users       *handler.UserHandler
}

// Register wires every route of the service onto the Echo instance.
// Login and the health check are open; everything else sits behind the
// bearer-token middleware, which resolves the principal from the user
// reference tables on each request.  The Redis token bucket guards the
// whole authenticated group.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client, users *repository.UserRepo) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Unauthenticated entry points.
	e.POST("/login", h.Auth.Login)
	e.GET("/auto-login", h.Auth.AutoLogin)

	authed := e.Group("")
	authed.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	authed.Use(middleware.Authenticate(cfg.JWTSecret, users))

	authed.GET("/update-access", h.Auth.UpdateAccess)

	// Tickets.  The download route must precede /:id so Echo does not
	// capture "download" as a ticket identifier.
	authed.GET("/api/tickets", h.Tickets.List)
	authed.GET("/api/tickets/download", h.Tickets.Download)
	authed.GET("/api/tickets/:id", h.Tickets.GetWithComments)
	authed.GET("/api/tickets/:id/edit", h.Tickets.Get)
	authed.POST("/api/tickets", h.Tickets.Create)
	authed.PUT("/api/tickets/:id", h.Tickets.UpdateAsEditor)
	authed.PUT("/api/tickets-engineer/:id", h.Tickets.UpdateAsExecutor)
	authed.DELETE("/api/tickets/:id", h.Tickets.Delete)

	// Comments.
	authed.POST("/api/comments", h.Comments.Create)
	authed.GET("/api/tickets/:id/comments", h.Comments.ListByTicket)
	authed.PUT("/api/comments/:comment_id", h.Comments.Update)
	authed.DELETE("/api/comments/:comment_id", h.Comments.Delete)

	// Attachments.
	authed.POST("/api/comments/:comment_id/attachments", h.Attachments.Upload)
	authed.GET("/api/comments/:comment_id/attachments", h.Attachments.List)

	// Reference listings.
	authed.GET("/api/users/noc-ott", h.Users.ListExecutors)
}
