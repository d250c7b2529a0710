package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-activity/internal/middleware"
	"github.com/iliyamo/ticket-activity/internal/repository"
)

// CommentHandler bundles dependencies for the comment endpoints.  Every
// mutation is guarded by the ownership rule in the repository: only the
// stored author may edit or delete a comment.
type CommentHandler struct {
	Comments *repository.CommentRepo
}

func NewCommentHandler(cm *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Comments: cm}
}

type createCommentReq struct {
	TicketID string `json:"ticket_id"`
	Comment  string `json:"comment"`
}

// updateCommentReq also accepts the legacy user_name field the browser
// client still sends; the middleware-resolved principal is what
// authorizes the mutation.
type updateCommentReq struct {
	Comment  string `json:"comment"`
	UserName string `json:"user_name"`
}

// Create handles POST /api/comments.  The author snapshot comes from
// the principal, not the body.
func (h *CommentHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid body",
		})
	}
	if req.TicketID == "" || strings.TrimSpace(req.Comment) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "ticket_id and comment are required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.Create(ctx, req.TicketID, p, req.Comment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ticketNotFound(c)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to add comment",
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"status": "success", "message": "comment added", "data": cm,
	})
}

// ListByTicket handles GET /api/tickets/:id/comments.
func (h *CommentHandler) ListByTicket(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.ListByTicket(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to load comments",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": comments})
}

// Update handles PUT /api/comments/:comment_id.  A principal that is
// not the stored author gets 403 and the comment text is untouched.
func (h *CommentHandler) Update(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid comment id",
		})
	}

	var req updateCommentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "comment is required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.Update(ctx, id, p, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return commentNotFound(c)
		case errors.Is(err, repository.ErrForbidden):
			return commentForbidden(c)
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"status": "error", "message": "failed to update comment",
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success", "message": "comment updated", "data": cm,
	})
}

// Delete handles DELETE /api/comments/:comment_id.  Attachments go
// first, then the comment, in one transaction.
func (h *CommentHandler) Delete(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid comment id",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.Delete(ctx, id, p)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return commentNotFound(c)
		case errors.Is(err, repository.ErrForbidden):
			return commentForbidden(c)
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"status": "error", "message": "failed to delete comment",
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success", "message": "comment deleted", "data": cm,
	})
}

func commentNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"status": "error", "message": "comment not found",
	})
}

func commentForbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{
		"status": "error", "message": "you can only modify your own comments",
	})
}
