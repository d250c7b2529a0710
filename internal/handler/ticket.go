package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-activity/internal/export"
	"github.com/iliyamo/ticket-activity/internal/middleware"
	"github.com/iliyamo/ticket-activity/internal/model"
	"github.com/iliyamo/ticket-activity/internal/queue"
	"github.com/iliyamo/ticket-activity/internal/repository"
	queue_publisher "github.com/iliyamo/ticket-activity/internal/service"
)

// TicketHandler bundles dependencies for the ticket endpoints.
type TicketHandler struct {
	Tickets  *repository.TicketRepo
	Comments *repository.CommentRepo
}

func NewTicketHandler(t *repository.TicketRepo, cm *repository.CommentRepo) *TicketHandler {
	return &TicketHandler{Tickets: t, Comments: cm}
}

// ----- DTOs -----

type createTicketReq struct {
	Category         string  `json:"category"`
	Type             string  `json:"type"`
	Status           string  `json:"status"`
	Activity         string  `json:"activity"`
	DetailActivity   *string `json:"detail_activity"`
	UserNameExecutor *string `json:"user_name_executor"`
	UserEmail        *string `json:"user_email"`
	EndDate          *string `json:"end_date"`
}

// updateTicketReq carries sparse diffs: every field is optional and a
// missing or null field means "leave the stored value unchanged".
type updateTicketReq struct {
	Category         *string `json:"category"`
	Type             *string `json:"type"`
	Status           *string `json:"status"`
	Activity         *string `json:"activity"`
	DetailActivity   *string `json:"detail_activity"`
	UserNameExecutor *string `json:"user_name_executor"`
	UserEmail        *string `json:"user_email"`
	EndDate          *string `json:"end_date"`
}

type paginationPart struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// filterFromQuery collects the shared search parameters used by the
// listing and the report download.
func filterFromQuery(c echo.Context) repository.TicketFilter {
	return repository.TicketFilter{
		Category:         c.QueryParam("category"),
		UserNameExecutor: c.QueryParam("user_name_executor"),
		Activity:         c.QueryParam("activity"),
		Type:             c.QueryParam("type"),
		Status:           c.QueryParam("status"),
		CreatedByName:    c.QueryParam("created_by_name"),
	}
}

// List handles GET /api/tickets with search filters and pagination.
func (h *TicketHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tickets, total, err := h.Tickets.List(ctx, filterFromQuery(c), page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to load tickets",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   tickets,
		"pagination": paginationPart{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetWithComments handles GET /api/tickets/:id: the ticket joined with
// its comments, newest comment first.
func (h *TicketHandler) GetWithComments(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ticketNotFound(c)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to load ticket",
		})
	}
	comments, err := h.Comments.ListByTicket(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to load comments",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   echo.Map{"ticket": t, "comments": comments},
	})
}

// Get handles GET /api/tickets/:id/edit: the ticket alone, as the edit
// form pre-fill.
func (h *TicketHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ticketNotFound(c)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to load ticket",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": t})
}

// Create handles POST /api/tickets.  Author identity comes from the
// principal, never from the body; the identifier is minted inside the
// creation transaction.
func (h *TicketHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	var req createTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid body",
		})
	}
	if req.Category == "" || req.Activity == "" || req.Type == "" || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "category, activity, type and status are required",
		})
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid end_date",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.Create(ctx, p, repository.CreateInput{
		Category:         req.Category,
		Type:             req.Type,
		Status:           req.Status,
		Activity:         req.Activity,
		DetailActivity:   req.DetailActivity,
		UserNameExecutor: req.UserNameExecutor,
		UserEmail:        req.UserEmail,
		EndDate:          endDate,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSequenceExhausted) {
			log.Printf("ticket create rejected: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"status": "error", "message": "daily ticket limit reached",
			})
		}
		log.Printf("ticket create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to create ticket",
		})
	}

	publishTicketEvent(queue.ActionCreated, t, p)
	return c.JSON(http.StatusCreated, echo.Map{
		"status": "success", "message": "ticket created", "data": t,
	})
}

// UpdateAsEditor handles PUT /api/tickets/:id, the full edit path that
// may also reassign the executor.
func (h *TicketHandler) UpdateAsEditor(c echo.Context) error {
	return h.update(c, repository.EditorFields)
}

// UpdateAsExecutor handles PUT /api/tickets-engineer/:id, the
// restricted path used by engineers working the ticket.  Identity
// fields in the body are ignored.
func (h *TicketHandler) UpdateAsExecutor(c echo.Context) error {
	return h.update(c, repository.ExecutorFields)
}

// update is the shared partial-update flow; only the field policy
// differs between the two endpoints.
func (h *TicketHandler) update(c echo.Context, policy repository.FieldPolicy) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	id := c.Param("id")

	var req updateTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid body",
		})
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error", "message": "invalid end_date",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.Update(ctx, id, repository.UpdateInput{
		Category:         req.Category,
		Type:             req.Type,
		Status:           req.Status,
		Activity:         req.Activity,
		DetailActivity:   req.DetailActivity,
		UserNameExecutor: req.UserNameExecutor,
		UserEmail:        req.UserEmail,
		EndDate:          endDate,
	}, policy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ticketNotFound(c)
		}
		log.Printf("ticket update %s failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to update ticket",
		})
	}

	if req.Status != nil && *req.Status == model.StatusClosed {
		publishTicketEvent(queue.ActionClosed, t, p)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success", "message": "ticket updated", "data": t,
	})
}

// Delete handles DELETE /api/tickets/:id.  The repository cascades
// through attachments and comments in one transaction.
func (h *TicketHandler) Delete(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	t, err := h.Tickets.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ticketNotFound(c)
		}
		log.Printf("ticket delete %s failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to delete ticket",
		})
	}

	publishTicketEvent(queue.ActionDeleted, t, p)
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success", "message": "ticket deleted", "data": t,
	})
}

// Download handles GET /api/tickets/download: every ticket matching the
// same filters the listing accepts, rendered as a spreadsheet.
func (h *TicketHandler) Download(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	tickets, err := h.Tickets.Export(ctx, filterFromQuery(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to export tickets",
		})
	}
	blob, err := export.Tickets(tickets)
	if err != nil {
		log.Printf("ticket export render failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to render report",
		})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="tickets.xlsx"`)
	return c.Blob(http.StatusOK, export.ContentType, blob)
}

// ----- helpers -----

func ticketNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"status": "error", "message": "ticket not found",
	})
}

// dateLayouts are accepted for client-supplied end_date values.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDatePtr parses an optional date string.  Nil or empty input
// yields nil without error.
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, *s)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// publishTicketEvent emits a lifecycle event in the background.
// Publication is best-effort: a broker outage must not fail the
// request that triggered the event.
func publishTicketEvent(action string, t *model.Ticket, p model.Principal) {
	ev := queue.TicketEvent{
		Action:     action,
		TicketID:   t.TicketID,
		Category:   t.Category,
		Type:       t.Type,
		Status:     t.Status,
		Activity:   t.Activity,
		ActorName:  p.Name,
		ActorEmail: p.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishTicketEvent(ctx, ev)
	}()
}
