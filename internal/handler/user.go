package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-activity/internal/repository"
)

// UserHandler serves the read-only reference listings backed by the
// external user tables.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

// ListExecutors handles GET /api/users/noc-ott: the pool of accounts a
// ticket's executor may be assigned from.
func (h *UserHandler) ListExecutors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	execs, err := h.Users.ListExecutors(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error", "message": "failed to load executor list",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": execs})
}
