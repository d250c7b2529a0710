package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-activity/internal/model"
	"github.com/iliyamo/ticket-activity/internal/repository"
	"github.com/iliyamo/ticket-activity/internal/utils"
)

// principalKey is the Echo context key the resolved Principal is stored
// under.  Handlers read it back through PrincipalFrom.
const principalKey = "principal"

// Authenticate returns an Echo middleware that validates the Bearer
// access token and resolves the embedded email to a Principal against
// the user reference tables.  Resolution runs on every request rather
// than trusting anything cached in the token, so a revoked or
// reassigned account stops working immediately.  Any failure along the
// way is a single 401 shape: {"error":"Unauthorized"}.
func Authenticate(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.VerifyToken(secret, raw)
			if err != nil {
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			row, err := users.ResolveByEmail(ctx, claims.Email)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(principalKey, model.Principal{
				Email:    row.Email,
				Name:     row.Name,
				Username: row.Username,
				Role:     row.Role,
			})
			return next(c)
		}
	}
}

// PrincipalFrom returns the Principal stored by Authenticate.  The
// boolean is false when the middleware did not run on this route.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
}
