package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-activity/internal/config"
	"github.com/iliyamo/ticket-activity/internal/middleware"
	"github.com/iliyamo/ticket-activity/internal/repository"
	"github.com/iliyamo/ticket-activity/internal/utils"
)

// AuthHandler bundles dependencies for the authentication endpoints.
// Credential verification and token issuance live here; everything
// behind the API group trusts the middleware-resolved principal.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies a username/password pair against the users reference
// table and returns a signed access token.  Stored hashes are bcrypt,
// with md5 hex accepted for rows predating the bcrypt migration.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Users.GetByCode(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(acct.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
	}

	token, err := utils.SignToken(h.Cfg.JWTSecret, acct.Email,
		repository.FormatDisplayName(acct.Name), acct.Code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": token})
}

// AutoLogin is the legacy kiosk entry point: credentials arrive as
// query parameters and the stored password is compared as plain text.
// Kept only for the wallboard clients that still depend on it.
func (h *AuthHandler) AutoLogin(c echo.Context) error {
	username := c.QueryParam("username")
	password := c.QueryParam("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Users.GetByCode(ctx, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if password != acct.PasswordHash {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
	}

	token, err := utils.SignToken(h.Cfg.JWTSecret, acct.Email, "", "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": token})
}

// UpdateAccess returns the display name of the authenticated principal.
// The browser client calls it after login to label the session.
func (h *AuthHandler) UpdateAccess(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"name": p.Name})
}
