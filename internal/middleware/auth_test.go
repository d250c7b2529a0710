package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-activity/internal/repository"
	"github.com/iliyamo/ticket-activity/internal/utils"
)

const testSecret = "test-secret"

func runAuth(t *testing.T, authHeader string, users *repository.UserRepo) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	reached := false
	next := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, Authenticate(testSecret, users)(next)(c))
	return rec, reached
}

func TestAuthenticate(t *testing.T) {
	t.Run("resolves the principal on every request", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		users := repository.NewUserRepo(db)

		token, err := utils.SignToken(testSecret, "john.doe@example.com", "stale", "stale")
		require.NoError(t, err)

		mock.ExpectQuery(`(?s)FROM users u\s+JOIN user_group g`).
			WithArgs("john.doe@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"user_name", "user_code", "user_email", "profile_name"}).
				AddRow("john.doe", "jdoe", "john.doe@example.com", "NOC OTT"))

		req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)

		handlerErr := Authenticate(testSecret, users)(func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			require.True(t, ok)
			// The name comes from the database, not the token claims.
			assert.Equal(t, "John Doe", p.Name)
			assert.Equal(t, "NOC OTT", p.Role)
			return c.NoContent(http.StatusOK)
		})(c)
		require.NoError(t, handlerErr)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing header", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rec, reached := runAuth(t, "", repository.NewUserRepo(db))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("malformed token", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rec, reached := runAuth(t, "Bearer not.a.token", repository.NewUserRepo(db))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("email no longer resolves", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		token, err := utils.SignToken(testSecret, "gone@example.com", "", "")
		require.NoError(t, err)

		mock.ExpectQuery(`(?s)FROM users u\s+JOIN user_group g`).
			WillReturnRows(sqlmock.NewRows([]string{"user_name", "user_code", "user_email", "profile_name"}))

		rec, reached := runAuth(t, "Bearer "+token, repository.NewUserRepo(db))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
