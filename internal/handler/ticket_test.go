package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-activity/internal/clock"
	"github.com/iliyamo/ticket-activity/internal/export"
	"github.com/iliyamo/ticket-activity/internal/model"
	"github.com/iliyamo/ticket-activity/internal/repository"
)

var testPrincipal = model.Principal{
	Email:    "john.doe@example.com",
	Name:     "John Doe",
	Username: "jdoe",
	Role:     "NOC OTT",
}

// newTicketTestEnv wires a TicketHandler against a mocked database.
func newTicketTestEnv(t *testing.T) (*TicketHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk := clock.Fixed{T: time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC)}
	tickets := repository.NewTicketRepo(db, clk, repository.NewSequenceRepo(db))
	comments := repository.NewCommentRepo(db, clk)
	return NewTicketHandler(tickets, comments), mock
}

func newContext(t *testing.T, method, target, body string, authed bool) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if authed {
		c.Set("principal", testPrincipal)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func emptyTicketRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"ticket_id", "category", "type", "status", "activity", "detail_activity",
		"created_by_name", "created_by_email", "user_name_executor", "user_email",
		"start_date", "end_date",
	})
}

func TestTicketListEnvelope(t *testing.T) {
	h, mock := newTicketTestEnv(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets`).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(12))
	mock.ExpectQuery(`(?s)SELECT (.+) FROM tickets`).
		WithArgs(5, 5).
		WillReturnRows(emptyTicketRows().
			AddRow("TA2025030701", "Incident", "Internal", model.StatusOpen, "restart stream", nil,
				"John Doe", "john.doe@example.com", nil, nil, time.Now(), nil))

	c, rec := newContext(t, http.MethodGet, "/api/tickets?page=2&limit=5", "", true)
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])

	pg, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 12, pg["total"])
	assert.EqualValues(t, 2, pg["page"])
	assert.EqualValues(t, 5, pg["limit"])
	assert.EqualValues(t, 3, pg["totalPages"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketCreateValidation(t *testing.T) {
	t.Run("missing principal is unauthorized", func(t *testing.T) {
		h, _ := newTicketTestEnv(t)

		c, rec := newContext(t, http.MethodPost, "/api/tickets",
			`{"category":"Incident","type":"Internal","status":"Open","activity":"x"}`, false)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		h, _ := newTicketTestEnv(t)

		c, rec := newContext(t, http.MethodPost, "/api/tickets",
			`{"category":"Incident","type":"Internal","status":"Open"}`, true)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "category, activity, type and status are required",
			decodeBody(t, rec)["message"])
	})

	t.Run("unparseable end_date", func(t *testing.T) {
		h, _ := newTicketTestEnv(t)

		c, rec := newContext(t, http.MethodPost, "/api/tickets",
			`{"category":"Incident","type":"Internal","status":"Open","activity":"x","end_date":"yesterday"}`, true)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid end_date", decodeBody(t, rec)["message"])
	})
}

func TestTicketDownload(t *testing.T) {
	h, mock := newTicketTestEnv(t)

	mock.ExpectQuery(`(?s)SELECT (.+) FROM tickets WHERE 1=1`).
		WillReturnRows(emptyTicketRows())

	c, rec := newContext(t, http.MethodGet, "/api/tickets/download", "", true)
	require.NoError(t, h.Download(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="tickets.xlsx"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.NotEmpty(t, rec.Body.Bytes())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseDatePtr(t *testing.T) {
	t.Run("nil and empty pass through", func(t *testing.T) {
		got, err := parseDatePtr(nil)
		require.NoError(t, err)
		assert.Nil(t, got)

		empty := ""
		got, err = parseDatePtr(&empty)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("accepted layouts", func(t *testing.T) {
		for _, in := range []string{
			"2025-03-07T09:30:00Z",
			"2025-03-07 09:30:00",
			"2025-03-07",
		} {
			s := in
			got, err := parseDatePtr(&s)
			require.NoError(t, err, in)
			require.NotNil(t, got)
			assert.Equal(t, 2025, got.Year())
		}
	})

	t.Run("garbage is an error", func(t *testing.T) {
		s := "next tuesday"
		_, err := parseDatePtr(&s)
		assert.Error(t, err)
	})
}
