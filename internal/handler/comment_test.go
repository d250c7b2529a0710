package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-activity/internal/clock"
	"github.com/iliyamo/ticket-activity/internal/repository"
)

func newCommentTestEnv(t *testing.T) (*CommentHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk := clock.Fixed{T: time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC)}
	return NewCommentHandler(repository.NewCommentRepo(db, clk)), mock
}

func TestCommentCreateEndpoint(t *testing.T) {
	t.Run("author snapshot comes from the principal", func(t *testing.T) {
		h, mock := newCommentTestEnv(t)

		mock.ExpectQuery("SELECT 1 FROM tickets WHERE ticket_id").
			WithArgs("TA2025030701").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
		mock.ExpectExec("INSERT INTO ticket_comments").
			WithArgs("TA2025030701", "John Doe", "john.doe@example.com", "checked the encoder", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(12, 1))

		c, rec := newContext(t, http.MethodPost, "/api/comments",
			`{"ticket_id":"TA2025030701","comment":"checked the encoder"}`, true)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "comment added", body["message"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank comment is rejected", func(t *testing.T) {
		h, _ := newCommentTestEnv(t)

		c, rec := newContext(t, http.MethodPost, "/api/comments",
			`{"ticket_id":"TA2025030701","comment":"   "}`, true)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown ticket maps to 404", func(t *testing.T) {
		h, mock := newCommentTestEnv(t)

		mock.ExpectQuery("SELECT 1 FROM tickets WHERE ticket_id").
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		c, rec := newContext(t, http.MethodPost, "/api/comments",
			`{"ticket_id":"TA2099010101","comment":"hello"}`, true)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ticket not found", decodeBody(t, rec)["message"])
	})
}

func TestCommentUpdateEndpoint(t *testing.T) {
	t.Run("foreign comment maps to 403", func(t *testing.T) {
		h, mock := newCommentTestEnv(t)

		mock.ExpectQuery("FROM ticket_comments WHERE comment_id").
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{
				"comment_id", "ticket_id", "user_name", "user_email", "comment", "created_at",
			}).AddRow(7, "TA2025030701", "Jane Roe", "jane.roe@example.com", "first look", time.Now()))

		c, rec := newContext(t, http.MethodPut, "/api/comments/7", `{"comment":"edited"}`, true)
		c.SetParamNames("comment_id")
		c.SetParamValues("7")
		require.NoError(t, h.Update(c))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "you can only modify your own comments", decodeBody(t, rec)["message"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		h, _ := newCommentTestEnv(t)

		c, rec := newContext(t, http.MethodPut, "/api/comments/abc", `{"comment":"edited"}`, true)
		c.SetParamNames("comment_id")
		c.SetParamValues("abc")
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
