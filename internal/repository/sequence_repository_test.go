package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTicketID(t *testing.T) {
	day := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "TA2025030701", FormatTicketID(day, 1))
	assert.Equal(t, "TA2025030742", FormatTicketID(day, 42))
	assert.Equal(t, "TA2025030799", FormatTicketID(day, 99))
}

func TestNextTicketIDTx(t *testing.T) {
	day := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	upsert := regexp.QuoteMeta(`INSERT INTO ticket_sequences (seq_date, seq)`)

	t.Run("first ticket of the day", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(upsert).
			WithArgs("2025-03-07").
			WillReturnResult(sqlmock.NewResult(1, 1))

		tx, err := db.Begin()
		require.NoError(t, err)

		id, err := NewSequenceRepo(db).NextTicketIDTx(context.Background(), tx, day)
		require.NoError(t, err)
		assert.Equal(t, "TA2025030701", id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments the stored counter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(upsert).
			WithArgs("2025-03-07").
			WillReturnResult(sqlmock.NewResult(6, 1))

		tx, err := db.Begin()
		require.NoError(t, err)

		id, err := NewSequenceRepo(db).NextTicketIDTx(context.Background(), tx, day)
		require.NoError(t, err)
		assert.Equal(t, "TA2025030706", id)
	})

	t.Run("rejects the hundredth ticket", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(upsert).
			WithArgs("2025-03-07").
			WillReturnResult(sqlmock.NewResult(100, 1))

		tx, err := db.Begin()
		require.NoError(t, err)

		_, err = NewSequenceRepo(db).NextTicketIDTx(context.Background(), tx, day)
		assert.ErrorIs(t, err, ErrSequenceExhausted)
	})
}
