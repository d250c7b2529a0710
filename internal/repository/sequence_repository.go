package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// maxDailySequence caps the two-digit suffix of a ticket identifier.
// There is no rollover to a third digit; creation is rejected once the
// day's counter passes it.
const maxDailySequence = 99

// SequenceRepo mints ticket identifiers of the form TA{YYYYMMDD}{NN},
// unique per civil day.  The per-day counter lives in the
// ticket_sequences table and is advanced with an atomic
// upsert-and-increment, so two concurrent creations can no longer read
// the same value.  The unique key on tickets.ticket_id remains in place
// as a safety net for rows that predate the counter table.
type SequenceRepo struct {
	db *sql.DB
}

// NewSequenceRepo returns a SequenceRepo bound to the given database.
func NewSequenceRepo(db *sql.DB) *SequenceRepo { return &SequenceRepo{db: db} }

// NextTicketIDTx reserves the next identifier for the given civil day
// inside the caller's transaction.  LAST_INSERT_ID wraps the stored
// counter value so the increment and the read are a single statement.
// Returns ErrSequenceExhausted when the day's counter passes 99; the
// caller must roll back so the burned value is released.
func (r *SequenceRepo) NextTicketIDTx(ctx context.Context, tx *sql.Tx, day time.Time) (string, error) {
	const q = `INSERT INTO ticket_sequences (seq_date, seq)
		VALUES (?, LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)`
	res, err := tx.ExecContext(ctx, q, day.Format("2006-01-02"))
	if err != nil {
		return "", err
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	if seq > maxDailySequence {
		return "", ErrSequenceExhausted
	}
	return FormatTicketID(day, int(seq)), nil
}

// FormatTicketID renders the canonical identifier for a day and
// sequence number: "TA" + yyyymmdd + zero-padded two-digit sequence.
func FormatTicketID(day time.Time, seq int) string {
	return fmt.Sprintf("TA%s%02d", day.Format("20060102"), seq)
}
