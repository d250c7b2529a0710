package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ticket-activity/internal/clock"
	"github.com/iliyamo/ticket-activity/internal/model"
)

// CommentRepo owns SQL against ticket_comments and the attachment-first
// cascade when a comment is removed.  Author identity is snapshotted
// from the acting principal at creation and guards every later
// mutation.
type CommentRepo struct {
	db  *sql.DB
	clk clock.Clock
}

// NewCommentRepo returns a CommentRepo bound to the given database and
// business clock.
func NewCommentRepo(db *sql.DB, clk clock.Clock) *CommentRepo {
	return &CommentRepo{db: db, clk: clk}
}

const commentColumns = `comment_id, ticket_id, user_name, user_email, comment, created_at`

// Create inserts a comment authored by the principal.  The owning
// ticket must exist; a missing ticket is sql.ErrNoRows.
func (r *CommentRepo) Create(ctx context.Context, ticketID string, p model.Principal, text string) (*model.Comment, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM tickets WHERE ticket_id = ?`, ticketID).Scan(&exists); err != nil {
		return nil, err
	}

	now := r.clk.Now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ticket_comments (ticket_id, user_name, user_email, comment, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ticketID, p.Name, p.Email, text, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Comment{
		CommentID: uint64(id),
		TicketID:  ticketID,
		UserName:  p.Name,
		UserEmail: p.Email,
		Comment:   text,
		CreatedAt: now,
	}, nil
}

// GetByID fetches a single comment.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM ticket_comments WHERE comment_id = ?`, id)
	return scanComment(row)
}

// ListByTicket returns the ticket's comments, newest first.
func (r *CommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM ticket_comments
		 WHERE ticket_id = ? ORDER BY created_at DESC, comment_id DESC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the comment body.  Only the stored author may edit:
// the acting principal must match by email, or by display name for rows
// written before user_email was populated.  A mismatch is ErrForbidden,
// a missing comment sql.ErrNoRows.
func (r *CommentRepo) Update(ctx context.Context, id uint64, actor model.Principal, text string) (*model.Comment, error) {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownsComment(cur, actor) {
		return nil, ErrForbidden
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE ticket_comments SET comment = ? WHERE comment_id = ?`, text, id); err != nil {
		return nil, err
	}
	cur.Comment = text
	return cur, nil
}

// Delete removes a comment and its attachments in one transaction,
// attachments first.  Same ownership rule as Update.
func (r *CommentRepo) Delete(ctx context.Context, id uint64, actor model.Principal) (*model.Comment, error) {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownsComment(cur, actor) {
		return nil, ErrForbidden
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comment_attachments WHERE comment_id = ?`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM ticket_comments WHERE comment_id = ?`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

// ownsComment reports whether the actor authored the comment.  Email is
// the stable identifier; the legacy display-name match keeps rows from
// before the user_email column editable by their authors.
func ownsComment(c *model.Comment, actor model.Principal) bool {
	if c.UserEmail != "" && c.UserEmail == actor.Email {
		return true
	}
	return c.UserName == actor.Name
}

// scanComment reads one comment row in commentColumns order.
func scanComment(row rowScanner) (*model.Comment, error) {
	var c model.Comment
	var email sql.NullString
	if err := row.Scan(&c.CommentID, &c.TicketID, &c.UserName, &email, &c.Comment, &c.CreatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		c.UserEmail = email.String
	}
	return &c, nil
}
