package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/ticket-activity/internal/clock"
	"github.com/iliyamo/ticket-activity/internal/model"
)

// ticketColumns is the scan order used by every ticket SELECT in this
// package.  Count, list and export share it so the three call sites can
// never disagree on row shape.
const ticketColumns = `ticket_id, category, type, status, activity, detail_activity,
	created_by_name, created_by_email, user_name_executor, user_email, start_date, end_date`

// TicketRepo owns all SQL against the tickets table and coordinates the
// multi-table cascade when a ticket is removed.  Timestamps come from
// the injected business clock, never from the database server.
type TicketRepo struct {
	db  *sql.DB
	clk clock.Clock
	seq *SequenceRepo
}

// NewTicketRepo returns a TicketRepo bound to the given database, clock
// and identifier minter.
func NewTicketRepo(db *sql.DB, clk clock.Clock, seq *SequenceRepo) *TicketRepo {
	return &TicketRepo{db: db, clk: clk, seq: seq}
}

// CreateInput carries the caller-controlled fields of a new ticket.
// Author identity is not here: created_by_* always comes from the
// authenticated principal.
type CreateInput struct {
	Category         string
	Type             string
	Status           string
	Activity         string
	DetailActivity   *string
	UserNameExecutor *string
	UserEmail        *string
	EndDate          *time.Time
}

// UpdateInput carries the caller-controlled fields of a partial update.
// A nil field means "leave the stored value unchanged"; the update SQL
// coalesces every column, so "absent" and "null" are indistinguishable
// and a field cannot be cleared through this path.
type UpdateInput struct {
	Category         *string
	Type             *string
	Status           *string
	Activity         *string
	DetailActivity   *string
	UserNameExecutor *string
	UserEmail        *string
	EndDate          *time.Time
}

// FieldPolicy restricts which UpdateInput fields an update path may
// bind.  The editor path may reassign the executor; the engineer path
// may not touch identity fields at all.  Neither path can reach
// created_by_*, start_date or the ticket identifier.
type FieldPolicy struct {
	AllowExecutorAssign bool
}

// Field policies for the two update endpoints.
var (
	EditorFields   = FieldPolicy{AllowExecutorAssign: true}
	ExecutorFields = FieldPolicy{}
)

// mask zeroes the fields the policy withholds from the caller.
func (p FieldPolicy) mask(in UpdateInput) UpdateInput {
	if !p.AllowExecutorAssign {
		in.UserNameExecutor = nil
		in.UserEmail = nil
	}
	return in
}

// Create mints a fresh identifier and inserts the ticket in one
// transaction.  created_by_* is stamped from the principal, start_date
// from the business clock.  A status of Closed stamps end_date with the
// current time regardless of any caller-supplied value; otherwise the
// caller's end_date (possibly nil) is stored as-is.
func (r *TicketRepo) Create(ctx context.Context, p model.Principal, in CreateInput) (*model.Ticket, error) {
	now := r.clk.Now()

	endDate := in.EndDate
	if in.Status == model.StatusClosed {
		endDate = &now
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := r.seq.NextTicketIDTx(ctx, tx, now)
	if err != nil {
		return nil, err
	}

	const q = `INSERT INTO tickets
		(ticket_id, category, type, status, activity, detail_activity,
		 created_by_name, created_by_email, user_name_executor, user_email, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q,
		id, in.Category, in.Type, in.Status, in.Activity, in.DetailActivity,
		p.Name, p.Email, in.UserNameExecutor, in.UserEmail, now, endDate,
	); err != nil {
		// Duplicate ticket_id means a row bypassed the counter table
		// (legacy data or a concurrent writer on another schema).  The
		// unique key is the last line of defense; surface it as a
		// generic creation failure.
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, fmt.Errorf("ticket id %s already exists: %w", id, err)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Ticket{
		TicketID:         id,
		Category:         in.Category,
		Type:             in.Type,
		Status:           in.Status,
		Activity:         in.Activity,
		DetailActivity:   in.DetailActivity,
		CreatedByName:    p.Name,
		CreatedByEmail:   p.Email,
		UserNameExecutor: in.UserNameExecutor,
		UserEmail:        in.UserEmail,
		StartDate:        now,
		EndDate:          endDate,
	}, nil
}

// GetByID fetches a single ticket.  Returns sql.ErrNoRows when no
// ticket carries the identifier.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE ticket_id = ?`, id)
	return scanTicket(row)
}

// Update applies COALESCE partial-update semantics to the ticket: every
// nil input field keeps the stored value.  The policy masks fields the
// calling path may not bind before anything reaches SQL.  Setting the
// status to Closed stamps end_date from the business clock, overriding
// any caller-supplied value; any other incoming status leaves end_date
// alone unless one is explicitly supplied.  Returns sql.ErrNoRows when
// the ticket does not exist.
func (r *TicketRepo) Update(ctx context.Context, id string, in UpdateInput, policy FieldPolicy) (*model.Ticket, error) {
	in = policy.mask(in)

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	endDate := in.EndDate
	if in.Status != nil && *in.Status == model.StatusClosed {
		now := r.clk.Now()
		endDate = &now
	}

	const q = `UPDATE tickets SET
		category           = COALESCE(?, category),
		type               = COALESCE(?, type),
		status             = COALESCE(?, status),
		activity           = COALESCE(?, activity),
		detail_activity    = COALESCE(?, detail_activity),
		user_name_executor = COALESCE(?, user_name_executor),
		user_email         = COALESCE(?, user_email),
		end_date           = COALESCE(?, end_date)
		WHERE ticket_id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		in.Category, in.Type, in.Status, in.Activity, in.DetailActivity,
		in.UserNameExecutor, in.UserEmail, endDate, id,
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes a ticket together with every comment under it and
// every attachment under those comments, in dependency order inside a
// single transaction.  The existence check runs before the transaction
// opens; a missing ticket is sql.ErrNoRows and nothing is touched.  Any
// step failure rolls the whole cascade back.
func (r *TicketRepo) Delete(ctx context.Context, id string) (*model.Ticket, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const delAttachments = `DELETE ca FROM comment_attachments ca
		JOIN ticket_comments tc ON tc.comment_id = ca.comment_id
		WHERE tc.ticket_id = ?`
	if _, err := tx.ExecContext(ctx, delAttachments, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ticket_comments WHERE ticket_id = ?`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE ticket_id = ?`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTicket reads one ticket row in ticketColumns order.
func scanTicket(row rowScanner) (*model.Ticket, error) {
	var t model.Ticket
	var detail, executor, userEmail sql.NullString
	var endDate sql.NullTime
	if err := row.Scan(
		&t.TicketID, &t.Category, &t.Type, &t.Status, &t.Activity, &detail,
		&t.CreatedByName, &t.CreatedByEmail, &executor, &userEmail, &t.StartDate, &endDate,
	); err != nil {
		return nil, err
	}
	if detail.Valid {
		t.DetailActivity = &detail.String
	}
	if executor.Valid {
		t.UserNameExecutor = &executor.String
	}
	if userEmail.Valid {
		t.UserEmail = &userEmail.String
	}
	if endDate.Valid {
		t.EndDate = &endDate.Time
	}
	return &t, nil
}
