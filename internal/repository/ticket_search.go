package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/ticket-activity/internal/model"
)

// TicketFilter defines the case-insensitive substring filters accepted
// by the list, count and export operations.  Empty fields are ignored.
type TicketFilter struct {
	Category         string
	UserNameExecutor string
	Activity         string
	Type             string
	Status           string
	CreatedByName    string
}

// statusOrder sorts Open tickets first, then On Progress, then Closed,
// then anything unrecognized; newest identifier first inside each
// bucket.  Open work always surfaces ahead of finished work regardless
// of recency.
const statusOrder = `ORDER BY CASE status
		WHEN 'Open' THEN 0
		WHEN 'On Progress' THEN 1
		WHEN 'Closed' THEN 2
		ELSE 3 END, ticket_id DESC`

// buildTicketFilter produces the WHERE condition and its arguments.
// Count, List and Export all call it with the same filter so the three
// queries can never disagree about which rows match; pagination totals
// must match what an export of the same filters returns.
func buildTicketFilter(f TicketFilter) (string, []any) {
	where := []string{}
	args := []any{}

	like := func(col, v string) {
		if v != "" {
			where = append(where, "LOWER("+col+") LIKE ?")
			args = append(args, "%"+strings.ToLower(v)+"%")
		}
	}
	like("category", f.Category)
	like("user_name_executor", f.UserNameExecutor)
	like("activity", f.Activity)
	like("type", f.Type)
	like("status", f.Status)
	like("created_by_name", f.CreatedByName)

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Count returns the number of tickets matching the filter.
func (r *TicketRepo) Count(ctx context.Context, f TicketFilter) (int64, error) {
	cond, args := buildTicketFilter(f)
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE `+cond, args...).Scan(&total)
	return total, err
}

// List returns one page of matching tickets plus the unpaginated total.
// Pages are 1-indexed; offset = (page-1)*limit.  No matches is not an
// error: the slice is empty and the total zero.
func (r *TicketRepo) List(ctx context.Context, f TicketFilter, page, limit int) ([]model.Ticket, int64, error) {
	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	cond, args := buildTicketFilter(f)
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` + cond + ` ` +
		statusOrder + ` LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, q, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Ticket, 0, limit)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Export returns every matching ticket in the same order the paginated
// listing uses, with no limit.  The report download is built from this.
func (r *TicketRepo) Export(ctx context.Context, f TicketFilter) ([]model.Ticket, error) {
	cond, args := buildTicketFilter(f)
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` + cond + ` ` + statusOrder

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
