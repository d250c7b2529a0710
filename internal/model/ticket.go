package model

import "time"

// Ticket status values.  The update paths do not enforce the
// Open -> On Progress -> Closed ordering; the only status-driven side
// effect is the end_date stamp when a write sets StatusClosed.
const (
	StatusOpen       = "Open"
	StatusOnProgress = "On Progress"
	StatusClosed     = "Closed"
)

// Ticket represents a work-order record as stored in the `tickets`
// table.  The TicketID is the human-readable identifier in the form
// TA{YYYYMMDD}{NN} minted at creation and immutable afterwards.  These
// structs are serialized directly in API responses, so the json tags
// mirror the column names the browser client expects.
//
// Fields:
//  TicketID         – primary key, TA + date + 2-digit daily sequence.
//  Category         – ticket category (required at creation).
//  Type             – ticket type (required at creation).
//  Status           – Open | On Progress | Closed.
//  Activity         – short activity description (required at creation).
//  DetailActivity   – optional longer description.
//  CreatedByName    – display name of the creating principal.
//  CreatedByEmail   – email of the creating principal.
//  UserNameExecutor – assigned executor's display name.
//  UserEmail        – assigned executor's email.
//  StartDate        – set at creation from the business clock.
//  EndDate          – stamped when a write sets Status to Closed.
type Ticket struct {
	TicketID         string     `json:"ticket_id"`          // tickets.ticket_id
	Category         string     `json:"category"`           // tickets.category
	Type             string     `json:"type"`               // tickets.type
	Status           string     `json:"status"`             // tickets.status
	Activity         string     `json:"activity"`           // tickets.activity
	DetailActivity   *string    `json:"detail_activity"`    // tickets.detail_activity (nullable)
	CreatedByName    string     `json:"created_by_name"`    // tickets.created_by_name
	CreatedByEmail   string     `json:"created_by_email"`   // tickets.created_by_email
	UserNameExecutor *string    `json:"user_name_executor"` // tickets.user_name_executor (nullable)
	UserEmail        *string    `json:"user_email"`         // tickets.user_email (nullable)
	StartDate        time.Time  `json:"start_date"`         // tickets.start_date
	EndDate          *time.Time `json:"end_date"`           // tickets.end_date (nullable)
}
