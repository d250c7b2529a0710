// Package queue defines message payloads exchanged over the message broker.
package queue

// Ticket lifecycle actions carried in TicketEvent.Action.
const (
	ActionCreated = "created"
	ActionClosed  = "closed"
	ActionDeleted = "deleted"
)

// TicketEvent is published after a ticket is created, closed or
// deleted.  It carries enough for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type TicketEvent struct {
	Action     string `json:"action"`
	TicketID   string `json:"ticket_id"`
	Category   string `json:"category"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Activity   string `json:"activity"`
	ActorName  string `json:"actor_name"`
	ActorEmail string `json:"actor_email"`
	OccurredAt string `json:"occurred_at"`
}
