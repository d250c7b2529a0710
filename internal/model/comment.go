package model

import "time"

// Comment is a note on a ticket, stored in `ticket_comments`.  The
// author fields are a snapshot of the authenticated principal at
// creation time and are never re-resolved afterwards.  Editing or
// deleting a comment requires the acting principal to match the stored
// author (email match, with a display-name match kept for rows written
// before user_email existed).
//
// Fields:
//  CommentID – surrogate primary key.
//  TicketID  – owning ticket; the comment is deleted with it.
//  UserName  – author display name snapshot.
//  UserEmail – author email snapshot.
//  Comment   – the note body.
//  CreatedAt – business-clock creation time.
type Comment struct {
	CommentID uint64    `json:"comment_id"` // ticket_comments.comment_id
	TicketID  string    `json:"ticket_id"`  // ticket_comments.ticket_id
	UserName  string    `json:"user_name"`  // ticket_comments.user_name
	UserEmail string    `json:"user_email"` // ticket_comments.user_email
	Comment   string    `json:"comment"`    // ticket_comments.comment
	CreatedAt time.Time `json:"created_at"` // ticket_comments.created_at
}
