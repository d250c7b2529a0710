// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. Not-found
// conditions are reported as sql.ErrNoRows, matching what the query
// helpers return naturally.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts a mutation on a
// comment they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrSequenceExhausted is returned by the identifier minter when the
// daily ticket sequence has reached its two-digit maximum (99). Ticket
// creation must be rejected for the rest of the civil day.
var ErrSequenceExhausted = errors.New("daily ticket sequence exhausted")

// ErrUploadFailed is returned when the external object store did not
// produce a URL for an uploaded file. No attachment row may be written
// in that case.
var ErrUploadFailed = errors.New("upload failed")
