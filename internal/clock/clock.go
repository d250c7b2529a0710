// Package clock abstracts "now" in the business timezone.  Every ticket
// timestamp (start_date, end_date, comment created_at) is derived from the
// civil time of the operations team, not from the server machine's zone.
// Handlers and repositories receive a Clock so tests can pin the time.
package clock

import "time"

// Clock returns the current time in a fixed civil timezone.
type Clock interface {
	// Now returns the current instant localized to the business zone.
	Now() time.Time
}

// ZoneClock is the production Clock backed by time.Now and a loaded
// *time.Location.
type ZoneClock struct {
	loc *time.Location
}

// NewZoneClock loads the named IANA timezone (e.g. "Asia/Jakarta").  An
// unknown name falls back to a fixed UTC+7 offset so the service still
// starts with sane business timestamps.
func NewZoneClock(name string) *ZoneClock {
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.FixedZone("UTC+7", 7*60*60)
	}
	return &ZoneClock{loc: loc}
}

func (z *ZoneClock) Now() time.Time { return time.Now().In(z.loc) }

// Fixed is a Clock that always returns the same instant.  Used by tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
