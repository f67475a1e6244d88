package calendar

import "time"

// DateLayout is the wire and storage format for local calendar dates.
const DateLayout = "2006-01-02"

// ResolveLocalDate returns the calendar date observed in the poster's zone
// at the moment of creation. It is computed exactly once, when the post is
// created, and stored; the stored date permanently fixes which day bucket
// the post belongs to regardless of who views it later.
func ResolveLocalDate(createdAt time.Time, tz string) string {
	loc, err := time.LoadLocation(NormalizeTimezone(tz))
	if err != nil {
		loc = time.UTC
	}
	return createdAt.In(loc).Format(DateLayout)
}
