package calendar

import "time"

// Week identifies an ISO 8601 week. Weeks start on Monday and the week-year
// can differ from the calendar year around New Year.
type Week struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Anchor and window boundaries are always computed in one fixed zone so
// that "current week" means the same thing for every caller. Day filtering
// itself works on stored local_date strings, not on instants.
var referenceZone = loadReferenceZone()

func loadReferenceZone() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		return time.UTC
	}
	return loc
}

// ResolveAnchor picks the most recent week of a paginated window: the
// explicit coordinate when the client supplies one, otherwise the ISO week
// containing now in the reference zone. Range validation of year and week
// happens upstream in the request handlers.
func ResolveAnchor(year, week int, explicit bool, now time.Time) Week {
	if explicit {
		return Week{Year: year, Week: week}
	}
	y, w := now.In(referenceZone).ISOWeek()
	return Week{Year: y, Week: w}
}

// WeekStart returns Monday 00:00 of the given ISO week in the reference zone.
func WeekStart(w Week) time.Time {
	// January 4th is always inside week 1 of its week-year.
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, referenceZone)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	return monday.AddDate(0, 0, (w.Week-1)*7)
}

// Window is a run of Count consecutive ISO weeks ending at the anchor week.
type Window struct {
	AnchorStart time.Time
	Count       int
}

// NewWindow expands an anchor coordinate and a pre-clamped count (1..52)
// into an absolute window.
func NewWindow(anchor Week, count int) Window {
	return Window{AnchorStart: WeekStart(anchor), Count: count}
}

func (w Window) earliestStart() time.Time {
	return w.AnchorStart.AddDate(0, 0, -7*(w.Count-1))
}

// StartDate is the inclusive lower bound on local_date for storage queries.
func (w Window) StartDate() string {
	return w.earliestStart().Format(DateLayout)
}

// EndDate is the exclusive upper bound on local_date for storage queries.
func (w Window) EndDate() string {
	return w.AnchorStart.AddDate(0, 0, 7).Format(DateLayout)
}

// NextCursor is the week one ISO week older than the earliest week in the
// window. The client sends it back verbatim to fetch the next page; there
// is no end-of-history sentinel, callers stop when pages come back empty.
func (w Window) NextCursor() Week {
	y, wk := w.earliestStart().AddDate(0, 0, -7).ISOWeek()
	return Week{Year: y, Week: wk}
}
