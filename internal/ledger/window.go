package ledger

import "time"

// Dining and hold durations.  A claimed slot always covers a fixed
// 3-hour dining window starting at the requested time.  A fresh hold
// stays valid for one hour; once booked, the record instead expires at
// the end of the dining window itself.
const (
	DiningWindow = 3 * time.Hour
	HoldTTL      = 1 * time.Hour
)

// Date and time-of-day layouts used on hold and inventory records.
// Dates carry local calendar semantics and no timezone; parsing places
// them in UTC purely so instants can be compared.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Window is a half-open interval [Start, End) on the timeline.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open windows intersect.  Touching
// endpoints (one window ending exactly when the other starts) do not
// overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// CombineDateTime parses a calendar date and a time of day into a
// single instant in UTC.  Returns ErrInvalidInput when either part
// does not parse.
func CombineDateTime(date, timeOfDay string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeOfDay, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidInput
	}
	return t, nil
}

// DiningWindowAt returns the 3-hour window starting at the combined
// date and time of day.
func DiningWindowAt(date, timeOfDay string) (Window, error) {
	start, err := CombineDateTime(date, timeOfDay)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: start.Add(DiningWindow)}, nil
}
