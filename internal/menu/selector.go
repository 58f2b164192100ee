package menu

import (
	"time"

	"github.com/javiermolinar/madvognen/internal/dateutil"
)

// DefaultCutoff is the Friday time of day from which next week is shown.
const DefaultCutoff = 14 * time.Hour

// Selector picks the Monday of the week to display.
type Selector struct {
	Location *time.Location
	Cutoff   time.Duration // time of day on Friday; zero means DefaultCutoff
}

// NewSelector returns a Selector for loc using DefaultCutoff.
func NewSelector(loc *time.Location) Selector {
	return Selector{Location: loc, Cutoff: DefaultCutoff}
}

// Anchor returns the Monday to display at instant now, evaluated in the
// selector's location.
func (s Selector) Anchor(now time.Time) time.Time {
	if s.Location != nil {
		now = now.In(s.Location)
	}
	cutoff := s.Cutoff
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	return selectWeek(dateutil.TruncateToDay(now), clockOf(now), cutoff)
}

// clockOf returns the wall-clock time of day, unaffected by DST shifts.
func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// SelectWeek returns the Monday to display for a local date and time of day.
// Monday to Thursday, and Friday before 14:00, show the current week.
// Friday from 14:00 and the weekend show next week.
func SelectWeek(today time.Time, timeOfDay time.Duration) time.Time {
	return selectWeek(dateutil.TruncateToDay(today), timeOfDay, DefaultCutoff)
}

func selectWeek(today time.Time, timeOfDay, cutoff time.Duration) time.Time {
	monday := dateutil.MondayOf(today)
	switch today.Weekday() {
	case time.Saturday, time.Sunday:
		return monday.AddDate(0, 0, 7)
	case time.Friday:
		if timeOfDay >= cutoff {
			return monday.AddDate(0, 0, 7)
		}
	}
	return monday
}
