// Package menu builds the weekly canteen menu: it picks the week to show,
// fetches each weekday and folds the results into a WeekRecord.
package menu

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/madvognen/internal/dateutil"
)

// DaysPerWeek is the number of served weekdays, Monday through Friday.
const DaysPerWeek = 5

// MenuItem is a dish name, trimmed and never empty.
type MenuItem string

// DayMenu is one calendar day's result. It is never mutated after construction.
type DayMenu struct {
	Date          time.Time  `json:"-"`
	FormattedDate string     `json:"date_formatted"`
	Items         []MenuItem `json:"items"`
	Available     bool       `json:"available"`
	Note          string     `json:"note,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// NewDayMenu builds a DayMenu. Availability follows from the day's own
// fields: at least one item and no fetch error.
func NewDayMenu(date time.Time, items []MenuItem, format dateutil.Format, note, errMsg string) DayMenu {
	if items == nil {
		items = []MenuItem{}
	}
	return DayMenu{
		Date:          date,
		FormattedDate: format.Render(date),
		Items:         items,
		Available:     len(items) > 0 && errMsg == "",
		Note:          note,
		Error:         errMsg,
	}
}

// ISODate returns the day's date as YYYY-MM-DD.
func (d DayMenu) ISODate() string {
	return d.Date.Format(dateutil.DateLayout)
}

// Strings returns the dish names as plain strings.
func (d DayMenu) Strings() []string {
	out := make([]string, len(d.Items))
	for i, item := range d.Items {
		out[i] = string(item)
	}
	return out
}

// WeekRecord holds Monday through Friday of one week.
type WeekRecord struct {
	WeekStart   time.Time // always a Monday
	LastUpdated time.Time
	Days        [DaysPerWeek]DayMenu // Monday (0) through Friday (4)
}

// Valid reports whether at least one day has a menu.
func (w *WeekRecord) Valid() bool {
	if w == nil {
		return false
	}
	for _, d := range w.Days {
		if d.Available {
			return true
		}
	}
	return false
}

// AvailableDays returns how many days have a menu.
func (w *WeekRecord) AvailableDays() int {
	n := 0
	for _, d := range w.Days {
		if d.Available {
			n++
		}
	}
	return n
}

// ID returns the ISO week identifier, e.g. "2025-W25".
func (w *WeekRecord) ID() string {
	return dateutil.ISOWeekID(w.WeekStart)
}

// EndDate returns the Friday of the week.
func (w *WeekRecord) EndDate() time.Time {
	return w.WeekStart.AddDate(0, 0, DaysPerWeek-1)
}

// Day returns the menu for a weekday, false for Saturday and Sunday.
func (w *WeekRecord) Day(weekday time.Weekday) (DayMenu, bool) {
	if weekday < time.Monday || weekday > time.Friday {
		return DayMenu{}, false
	}
	return w.Days[weekday-time.Monday], true
}

// DayByDate returns the menu for a calendar date inside the week.
func (w *WeekRecord) DayByDate(date time.Time) (DayMenu, bool) {
	for _, d := range w.Days {
		if dateutil.SameDay(d.Date, date) {
			return d, true
		}
	}
	return DayMenu{}, false
}

// Text renders the week as plain text, one dish per line.
func (w *WeekRecord) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Menu %s\n", w.ID())
	for i, d := range w.Days {
		fmt.Fprintf(&b, "\n%s (%s)\n", WeekdayName(i), d.FormattedDate)
		if !d.Available {
			b.WriteString("- no menu\n")
			continue
		}
		for _, item := range d.Items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	return b.String()
}

// WeekdayName returns the English name of the weekday (0=Monday).
func WeekdayName(weekday int) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return names[weekday]
}

// WeekdayKey returns the lower-case attribute key of the weekday (0=Monday).
func WeekdayKey(weekday int) string {
	keys := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return keys[weekday]
}
