// Package dateutil provides date parsing, week anchoring and timezone helpers
// shared by the week selector and the upstream client.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimezone is the canteen's local timezone.
const DefaultTimezone = "Europe/Copenhagen"

// DateLayout is the layout the upstream service uses for its echoed date.
const DateLayout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTimezone   = errors.New("unknown timezone")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadLocation resolves a timezone name, defaulting to DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// ParseDate parses a date string in YYYY-MM-DD format at midnight in loc.
// If the string is empty, returns today's date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if s == "" {
		return TruncateToDay(time.Now().In(loc)), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// MondayOf returns midnight of the Monday of the ISO week containing t.
func MondayOf(t time.Time) time.Time {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NoonMillis returns the Unix epoch milliseconds of 12:00 on the calendar day
// of date, interpreted in loc. Noon keeps the instant inside the same calendar
// day on both sides of a DST switch.
func NoonMillis(date time.Time, loc *time.Location) int64 {
	if loc == nil {
		loc = time.UTC
	}
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc)
	return noon.UTC().UnixMilli()
}

// ISOWeekID returns the ISO week identifier of t, e.g. "2025-W25".
func ISOWeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "yesterday", "next-week", "last-week"
//   - Weekday names: "monday" through "sunday" (that day in relativeTo's week)
//   - Next prefixed: "next-monday" through "next-sunday" (next occurrence, always future)
//
// All inputs are case-insensitive. Dates are returned at midnight in
// relativeTo's location. Returns ErrInvalidDateFormat for unrecognized input.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	case "last-week":
		return today.AddDate(0, 0, -7), nil
	}

	if strings.HasPrefix(input, "next-") {
		weekdayName := strings.TrimPrefix(input, "next-")
		if targetDay, ok := weekdayMap[weekdayName]; ok {
			return nextWeekday(today, targetDay), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		offset := int(targetDay) - 1
		if targetDay == time.Sunday {
			offset = 6
		}
		return MondayOf(today).AddDate(0, 0, offset), nil
	}

	return ParseDate(input, relativeTo.Location())
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
