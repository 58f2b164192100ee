// Package sensor turns fetch results into the state and attributes exposed to
// the host, keeping the last known good week across failed updates.
package sensor

import (
	"errors"
	"time"

	"github.com/javiermolinar/madvognen/internal/dateutil"
	"github.com/javiermolinar/madvognen/internal/menu"
)

// Sentinel state values.
const (
	StateUnavailable = "unavailable"
	StateError       = "error"
)

// Phase is the lifecycle position of the menu sensor.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhasePopulated
	PhaseUnavailable // first update(s) found no menu
	PhaseError       // first update(s) failed outright
)

func (p Phase) String() string {
	switch p {
	case PhasePopulated:
		return "populated"
	case PhaseUnavailable:
		return "unavailable"
	case PhaseError:
		return "error"
	default:
		return "uninitialized"
	}
}

// Snapshot is an immutable view of a sensor at one instant.
type Snapshot struct {
	Name       string           `json:"name"`
	State      string           `json:"state"`
	Available  bool             `json:"available"`
	Attributes map[string]any   `json:"attributes"`
	Week       *menu.WeekRecord `json:"-"`
}

// MenuSensor holds the exposed weekly menu. It is owned by a single goroutine.
type MenuSensor struct {
	name        string
	record      *menu.WeekRecord
	phase       Phase
	lastAttempt time.Time
	lastError   string
}

// NewMenuSensor returns an uninitialized sensor.
func NewMenuSensor(name string) *MenuSensor {
	return &MenuSensor{name: name}
}

// Apply folds the result of one update into the sensor.
//
// A valid record replaces the previous one. On failure the previous record is
// kept and only the attempt time and error are refreshed; without a previous
// record the sensor becomes unavailable (no menu) or error (anything else).
func (s *MenuSensor) Apply(rec *menu.WeekRecord, err error, at time.Time) {
	s.lastAttempt = at

	if err == nil && rec.Valid() {
		s.record = rec
		s.phase = PhasePopulated
		s.lastError = ""
		return
	}

	if err == nil {
		err = menu.ErrNoMenu
	}
	s.lastError = err.Error()

	if s.phase == PhasePopulated {
		return
	}
	if errors.Is(err, menu.ErrNoMenu) {
		s.phase = PhaseUnavailable
	} else {
		s.phase = PhaseError
	}
}

// Phase returns the current lifecycle phase.
func (s *MenuSensor) Phase() Phase {
	return s.phase
}

// Record returns the last known good week, nil if none.
func (s *MenuSensor) Record() *menu.WeekRecord {
	return s.record
}

// State returns the ISO week id of the exposed week or a sentinel.
func (s *MenuSensor) State() string {
	switch s.phase {
	case PhasePopulated:
		return s.record.ID()
	case PhaseError:
		return StateError
	default:
		return StateUnavailable
	}
}

// Attributes returns the attribute bag for the current state.
func (s *MenuSensor) Attributes() map[string]any {
	attrs := map[string]any{}
	if s.record != nil {
		for i, d := range s.record.Days {
			attrs[menu.WeekdayKey(i)] = dayAttributes(d)
		}
		attrs["week_start"] = s.record.WeekStart.Format(dateutil.DateLayout)
		attrs["week_end"] = s.record.EndDate().Format(dateutil.DateLayout)
		attrs["available_days"] = s.record.AvailableDays()
		attrs["last_updated"] = s.record.LastUpdated.Format(time.RFC3339)
	}
	if !s.lastAttempt.IsZero() {
		attrs["last_attempt"] = s.lastAttempt.Format(time.RFC3339)
	}
	if s.lastError != "" {
		attrs["last_error"] = s.lastError
	}
	return attrs
}

// Snapshot returns the current state.
func (s *MenuSensor) Snapshot() Snapshot {
	return Snapshot{
		Name:       s.name,
		State:      s.State(),
		Available:  s.phase == PhasePopulated,
		Attributes: s.Attributes(),
		Week:       s.record,
	}
}

func dayAttributes(d menu.DayMenu) map[string]any {
	attrs := map[string]any{
		"date":           d.ISODate(),
		"date_formatted": d.FormattedDate,
		"items":          d.Strings(),
		"available":      d.Available,
	}
	if d.Note != "" {
		attrs["note"] = d.Note
	}
	if d.Error != "" {
		attrs["error"] = d.Error
	}
	return attrs
}
