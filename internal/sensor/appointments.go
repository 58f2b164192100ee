package sensor

import (
	"strconv"
	"time"

	"github.com/javiermolinar/madvognen/internal/dateutil"
	"github.com/javiermolinar/madvognen/internal/upstream"
)

// NoAppointments is the next-appointment state when nothing is scheduled.
const NoAppointments = "No appointments"

// AppointmentSensors exposes the appointment list as two sensors: the number
// of appointments and the next one. A failed update keeps the previous list
// but marks both sensors unavailable.
type AppointmentSensors struct {
	list        []upstream.Appointment
	ok          bool
	lastUpdated time.Time
	lastError   string
	loc         *time.Location
}

// NewAppointmentSensors creates the sensors; loc decides what "today" is.
func NewAppointmentSensors(loc *time.Location) *AppointmentSensors {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentSensors{loc: loc}
}

// Apply folds one update into the sensors.
func (a *AppointmentSensors) Apply(list []upstream.Appointment, err error, at time.Time) {
	if err != nil {
		a.ok = false
		a.lastError = err.Error()
		return
	}
	a.list = list
	a.ok = true
	a.lastError = ""
	a.lastUpdated = at
}

// Count returns the appointment-count sensor.
func (a *AppointmentSensors) Count() Snapshot {
	items := make([]map[string]any, 0, len(a.list))
	for _, appt := range a.list {
		items = append(items, appointmentAttributes(appt))
	}
	attrs := map[string]any{"appointments": items}
	a.addMeta(attrs)
	return Snapshot{
		Name:       "appointments",
		State:      strconv.Itoa(len(a.list)),
		Available:  a.ok,
		Attributes: attrs,
	}
}

// Next returns the next-appointment sensor.
func (a *AppointmentSensors) Next(now time.Time) Snapshot {
	attrs := map[string]any{}
	state := NoAppointments
	if next, ok := NextAppointment(a.list, now.In(a.loc)); ok {
		state = next.Description
		for k, v := range appointmentAttributes(next) {
			attrs[k] = v
		}
		attrs["total_appointments"] = len(a.list)
	}
	a.addMeta(attrs)
	return Snapshot{
		Name:       "next_appointment",
		State:      state,
		Available:  a.ok,
		Attributes: attrs,
	}
}

func (a *AppointmentSensors) addMeta(attrs map[string]any) {
	if !a.lastUpdated.IsZero() {
		attrs["last_updated"] = a.lastUpdated.Format(time.RFC3339)
	}
	if a.lastError != "" {
		attrs["last_error"] = a.lastError
	}
}

// NextAppointment returns the first appointment dated today or later. Entries
// whose date does not parse are kept in service order; when no entry has a
// parseable date the first one is returned.
func NextAppointment(list []upstream.Appointment, now time.Time) (upstream.Appointment, bool) {
	if len(list) == 0 {
		return upstream.Appointment{}, false
	}
	today := dateutil.TruncateToDay(now)
	anyDated := false
	for _, appt := range list {
		date, err := time.ParseInLocation(dateutil.DateLayout, appt.Date, now.Location())
		if err != nil {
			continue
		}
		anyDated = true
		if !date.Before(today) {
			return appt, true
		}
	}
	if !anyDated {
		return list[0], true
	}
	return upstream.Appointment{}, false
}

func appointmentAttributes(a upstream.Appointment) map[string]any {
	return map[string]any{
		"date":        a.Date,
		"what":        a.What,
		"time":        a.Time,
		"comment":     a.Comment,
		"description": a.Description,
	}
}
