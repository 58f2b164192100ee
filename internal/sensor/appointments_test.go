package sensor

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/madvognen/internal/upstream"
)

func TestNextAppointment(t *testing.T) {
	now := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)
	past := upstream.Appointment{Date: "2025-06-10", Description: "past"}
	today := upstream.Appointment{Date: "2025-06-18", Description: "today"}
	future := upstream.Appointment{Date: "2025-07-01", Description: "future"}
	undated := upstream.Appointment{Date: "snart", Description: "undated"}

	tests := []struct {
		name   string
		list   []upstream.Appointment
		want   string
		wantOK bool
	}{
		{name: "empty", list: nil},
		{name: "skips past", list: []upstream.Appointment{past, future}, want: "future", wantOK: true},
		{name: "today counts as upcoming", list: []upstream.Appointment{past, today, future}, want: "today", wantOK: true},
		{name: "all past", list: []upstream.Appointment{past}},
		{name: "undated falls back to first", list: []upstream.Appointment{undated, {Description: "second"}}, want: "undated", wantOK: true},
		{name: "undated ignored when dated exist", list: []upstream.Appointment{undated, future}, want: "future", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextAppointment(tt.list, now)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got.Description != tt.want {
				t.Errorf("got %q, want %q", got.Description, tt.want)
			}
		})
	}
}

func TestAppointmentSensors(t *testing.T) {
	now := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)
	a := NewAppointmentSensors(time.UTC)

	if got := a.Next(now).State; got != NoAppointments {
		t.Errorf("initial next = %q, want %q", got, NoAppointments)
	}
	if got := a.Count().State; got != "0" {
		t.Errorf("initial count = %q, want 0", got)
	}

	list := []upstream.Appointment{
		{Date: "2025-06-20", What: "Tandlæge", Time: "09:00", Description: "Tandlæge"},
		{Date: "2025-06-25", What: "Frisør", Description: "Frisør"},
	}
	a.Apply(list, nil, now)

	count := a.Count()
	if count.State != "2" || !count.Available {
		t.Errorf("count = %+v", count)
	}
	if items := count.Attributes["appointments"].([]map[string]any); len(items) != 2 {
		t.Errorf("appointments attribute has %d entries", len(items))
	}

	next := a.Next(now)
	if next.State != "Tandlæge" {
		t.Errorf("next = %q, want Tandlæge", next.State)
	}
	if next.Attributes["time"] != "09:00" || next.Attributes["total_appointments"] != 2 {
		t.Errorf("next attributes = %v", next.Attributes)
	}

	a.Apply(nil, errors.New("unexpected upstream status: 503"), now.Add(time.Hour))
	count = a.Count()
	if count.Available {
		t.Error("count should be unavailable after a failed update")
	}
	if count.State != "2" {
		t.Errorf("count should keep the previous list, got %q", count.State)
	}
	if count.Attributes["last_error"] != "unexpected upstream status: 503" {
		t.Errorf("last_error = %v", count.Attributes["last_error"])
	}
	if count.Attributes["last_updated"] != now.Format(time.RFC3339) {
		t.Errorf("last_updated = %v", count.Attributes["last_updated"])
	}
}
