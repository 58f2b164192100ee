package menu

import (
	"testing"
	"time"
)

func TestSelectWeek(t *testing.T) {
	// Week of Monday 2025-06-16.
	current := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	next := time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		day  int // offset from Monday
		at   time.Duration
		want time.Time
	}{
		{name: "monday early", day: 0, at: 0, want: current},
		{name: "monday late", day: 0, at: 23*time.Hour + 59*time.Minute, want: current},
		{name: "tuesday afternoon", day: 1, at: 15 * time.Hour, want: current},
		{name: "wednesday noon", day: 2, at: 12 * time.Hour, want: current},
		{name: "thursday evening", day: 3, at: 22 * time.Hour, want: current},
		{name: "friday morning", day: 4, at: 8 * time.Hour, want: current},
		{name: "friday one minute before cutoff", day: 4, at: 13*time.Hour + 59*time.Minute, want: current},
		{name: "friday at cutoff", day: 4, at: 14 * time.Hour, want: next},
		{name: "friday evening", day: 4, at: 20 * time.Hour, want: next},
		{name: "saturday midnight", day: 5, at: 0, want: next},
		{name: "saturday noon", day: 5, at: 12 * time.Hour, want: next},
		{name: "sunday late", day: 6, at: 23 * time.Hour, want: next},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today := current.AddDate(0, 0, tt.day)
			got := SelectWeek(today, tt.at)
			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
			if got.Weekday() != time.Monday {
				t.Errorf("got weekday %s, want Monday", got.Weekday())
			}
			if got.Before(current) {
				t.Errorf("anchor %s is before the input week", got.Format("2006-01-02"))
			}
		})
	}
}

func TestSelector_Anchor(t *testing.T) {
	cph, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	s := NewSelector(cph)

	t.Run("instant is evaluated in the configured zone", func(t *testing.T) {
		// 12:30 UTC on Friday is 14:30 in Copenhagen (CEST).
		now := time.Date(2025, 6, 20, 12, 30, 0, 0, time.UTC)
		got := s.Anchor(now)
		want := time.Date(2025, 6, 23, 0, 0, 0, 0, cph)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("before cutoff locally", func(t *testing.T) {
		// 11:59 UTC is 13:59 in Copenhagen.
		now := time.Date(2025, 6, 20, 11, 59, 0, 0, time.UTC)
		got := s.Anchor(now)
		want := time.Date(2025, 6, 16, 0, 0, 0, 0, cph)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("sunday late UTC is already monday locally", func(t *testing.T) {
		// 22:30 UTC Sunday is 00:30 Monday in Copenhagen.
		now := time.Date(2025, 6, 22, 22, 30, 0, 0, time.UTC)
		got := s.Anchor(now)
		want := time.Date(2025, 6, 23, 0, 0, 0, 0, cph)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("custom cutoff", func(t *testing.T) {
		early := Selector{Location: cph, Cutoff: 10 * time.Hour}
		now := time.Date(2025, 6, 20, 9, 0, 0, 0, cph)
		got := early.Anchor(now)
		want := time.Date(2025, 6, 23, 0, 0, 0, 0, cph)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}
