// Package scheduler runs the update job on a fixed interval plus an optional
// daily wall-clock trigger.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidClock is returned for a daily trigger not in HH:MM form.
var ErrInvalidClock = errors.New("invalid time of day")

// Job is one update cycle.
type Job func(ctx context.Context)

// Scheduler decides when the next update runs.
type Scheduler struct {
	interval time.Duration
	dailyAt  int // minutes since midnight, -1 when disabled
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
	trigger  chan struct{}
}

// Options configures a Scheduler.
type Options struct {
	Interval time.Duration // 0 disables the interval trigger
	DailyAt  string        // "HH:MM", empty disables the daily trigger
	Location *time.Location
	Logger   *zap.Logger
	Now      func() time.Time
}

// New creates a Scheduler.
func New(opts Options) (*Scheduler, error) {
	daily := -1
	if opts.DailyAt != "" {
		m, err := ParseClock(opts.DailyAt)
		if err != nil {
			return nil, err
		}
		daily = m
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("interval must not be negative, got %s", opts.Interval)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		interval: opts.Interval,
		dailyAt:  daily,
		loc:      loc,
		logger:   logger,
		now:      now,
		trigger:  make(chan struct{}, 1),
	}, nil
}

// Next returns when the job should run again after a run at last. It is the
// earlier of the interval deadline and the next daily trigger. The zero time
// means nothing is scheduled.
func (s *Scheduler) Next(last time.Time) time.Time {
	var next time.Time
	if s.interval > 0 {
		next = last.Add(s.interval)
	}
	if s.dailyAt >= 0 {
		daily := s.nextDaily(last)
		if next.IsZero() || daily.Before(next) {
			next = daily
		}
	}
	return next
}

// nextDaily returns the first daily trigger strictly after t.
func (s *Scheduler) nextDaily(t time.Time) time.Time {
	local := t.In(s.loc)
	y, m, d := local.Date()
	candidate := time.Date(y, m, d, s.dailyAt/60, s.dailyAt%60, 0, 0, s.loc)
	if !candidate.After(t) {
		candidate = time.Date(y, m, d+1, s.dailyAt/60, s.dailyAt%60, 0, 0, s.loc)
	}
	return candidate
}

// Trigger requests an immediate run. Calls while a request is pending are
// coalesced.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run executes job immediately and then on schedule until ctx is done. Runs
// never overlap.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		last := s.now()
		job(ctx)

		next := s.Next(last)
		var timer *time.Timer
		var fire <-chan time.Time
		if !next.IsZero() {
			wait := max(next.Sub(s.now()), 0)
			s.logger.Debug("next update scheduled", zap.Time("at", next), zap.Duration("in", wait))
			timer = time.NewTimer(wait)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case <-fire:
		case <-s.trigger:
			s.logger.Debug("manual update requested")
			if timer != nil {
				timer.Stop()
			}
		}
	}
}

// ParseClock parses "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[0:2]) || !isDigits(s[3:5]) {
		return 0, fmt.Errorf("%w: must be HH:MM, got %q", ErrInvalidClock, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: out of range, got %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
