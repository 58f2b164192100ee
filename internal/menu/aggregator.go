package menu

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/javiermolinar/madvognen/internal/dateutil"
)

// DefaultPace is the minimum delay between the end of one upstream request
// and the start of the next within a pass.
const DefaultPace = time.Second

// DuplicateNote flags a day whose dishes equal the previous available day.
const DuplicateNote = "possibly repeated from previous day"

// ErrNoMenu is returned when no day of the week has a menu.
var ErrNoMenu = errors.New("no menu available for any day of the week")

// DayFetcher fetches the dishes of one day. An empty result means no menu.
type DayFetcher interface {
	FetchDay(ctx context.Context, groupID int, date time.Time) ([]string, error)
}

// Session is a DayFetcher scoped to one aggregation pass.
type Session interface {
	DayFetcher
	Close() error
}

// SessionOpener starts a new Session.
type SessionOpener func() Session

// AggregatorOptions configures an Aggregator.
type AggregatorOptions struct {
	Format dateutil.Format
	Pace   time.Duration // zero disables pacing
	Now    func() time.Time
	Logger *zap.Logger
}

// Aggregator assembles WeekRecords from per-day fetches.
// It holds no state between FetchWeek calls.
type Aggregator struct {
	open   SessionOpener
	format dateutil.Format
	pace   time.Duration
	now    func() time.Time
	log    *zap.Logger
}

// NewAggregator creates an Aggregator that opens one session per pass.
func NewAggregator(open SessionOpener, opts AggregatorOptions) *Aggregator {
	a := &Aggregator{
		open:   open,
		format: opts.Format,
		pace:   opts.Pace,
		now:    opts.Now,
		log:    opts.Logger,
	}
	if a.format == "" {
		a.format = dateutil.FormatISO
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

// FetchWeek fetches Monday through Friday of the week starting at monday.
//
// Days are fetched one after another; each request starts at least the
// configured pace after the previous one returned, and nothing waits after
// Friday. A failing day is recorded as unavailable and the pass
// continues. ErrNoMenu is returned when no day ends up available; a canceled
// context aborts the pass with ctx.Err().
func (a *Aggregator) FetchWeek(ctx context.Context, groupID int, monday time.Time) (*WeekRecord, error) {
	monday = dateutil.MondayOf(monday)

	session := a.open()
	defer func() { _ = session.Close() }()

	rec := &WeekRecord{WeekStart: monday, LastUpdated: a.now()}
	var previous []string // dishes of the last available day
	var gap *rate.Reservation

	for i := range DaysPerWeek {
		date := monday.AddDate(0, 0, i)
		if gap != nil {
			if err := sleep(ctx, gap.DelayFrom(time.Now())); err != nil {
				return nil, err
			}
		}

		dishes, err := session.FetchDay(ctx, groupID, date)
		if i < DaysPerWeek-1 {
			gap = a.reserveGap(time.Now())
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			a.log.Warn("day fetch failed",
				zap.Int("group_id", groupID),
				zap.String("day", WeekdayName(i)),
				zap.Error(err))
			rec.Days[i] = NewDayMenu(date, nil, a.format, "", err.Error())
			continue
		}

		var note string
		if len(dishes) > 0 && slices.Equal(dishes, previous) {
			note = DuplicateNote
			a.log.Info("menu repeats previous day",
				zap.Int("group_id", groupID),
				zap.String("day", WeekdayName(i)))
		}
		rec.Days[i] = NewDayMenu(date, toItems(dishes), a.format, note, "")
		if len(dishes) > 0 {
			previous = dishes
		}
	}

	if !rec.Valid() {
		return nil, ErrNoMenu
	}
	a.log.Debug("week assembled",
		zap.Int("group_id", groupID),
		zap.String("week", rec.ID()),
		zap.Int("available_days", rec.AvailableDays()))
	return rec, nil
}

func toItems(dishes []string) []MenuItem {
	items := make([]MenuItem, len(dishes))
	for i, d := range dishes {
		items[i] = MenuItem(d)
	}
	return items
}

// reserveGap reserves the pause that follows a request ending at end. The
// limiter is fresh and its burst token is spent on the request that just
// ended, so the reservation is exactly one pace away. Nil when pacing is off.
func (a *Aggregator) reserveGap(end time.Time) *rate.Reservation {
	if a.pace <= 0 {
		return nil
	}
	lim := rate.NewLimiter(rate.Every(a.pace), 1)
	lim.ReserveN(end, 1)
	return lim.ReserveN(end, 1)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
