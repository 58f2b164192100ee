// Package coordinator runs one update cycle: it selects the week to show,
// fetches it, and folds the result into the exposed sensors.
package coordinator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/madvognen/internal/config"
	"github.com/javiermolinar/madvognen/internal/menu"
	"github.com/javiermolinar/madvognen/internal/sensor"
	"github.com/javiermolinar/madvognen/internal/upstream"
)

// MenuSensorName names the weekly menu sensor.
const MenuSensorName = "canteen_menu"

// WeekFetcher fetches one week of menus.
type WeekFetcher interface {
	FetchWeek(ctx context.Context, groupID int, monday time.Time) (*menu.WeekRecord, error)
}

// AppointmentFetcher fetches the appointment list.
type AppointmentFetcher interface {
	FetchAppointments(ctx context.Context) ([]upstream.Appointment, error)
}

// Options configures a Coordinator.
type Options struct {
	GroupID      int
	Selector     menu.Selector
	Weeks        WeekFetcher
	Appointments AppointmentFetcher // nil disables the appointment sensors
	Now          func() time.Time
	Logger       *zap.Logger
}

// Coordinator owns the sensors. It is not safe for concurrent use; run it
// from the scheduler goroutine and hand Results to consumers.
type Coordinator struct {
	groupID  int
	selector menu.Selector
	weeks    WeekFetcher
	appts    AppointmentFetcher
	now      func() time.Time
	log      *zap.Logger

	menuSensor  *sensor.MenuSensor
	apptSensors *sensor.AppointmentSensors
}

// Result is the outcome of one update cycle.
type Result struct {
	At      time.Time
	Week    time.Time // Monday that was requested
	Err     error     // menu fetch error, nil on success
	ApptErr error
	Sensors []sensor.Snapshot // menu sensor first
}

// Menu returns the menu sensor snapshot.
func (r Result) Menu() sensor.Snapshot {
	if len(r.Sensors) == 0 {
		return sensor.Snapshot{Name: MenuSensorName, State: sensor.StateUnavailable}
	}
	return r.Sensors[0]
}

// New creates a Coordinator.
func New(opts Options) *Coordinator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		groupID:    opts.GroupID,
		selector:   opts.Selector,
		weeks:      opts.Weeks,
		appts:      opts.Appointments,
		now:        now,
		log:        logger,
		menuSensor: sensor.NewMenuSensor(MenuSensorName),
	}
	if c.appts != nil {
		c.apptSensors = sensor.NewAppointmentSensors(opts.Selector.Location)
	}
	return c
}

// Update runs one cycle. A canceled context aborts the cycle without
// touching the sensors.
func (c *Coordinator) Update(ctx context.Context) Result {
	start := c.now()
	monday := c.selector.Anchor(start)
	log := c.log.With(zap.Int("group", c.groupID), zap.String("week", monday.Format("2006-01-02")))

	res := Result{At: start, Week: monday}

	rec, err := c.weeks.FetchWeek(ctx, c.groupID, monday)
	if ctxErr := ctx.Err(); ctxErr != nil && (err == nil || errors.Is(err, ctxErr)) {
		log.Debug("update aborted", zap.Error(ctxErr))
		res.Err = ctxErr
		res.Sensors = c.snapshots(start)
		return res
	}
	res.Err = err

	c.menuSensor.Apply(rec, err, start)
	phase := c.menuSensor.Phase()

	switch {
	case err == nil:
		log.Info("menu updated", zap.String("state", rec.ID()), zap.Int("available_days", rec.AvailableDays()))
	case errors.Is(err, menu.ErrNoMenu):
		log.Warn("no menu for the selected week", zap.Stringer("phase", phase))
	default:
		log.Error("menu update failed", zap.Error(err), zap.Stringer("phase", phase))
	}
	if kept := c.menuSensor.Record(); err != nil && kept != nil {
		log.Info("keeping last known menu", zap.String("kept", kept.ID()))
	}

	if c.appts != nil {
		list, apptErr := c.appts.FetchAppointments(ctx)
		switch {
		case apptErr == nil:
		case upstream.IsUpstream(apptErr):
			log.Warn("appointments update failed", zap.Error(apptErr))
		default:
			log.Error("appointments update failed", zap.Error(apptErr))
		}
		res.ApptErr = apptErr
		c.apptSensors.Apply(list, apptErr, c.now())
	}

	res.Sensors = c.snapshots(c.now())
	return res
}

// Snapshots returns the current sensor views without updating.
func (c *Coordinator) Snapshots() []sensor.Snapshot {
	return c.snapshots(c.now())
}

func (c *Coordinator) snapshots(now time.Time) []sensor.Snapshot {
	out := []sensor.Snapshot{c.menuSensor.Snapshot()}
	if c.apptSensors != nil {
		out = append(out, c.apptSensors.Count(), c.apptSensors.Next(now))
	}
	return out
}

// FromConfig wires the upstream client, aggregator and selector described by
// cfg into a Coordinator.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*Coordinator, *upstream.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	client, err := upstream.New(upstream.Options{
		MenuURL:         cfg.Menu.MenuURL,
		GroupsURL:       cfg.Menu.GroupsURL,
		AppointmentsURL: cfg.Appointments.URL,
		Location:        loc,
		Timeout:         cfg.Menu.RequestTimeout.Duration,
		Logger:          logger.Named("upstream"),
	})
	if err != nil {
		return nil, nil, err
	}

	agg := NewAggregator(client, cfg, logger)
	opts := Options{
		GroupID:  cfg.Menu.CustomerGroupID,
		Selector: menu.NewSelector(loc),
		Weeks:    agg,
		Logger:   logger.Named("coordinator"),
	}
	if client.HasAppointments() {
		opts.Appointments = client
	}
	return New(opts), client, nil
}

// NewAggregator builds the week aggregator over client's sessions.
func NewAggregator(client *upstream.Client, cfg *config.Config, logger *zap.Logger) *menu.Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return menu.NewAggregator(func() menu.Session { return client.OpenSession() }, menu.AggregatorOptions{
		Format: cfg.Format(),
		Pace:   cfg.Menu.Pace.Duration,
		Logger: logger.Named("aggregator"),
	})
}
