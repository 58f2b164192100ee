package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/madvognen/internal/config"
	"github.com/javiermolinar/madvognen/internal/coordinator"
	"github.com/javiermolinar/madvognen/internal/menu"
	"github.com/javiermolinar/madvognen/internal/sensor"
	"github.com/javiermolinar/madvognen/internal/upstream"
)

// canteen is a fake upstream service. Each day's dishes are keyed by
// YYYY-MM-DD in the service's own timezone.
type canteen struct {
	t   *testing.T
	loc *time.Location

	mu     sync.Mutex
	dishes map[string][]string
	status int // non-zero answers every menu request with this status
	hits   int
}

func newCanteen(t *testing.T, loc *time.Location) (*canteen, *httptest.Server) {
	t.Helper()
	c := &canteen{t: t, loc: loc, dishes: map[string][]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/menu", c.serveMenu)
	mux.HandleFunc("/appointments", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"appointments":[
			{"date":"2025-06-10","what":"Frisør","time":"10:00","description":"Frisør 10:00"},
			{"date":"2025-06-19","what":"Tandlæge","time":"09:00","description":"Tandlæge 09:00"}
		]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return c, srv
}

func (c *canteen) serveMenu(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits++

	if r.URL.Query().Get("KundegruppeID") != "252" {
		c.t.Errorf("unexpected group %q", r.URL.Query().Get("KundegruppeID"))
	}
	if c.status != 0 {
		w.WriteHeader(c.status)
		return
	}

	millis, err := strconv.ParseInt(r.URL.Query().Get("millis"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	date := time.UnixMilli(millis).In(c.loc).Format("2006-01-02")

	dishes := c.dishes[date]
	fmt.Fprintf(w, `{"dato":%q,"menuoverskrifter":{"Varm ret":{"varer":[`, date)
	for i, d := range dishes {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprintf(w, `{"Navn":%q}`, d)
	}
	fmt.Fprint(w, `]}}}`)
}

func (c *canteen) set(date string, dishes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dishes[date] = dishes
}

func (c *canteen) fail(status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *canteen) requests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// newCoordinator wires the real client and aggregator against srv with a
// controllable clock.
func newCoordinator(t *testing.T, srvURL, tz string, now *time.Time) *coordinator.Coordinator {
	t.Helper()
	cfg := config.Default()
	cfg.Menu.MenuURL = srvURL + "/menu"
	cfg.Appointments.URL = srvURL + "/appointments"
	cfg.Menu.Timezone = tz
	cfg.Menu.Pace.Duration = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	client, err := upstream.New(upstream.Options{
		MenuURL:         cfg.Menu.MenuURL,
		AppointmentsURL: cfg.Appointments.URL,
		Location:        loc,
		Timeout:         cfg.Menu.RequestTimeout.Duration,
	})
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	return coordinator.New(coordinator.Options{
		GroupID:      cfg.Menu.CustomerGroupID,
		Selector:     menu.NewSelector(loc),
		Weeks:        coordinator.NewAggregator(client, cfg, zap.NewNop()),
		Appointments: client,
		Now:          func() time.Time { return *now },
	})
}

func TestUpdateCycle_RetainsLastKnownMenu(t *testing.T) {
	cph, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	can, srv := newCanteen(t, cph)
	can.set("2025-06-16", "Frikadeller", "Kartofler")
	can.set("2025-06-17", "Frikadeller", "Kartofler")
	can.set("2025-06-18", "Lasagne")
	can.set("2025-06-20", "Pizza")

	now := time.Date(2025, 6, 17, 9, 0, 0, 0, cph)
	coord := newCoordinator(t, srv.URL, "Europe/Copenhagen", &now)
	ctx := context.Background()

	// First cycle populates the sensor.
	res := coord.Update(ctx)
	if res.Err != nil {
		t.Fatalf("first update: %v", res.Err)
	}
	snap := res.Menu()
	if snap.State != "2025-W25" || !snap.Available {
		t.Fatalf("state = %q available = %v", snap.State, snap.Available)
	}
	if got := snap.Attributes["available_days"]; got != 4 {
		t.Errorf("available_days = %v, want 4", got)
	}
	tuesday := snap.Attributes["tuesday"].(map[string]any)
	if tuesday["note"] != menu.DuplicateNote {
		t.Errorf("tuesday note = %v", tuesday["note"])
	}
	thursday := snap.Attributes["thursday"].(map[string]any)
	if thursday["available"] != false {
		t.Errorf("thursday should be unavailable: %v", thursday)
	}

	if len(res.Sensors) != 3 {
		t.Fatalf("got %d sensors, want 3", len(res.Sensors))
	}
	if res.Sensors[1].State != "2" {
		t.Errorf("appointments = %q, want 2", res.Sensors[1].State)
	}
	if res.Sensors[2].State != "Tandlæge 09:00" {
		t.Errorf("next appointment = %q", res.Sensors[2].State)
	}

	// Upstream goes down: the week stays, the error is recorded.
	can.fail(http.StatusServiceUnavailable)
	now = now.Add(15 * time.Minute)
	res = coord.Update(ctx)
	if res.Err == nil {
		t.Fatal("expected an error while upstream is down")
	}
	snap = res.Menu()
	if snap.State != "2025-W25" || !snap.Available {
		t.Errorf("retained state = %q available = %v", snap.State, snap.Available)
	}
	if _, ok := snap.Attributes["last_error"]; !ok {
		t.Error("last_error missing after failed update")
	}
	if snap.Week == nil || snap.Week.Days[0].Strings()[0] != "Frikadeller" {
		t.Error("last known week not retained")
	}

	// Recovery clears the error.
	can.fail(0)
	now = now.Add(15 * time.Minute)
	res = coord.Update(ctx)
	if res.Err != nil {
		t.Fatalf("recovery: %v", res.Err)
	}
	if _, ok := res.Menu().Attributes["last_error"]; ok {
		t.Error("last_error should be cleared after a successful update")
	}
}

func TestUpdateCycle_FridayAfternoonMovesToNextWeek(t *testing.T) {
	cph, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	can, srv := newCanteen(t, cph)
	can.set("2025-06-20", "Pizza")
	can.set("2025-06-23", "Boller i karry")

	now := time.Date(2025, 6, 20, 14, 30, 0, 0, cph)
	coord := newCoordinator(t, srv.URL, "Europe/Copenhagen", &now)

	res := coord.Update(context.Background())
	if res.Err != nil {
		t.Fatalf("update: %v", res.Err)
	}
	if got := res.Menu().State; got != "2025-W26" {
		t.Errorf("state = %q, want 2025-W26", got)
	}
	if !res.Week.Equal(time.Date(2025, 6, 23, 0, 0, 0, 0, cph)) {
		t.Errorf("requested week = %v", res.Week)
	}
}

func TestUpdateCycle_NoMenuIsUnavailable(t *testing.T) {
	can, srv := newCanteen(t, time.UTC)

	now := time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)
	coord := newCoordinator(t, srv.URL, "UTC", &now)

	res := coord.Update(context.Background())
	if res.Err == nil {
		t.Fatal("expected an error for an empty week")
	}
	snap := res.Menu()
	if snap.State != sensor.StateUnavailable || snap.Available {
		t.Errorf("state = %q available = %v", snap.State, snap.Available)
	}
	if got := can.requests(); got != menu.DaysPerWeek {
		t.Errorf("menu requests = %d, want %d", got, menu.DaysPerWeek)
	}
}
