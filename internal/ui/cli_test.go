package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/madvognen/internal/config"
	"github.com/javiermolinar/madvognen/internal/dateutil"
)

// echoServer answers every menu request with one dish named after the
// requested date.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var millis int64
		_, _ = fmt.Sscan(r.URL.Query().Get("millis"), &millis)
		date := time.UnixMilli(millis).UTC().Format(dateutil.DateLayout)
		fmt.Fprintf(w, `{"dato":%q,"menuoverskrifter":{"Varm ret":{"varer":[{"Navn":"Ret %s"}]}}}`, date, date)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testApp(t *testing.T, menuURL string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Menu.MenuURL = menuURL
	cfg.Menu.Timezone = "UTC"
	cfg.Menu.Pace.Duration = 0
	cfg.Log.Level = "error"

	app := NewApp(cfg)
	var out bytes.Buffer
	app.root.SetOut(&out)
	app.root.SetErr(&out)
	return app, &out
}

func TestVersionCmd(t *testing.T) {
	app, out := testApp(t, "")
	app.root.SetArgs([]string{"version"})
	if err := app.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "madvognen dev") {
		t.Errorf("got %q", out.String())
	}
}

func TestWeekCmd_JSON(t *testing.T) {
	srv := echoServer(t)
	app, out := testApp(t, srv.URL)
	app.root.SetArgs([]string{"week", "--date", "2025-06-18", "--json"})

	if err := app.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var snap struct {
		State      string                     `json:"state"`
		Available  bool                       `json:"available"`
		Attributes map[string]json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(out.Bytes(), &snap); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out.String())
	}
	if snap.State != "2025-W25" || !snap.Available {
		t.Errorf("snapshot = %+v", snap)
	}

	var friday struct {
		Date  string   `json:"date"`
		Items []string `json:"items"`
	}
	if err := json.Unmarshal(snap.Attributes["friday"], &friday); err != nil {
		t.Fatalf("decoding friday: %v", err)
	}
	if friday.Date != "2025-06-20" || len(friday.Items) != 1 || friday.Items[0] != "Ret 2025-06-20" {
		t.Errorf("friday = %+v", friday)
	}
}

func TestWeekCmd_Text(t *testing.T) {
	srv := echoServer(t)
	app, out := testApp(t, srv.URL)
	app.root.SetArgs([]string{"week", "--date", "2025-06-16", "--no-color"})
	defer EnableColor()

	if err := app.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "• Ret 2025-06-19") {
		t.Errorf("output missing thursday dish:\n%s", out.String())
	}
}

func TestWeekCmd_InvalidDate(t *testing.T) {
	srv := echoServer(t)
	app, _ := testApp(t, srv.URL)
	app.root.SetArgs([]string{"week", "--date", "someday"})

	if err := app.Execute(); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestWeekCmd_NotConfigured(t *testing.T) {
	app, _ := testApp(t, "")
	app.root.SetArgs([]string{"week"})

	err := app.Execute()
	if err == nil || !strings.Contains(err.Error(), "menu url") {
		t.Errorf("got error %v, want missing menu url", err)
	}
}

func TestDayCmd(t *testing.T) {
	srv := echoServer(t)
	app, out := testApp(t, srv.URL)
	app.root.SetArgs([]string{"day", "--date", "2025-06-17", "--no-color"})
	defer EnableColor()

	if err := app.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Tuesday") || !strings.Contains(out.String(), "• Ret 2025-06-17") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestUseWatchLogger(t *testing.T) {
	t.Run("default log goes to file", func(t *testing.T) {
		app, _ := testApp(t, "")
		app.logPath = filepath.Join(t.TempDir(), "madvognen.log")

		if err := app.useWatchLogger(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		app.logger.Error("menu update failed")
		_ = app.logger.Sync()

		data, err := os.ReadFile(app.logPath)
		if err != nil {
			t.Fatalf("reading log: %v", err)
		}
		if !strings.Contains(string(data), "menu update failed") {
			t.Errorf("log file missing entry: %q", data)
		}
	})

	t.Run("configured file wins", func(t *testing.T) {
		app, _ := testApp(t, "")
		dir := t.TempDir()
		app.config.Log.File = filepath.Join(dir, "configured.log")
		app.logPath = filepath.Join(dir, "default.log")

		if err := app.useWatchLogger(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		app.logger.Error("menu update failed")
		_ = app.logger.Sync()

		if _, err := os.Stat(app.config.Log.File); err != nil {
			t.Errorf("configured log not written: %v", err)
		}
		if _, err := os.Stat(app.logPath); !os.IsNotExist(err) {
			t.Errorf("default log should not be created, stat err = %v", err)
		}
	})
}
