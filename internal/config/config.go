// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/madvognen/internal/dateutil"
	"github.com/javiermolinar/madvognen/internal/scheduler"
)

// Config holds the application configuration.
type Config struct {
	Menu         MenuConfig         `toml:"menu"`
	Schedule     ScheduleConfig     `toml:"schedule"`
	Appointments AppointmentsConfig `toml:"appointments"`
	Log          LogConfig          `toml:"log"`
	UI           UIConfig           `toml:"ui"`
}

// MenuConfig holds the canteen service settings.
type MenuConfig struct {
	CustomerGroupID int      `toml:"customer_group_id"`
	DateFormat      string   `toml:"date_format"` // iso, danish, danish_short, danish_text, english, english_short
	Timezone        string   `toml:"timezone"`    // IANA name, e.g. "Europe/Copenhagen"
	MenuURL         string   `toml:"menu_url"`
	GroupsURL       string   `toml:"groups_url"`
	RequestTimeout  Duration `toml:"request_timeout"`
	Pace            Duration `toml:"pace"` // spacing between day requests
}

// ScheduleConfig holds update timing.
type ScheduleConfig struct {
	Interval Duration `toml:"interval"`
	DailyAt  string   `toml:"daily_at"` // "HH:MM", empty disables
}

// AppointmentsConfig holds the optional appointments feed.
type AppointmentsConfig struct {
	URL string `toml:"url"` // empty disables
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	File   string `toml:"file"`   // empty logs to stderr
	Format string `toml:"format"` // console or json
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Duration is a time.Duration stored as a string such as "15m".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Menu: MenuConfig{
			CustomerGroupID: 252,
			DateFormat:      string(dateutil.FormatISO),
			Timezone:        dateutil.DefaultTimezone,
			RequestTimeout:  Duration{15 * time.Second},
			Pace:            Duration{time.Second},
		},
		Schedule: ScheduleConfig{
			Interval: Duration{15 * time.Minute},
			DailyAt:  "06:00",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "madvognen", "config.toml")
}

// DefaultLogPath returns the log file used when the terminal is taken by the
// interactive view and no [log] file is configured.
func DefaultLogPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "madvognen.log")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("MADVOGNEN_GROUP_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MADVOGNEN_GROUP_ID: %w", err)
		}
		cfg.Menu.CustomerGroupID = id
	}
	if v := os.Getenv("MADVOGNEN_DATE_FORMAT"); v != "" {
		cfg.Menu.DateFormat = v
	}
	if v := os.Getenv("MADVOGNEN_TIMEZONE"); v != "" {
		cfg.Menu.Timezone = v
	}
	if v := os.Getenv("MADVOGNEN_MENU_URL"); v != "" {
		cfg.Menu.MenuURL = v
	}
	if v := os.Getenv("MADVOGNEN_GROUPS_URL"); v != "" {
		cfg.Menu.GroupsURL = v
	}
	if err := durationEnv("MADVOGNEN_REQUEST_TIMEOUT", &cfg.Menu.RequestTimeout); err != nil {
		return err
	}
	if err := durationEnv("MADVOGNEN_PACE", &cfg.Menu.Pace); err != nil {
		return err
	}

	if err := durationEnv("MADVOGNEN_INTERVAL", &cfg.Schedule.Interval); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("MADVOGNEN_DAILY_AT"); ok {
		cfg.Schedule.DailyAt = v
	}

	if v := os.Getenv("MADVOGNEN_APPOINTMENTS_URL"); v != "" {
		cfg.Appointments.URL = v
	}

	if v := os.Getenv("MADVOGNEN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MADVOGNEN_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("MADVOGNEN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("MADVOGNEN_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

func durationEnv(key string, dst *Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	if err := dst.UnmarshalText([]byte(v)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Menu.CustomerGroupID <= 0 {
		return fmt.Errorf("customer_group_id must be positive, got %d", c.Menu.CustomerGroupID)
	}
	if _, err := dateutil.ParseFormat(c.Menu.DateFormat); err != nil {
		return err
	}
	if _, err := dateutil.LoadLocation(c.Menu.Timezone); err != nil {
		return err
	}
	if c.Menu.RequestTimeout.Duration <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.Menu.Pace.Duration < 0 {
		return errors.New("pace must not be negative")
	}

	if c.Schedule.Interval.Duration < 0 {
		return errors.New("interval must not be negative")
	}
	if c.Schedule.Interval.Duration > 0 && c.Schedule.Interval.Duration < time.Minute {
		return fmt.Errorf("interval must be at least 1m, got %s", c.Schedule.Interval)
	}
	if c.Schedule.DailyAt != "" {
		if _, err := scheduler.ParseClock(c.Schedule.DailyAt); err != nil {
			return fmt.Errorf("daily_at: %w", err)
		}
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "" && c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return dateutil.LoadLocation(c.Menu.Timezone)
}

// Format returns the configured date format.
func (c *Config) Format() dateutil.Format {
	f, err := dateutil.ParseFormat(c.Menu.DateFormat)
	if err != nil {
		return dateutil.FormatISO
	}
	return f
}

// HasAppointments reports whether the appointments feed is configured.
func (c *Config) HasAppointments() bool {
	return c.Appointments.URL != ""
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
