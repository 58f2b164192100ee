package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/madvognen/internal/config"
	"github.com/javiermolinar/madvognen/internal/dateutil"
	"github.com/javiermolinar/madvognen/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var skipProbe bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing. A changed
customer group is checked against the menu service before saving.

Example:
  madvognen config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigInteractive(cmd.Context(), !skipProbe)
		},
	}

	cmd.Flags().BoolVar(&skipProbe, "no-probe", false, "Save without checking the customer group")
	return cmd
}

func (a *App) runConfigInteractive(ctx context.Context, probe bool) error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	printConfig(os.Stdout, cfg)

	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)
	previousGroup := cfg.Menu.CustomerGroupID

	cfg.Menu.MenuURL = promptValue(reader, "Menu URL", cfg.Menu.MenuURL)
	cfg.Menu.GroupsURL = promptValue(reader, "Customer groups URL (empty to disable)", cfg.Menu.GroupsURL)
	cfg.Menu.CustomerGroupID = promptInt(reader, "Customer group id", cfg.Menu.CustomerGroupID)
	cfg.Menu.DateFormat = promptFormat(reader, cfg.Menu.DateFormat)
	cfg.Menu.Timezone = promptValue(reader, "Timezone", cfg.Menu.Timezone)
	cfg.Schedule.DailyAt = promptValue(reader, "Daily update at (HH:MM, empty to disable)", cfg.Schedule.DailyAt)
	cfg.Appointments.URL = promptValue(reader, "Appointments URL (empty to disable)", cfg.Appointments.URL)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if probe && cfg.Menu.CustomerGroupID != previousGroup {
		if err := a.probeGroup(ctx, cfg); err != nil {
			return err
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

// probeGroup checks that the service serves cfg's customer group.
func (a *App) probeGroup(ctx context.Context, cfg *config.Config) error {
	previous := a.config
	a.config = cfg
	defer func() { a.config = previous }()

	client, err := a.client()
	if err != nil {
		return err
	}
	fmt.Printf("Checking customer group %d... ", cfg.Menu.CustomerGroupID)
	if err := client.ProbeGroup(ctx, cfg.Menu.CustomerGroupID, time.Now()); err != nil {
		fmt.Println(formatError("failed"))
		return fmt.Errorf("customer group %d: %w", cfg.Menu.CustomerGroupID, err)
	}
	fmt.Println(formatDish("ok"))
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[menu]")
	fmt.Fprintf(w, "  customer_group_id = %d\n", cfg.Menu.CustomerGroupID)
	fmt.Fprintf(w, "  date_format       = %s\n", cfg.Menu.DateFormat)
	fmt.Fprintf(w, "  timezone          = %s\n", cfg.Menu.Timezone)
	fmt.Fprintf(w, "  menu_url          = %s\n", cfg.Menu.MenuURL)
	if cfg.Menu.GroupsURL != "" {
		fmt.Fprintf(w, "  groups_url        = %s\n", cfg.Menu.GroupsURL)
	}
	fmt.Fprintf(w, "  request_timeout   = %s\n", cfg.Menu.RequestTimeout)
	fmt.Fprintf(w, "  pace              = %s\n", cfg.Menu.Pace)
	fmt.Fprintln(w, "\n[schedule]")
	fmt.Fprintf(w, "  interval          = %s\n", cfg.Schedule.Interval)
	fmt.Fprintf(w, "  daily_at          = %s\n", cfg.Schedule.DailyAt)
	if cfg.HasAppointments() {
		fmt.Fprintln(w, "\n[appointments]")
		fmt.Fprintf(w, "  url               = %s\n", cfg.Appointments.URL)
	}
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level             = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  format            = %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "  file              = %s\n", cfg.Log.File)
	}
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme             = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptFormat(reader *bufio.Reader, current string) string {
	names := make([]string, 0, len(dateutil.Formats()))
	for _, f := range dateutil.Formats() {
		names = append(names, string(f))
	}
	options := strings.Join(names, ", ")
	label := fmt.Sprintf("Date format (%s)", options)
	for {
		value := promptValue(reader, label, current)
		if f, err := dateutil.ParseFormat(value); err == nil {
			return string(f)
		}
		fmt.Printf("  Invalid date format %q. Available: %s\n", value, options)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
