// Package main provides the CLI entrypoint for pyqtrack.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pyqtrack/internal/chapter"
	"github.com/verte-zerg/pyqtrack/internal/config"
	"github.com/verte-zerg/pyqtrack/internal/dashboard"
	"github.com/verte-zerg/pyqtrack/internal/model"
	"github.com/verte-zerg/pyqtrack/internal/tui"
)

const (
	defaultSort     = string(model.SortChapter)
	defaultOrder    = string(model.Asc)
	defaultLogLevel = "info"
)

var (
	catalogPath string
	persist     bool
	dbPath      string
	logLevel    string
	logFile     string

	dashSubject string
	dashSort    string
	dashOrder   string
	dashWeak    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pyqtrack",
		Short:         "Terminal dashboard for previous-year exam chapters",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&catalogPath, "catalog", "", "catalog file (.toml, .xlsx or .csv; default: built-in)")
	pf.BoolVar(&persist, "persist", false, "save progress to the database")
	pf.StringVar(&dbPath, "db", "", "progress database path")
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")

	rootCmd.Flags().StringVar(&dashSubject, "subject", model.AllSubjects, "initial subject tab")
	rootCmd.Flags().StringVar(&dashSort, "sort", defaultSort, "sort key (chapter, status, progress, weakChapters)")
	rootCmd.Flags().StringVar(&dashOrder, "order", defaultOrder, "sort order (asc, desc)")
	rootCmd.Flags().BoolVar(&dashWeak, "weak", false, "show weak chapters only")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newClassesCmd())
	rootCmd.AddCommand(newUnitsCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	a, fileCfg, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	applyStringConfig(cmd, "subject", &dashSubject, fileCfg.Dashboard.Subject)
	applyStringConfig(cmd, "sort", &dashSort, fileCfg.Dashboard.Sort)
	applyStringConfig(cmd, "order", &dashOrder, fileCfg.Dashboard.Order)
	applyBoolConfig(cmd, "weak", &dashWeak, fileCfg.Dashboard.WeakOnly)

	spec, err := dashboardSpec(a.records, dashSubject, dashSort, dashOrder, dashWeak)
	if err != nil {
		return err
	}

	st := dashboard.NewStore(dashboard.New(a.records, spec))
	m := tui.NewModel(st, tui.Options{Saver: a.saver(), Logger: a.logger})
	defer m.Close()
	a.logger.WithField("chapters", len(a.records)).Info("dashboard started")
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func dashboardSpec(records []model.Record, subject, sortKey, order string, weak bool) (model.FilterSpec, error) {
	spec := model.DefaultFilterSpec()
	key, err := model.ParseSortKey(sortKey)
	if err != nil {
		return spec, fmt.Errorf("invalid --sort value: %w", err)
	}
	dir, err := model.ParseSortOrder(order)
	if err != nil {
		return spec, fmt.Errorf("invalid --order value: %w", err)
	}
	if err := validateSubject(records, subject); err != nil {
		return spec, err
	}
	spec.SortBy = key
	spec.Order = dir
	spec.WeakOnly = weak
	if subject != "" {
		spec.Subject = subject
	}
	return spec, nil
}

func validateSubject(records []model.Record, subject string) error {
	if subject == "" || subject == model.AllSubjects {
		return nil
	}
	subjects := chapter.Subjects(records)
	for _, s := range subjects {
		if s == subject {
			return nil
		}
	}
	return fmt.Errorf("unknown subject %q (available: %s)", subject, strings.Join(subjects, ", "))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pyqtrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# catalog = "~/pyq/jee-main.xlsx"  # Catalog file (.toml, .xlsx or .csv)
# subject = %q                 # Initial subject tab
# sort = %q                # chapter, status, progress or weakChapters
# order = %q                   # asc or desc
# weak-only = false              # Show weak chapters only
# persist = false                # Save progress to the database
# db = %q

[log]
# level = %q                  # debug, info, warn or error
# format = "text"                # text or json
# file = %q
`,
		model.AllSubjects,
		defaultSort,
		defaultOrder,
		config.DefaultDBPath(),
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
