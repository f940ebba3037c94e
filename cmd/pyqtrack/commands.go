package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pyqtrack/internal/catalog"
	"github.com/verte-zerg/pyqtrack/internal/chapter"
	"github.com/verte-zerg/pyqtrack/internal/dashboard"
	"github.com/verte-zerg/pyqtrack/internal/model"
	"github.com/verte-zerg/pyqtrack/internal/query"
	"github.com/verte-zerg/pyqtrack/internal/report"
)

// filterFlags are shared by list and stats.
type filterFlags struct {
	subject string
	classes []string
	units   []string
	status  string
	weak    bool
	sort    string
	order   string
	where   string
}

var (
	listFilters  filterFlags
	statsFilters filterFlags

	unitsSubject string

	progressSolved int
	progressStatus string

	exportOut string
)

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVar(&f.subject, "subject", model.AllSubjects, "subject filter")
	cmd.Flags().StringSliceVar(&f.classes, "class", nil, "class filter (repeatable)")
	cmd.Flags().StringSliceVar(&f.units, "unit", nil, "unit filter (repeatable)")
	cmd.Flags().StringVar(&f.status, "status", "all", "status filter (all, not-started, in-progress, completed)")
	cmd.Flags().BoolVar(&f.weak, "weak", false, "weak chapters only")
	cmd.Flags().StringVar(&f.sort, "sort", defaultSort, "sort key (chapter, status, progress, weakChapters)")
	cmd.Flags().StringVar(&f.order, "order", defaultOrder, "sort order (asc, desc)")
	cmd.Flags().StringVar(&f.where, "where", "", "CEL expression, e.g. 'weak && total > 20'")
}

func (f filterFlags) spec(records []model.Record) (model.FilterSpec, error) {
	spec, err := dashboardSpec(records, f.subject, f.sort, f.order, f.weak)
	if err != nil {
		return spec, err
	}
	status, err := model.ParseStatusFilter(f.status)
	if err != nil {
		return spec, fmt.Errorf("invalid --status value: %w", err)
	}
	spec.Status = status
	spec.Classes = lo.Uniq(f.classes)
	spec.Units = lo.Uniq(f.units)
	pred, err := query.Compile(f.where)
	if err != nil {
		return spec, fmt.Errorf("invalid --where value: %w", err)
	}
	if pred != nil {
		spec.WhereExpr = f.where
		spec.Where = pred
	}
	return spec, nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered chapter list",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	addFilterFlags(cmd, &listFilters)
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	a, _, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	spec, err := listFilters.spec(a.records)
	if err != nil {
		return err
	}
	filtered := chapter.Filter(a.records, spec)
	out := cmd.OutOrStdout()
	if err := report.RenderChapterTable(out, filtered, 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(filtered) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderSummary(out, chapter.ComputeStats(filtered)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show chapter counts for the filtered list",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addFilterFlags(cmd, &statsFilters)
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	a, _, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	spec, err := statsFilters.spec(a.records)
	if err != nil {
		return err
	}
	filtered := chapter.Filter(a.records, spec)
	out := cmd.OutOrStdout()
	if err := report.RenderSummary(out, chapter.ComputeStats(filtered)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(filtered) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out, "\nQuestions per year:"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderYearBars(out, filtered, 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the classes in the catalog",
		Args:  cobra.NoArgs,
		RunE:  runClassesCmd,
	}
}

func runClassesCmd(cmd *cobra.Command, _ []string) error {
	a, _, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()
	return printLines(cmd.OutOrStdout(), chapter.UniqueClasses(a.records))
}

func newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the units in the catalog",
		Args:  cobra.NoArgs,
		RunE:  runUnitsCmd,
	}
	cmd.Flags().StringVar(&unitsSubject, "subject", model.AllSubjects, "only units of this subject")
	return cmd
}

func runUnitsCmd(cmd *cobra.Command, _ []string) error {
	a, _, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := validateSubject(a.records, unitsSubject); err != nil {
		return err
	}
	return printLines(cmd.OutOrStdout(), chapter.UniqueUnits(a.records, unitsSubject))
}

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Update saved chapter progress",
	}

	setCmd := &cobra.Command{
		Use:   "set <chapter>",
		Short: "Set the solved count (and status) of a chapter",
		Args:  cobra.ExactArgs(1),
		RunE:  runProgressSetCmd,
	}
	setCmd.Flags().IntVar(&progressSolved, "solved", 0, "questions solved")
	setCmd.Flags().StringVar(&progressStatus, "status", "", "status (default: derived from --solved)")
	if err := setCmd.MarkFlagRequired("solved"); err != nil {
		panic(err)
	}

	weakCmd := &cobra.Command{
		Use:   "weak <subject> <chapter>",
		Short: "Toggle the weak flag of a chapter",
		Args:  cobra.ExactArgs(2),
		RunE:  runProgressWeakCmd,
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget all saved progress",
		Args:  cobra.NoArgs,
		RunE:  runProgressResetCmd,
	}

	cmd.AddCommand(setCmd, weakCmd, resetCmd)
	return cmd
}

// persistedStore wraps records in a dashboard store whose changes are saved
// to the progress database. The returned func reports the last save error.
func persistedStore(a *app) (*dashboard.Store, func() error) {
	ds := dashboard.NewStore(dashboard.New(a.records, model.DefaultFilterSpec()))
	var saveErr error
	ds.Subscribe(dashboard.Persist(context.Background(), a.saver(), func(err error) {
		saveErr = err
	}))
	return ds, func() error { return saveErr }
}

func runProgressSetCmd(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireStore(); err != nil {
		return err
	}
	if progressSolved < 0 {
		return fmt.Errorf("--solved must be >= 0")
	}

	name := args[0]
	target, ok := lo.Find(a.records, func(r model.Record) bool { return r.Chapter == name })
	if !ok {
		return fmt.Errorf("unknown chapter %q", name)
	}
	status := model.DeriveStatus(progressSolved, target.TotalQuestions())
	if progressStatus != "" {
		status, err = model.ParseStatus(progressStatus)
		if err != nil {
			return fmt.Errorf("invalid --status value: %w", err)
		}
	}

	ds, saveErr := persistedStore(a)
	next := ds.Dispatch(dashboard.UpdateProgress{Chapter: name, Solved: progressSolved, Status: status})
	if err := saveErr(); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	for _, r := range next.Source {
		if r.Chapter != name {
			continue
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s / %s: %d/%d (%s)\n", r.Subject, r.Chapter, r.QuestionSolved, r.TotalQuestions(), r.Status); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	a.logger.WithField("chapter", name).Info("progress updated")
	return nil
}

func runProgressWeakCmd(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireStore(); err != nil {
		return err
	}

	key := model.Key{Subject: args[0], Chapter: args[1]}
	ds, saveErr := persistedStore(a)
	if _, ok := ds.State().Find(key); !ok {
		return fmt.Errorf("unknown chapter %q in %q", key.Chapter, key.Subject)
	}
	next := ds.Dispatch(dashboard.ToggleWeak{Key: key})
	if err := saveErr(); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	r, _ := next.Find(key)
	label := "not weak"
	if r.Weak {
		label = "weak"
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s / %s: %s\n", r.Subject, r.Chapter, label); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runProgressResetCmd(cmd *cobra.Command, _ []string) error {
	a, _, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.requireStore(); err != nil {
		return err
	}
	n, err := a.store.ResetProgress(context.Background())
	if err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Cleared saved progress for %d chapters\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with the chapter catalog",
	}
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog, with saved progress, as TOML",
		Args:  cobra.NoArgs,
		RunE:  runCatalogExportCmd,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
	cmd.AddCommand(exportCmd)
	return cmd
}

func runCatalogExportCmd(cmd *cobra.Command, _ []string) error {
	a, _, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if exportOut == "" {
		return catalog.Write(cmd.OutOrStdout(), a.records)
	}
	if err := writeCatalogFile(exportOut, a.records); err != nil {
		return err
	}
	a.logger.WithField("path", exportOut).Info("catalog exported")
	return nil
}

func writeCatalogFile(path string, records []model.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "catalog-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := catalog.Write(writer, records); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
