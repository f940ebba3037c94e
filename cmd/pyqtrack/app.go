package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pyqtrack/internal/catalog"
	"github.com/verte-zerg/pyqtrack/internal/config"
	"github.com/verte-zerg/pyqtrack/internal/dashboard"
	"github.com/verte-zerg/pyqtrack/internal/logging"
	"github.com/verte-zerg/pyqtrack/internal/model"
	"github.com/verte-zerg/pyqtrack/internal/store"
)

// app holds what every command needs: the logger, the catalogue with saved
// progress applied, and the progress store when persisting.
type app struct {
	logger   *logrus.Logger
	closeLog func() error
	records  []model.Record
	store    *store.Store
	settings model.Config
}

func openApp(cmd *cobra.Command, interactive bool) (*app, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fileCfg, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "catalog", &catalogPath, fileCfg.Dashboard.Catalog)
	applyBoolConfig(cmd, "persist", &persist, fileCfg.Dashboard.Persist)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Dashboard.DB)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	format := ""
	if fileCfg.Log.Format != nil {
		format = *fileCfg.Log.Format
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:  logLevel,
		Format: format,
		File:   logFile,
		Quiet:  interactive,
	})
	if err != nil {
		return nil, fileCfg, err
	}

	a := &app{
		logger:   logger,
		closeLog: closeLog,
		settings: model.Config{
			CatalogPath: catalogPath,
			Persist:     persist,
			DBPath:      dbPath,
		},
	}
	if a.settings.DBPath == "" {
		a.settings.DBPath = config.DefaultDBPath()
	}

	records, err := catalog.Load(a.settings.CatalogPath)
	if err != nil {
		a.Close()
		return nil, fileCfg, fmt.Errorf("failed to load catalog: %w", err)
	}
	a.records = records
	logger.WithFields(logrus.Fields{
		"catalog":  catalogLabel(a.settings.CatalogPath),
		"chapters": len(records),
	}).Debug("catalog loaded")

	if !a.settings.Persist {
		return a, fileCfg, nil
	}
	st, err := store.Open(a.settings.DBPath)
	if err != nil {
		a.Close()
		return nil, fileCfg, fmt.Errorf("failed to open db: %w", err)
	}
	a.store = st
	progress, err := st.LoadProgress(context.Background())
	if err != nil {
		a.Close()
		return nil, fileCfg, fmt.Errorf("failed to load progress: %w", err)
	}
	a.records = store.ApplyProgress(a.records, progress)
	logger.WithField("saved", len(progress)).Debug("progress applied")
	return a, fileCfg, nil
}

// saver returns the progress store as a dashboard.Saver, or nil when
// progress stays in memory.
func (a *app) saver() dashboard.Saver {
	if a.store == nil {
		return nil
	}
	return a.store
}

func (a *app) requireStore() error {
	if a.store == nil {
		return fmt.Errorf("progress commands need the database; pass --persist")
	}
	return nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.WithError(err).Warn("failed to close db")
		}
		a.store = nil
	}
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil {
			logErrf("failed to close log file: %v\n", err)
		}
		a.closeLog = nil
	}
}

func catalogLabel(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
