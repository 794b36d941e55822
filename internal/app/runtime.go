// Package app wires configuration, storage and the engine into a ready to use runtime.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"gomedic/internal/config"
	"gomedic/internal/db"
	"gomedic/internal/engine"
	"gomedic/internal/events"
	"gomedic/internal/logging"
	"gomedic/internal/metrics"
	"gomedic/internal/migrate"
	"gomedic/internal/model"
	"gomedic/internal/repo"
	"gomedic/internal/storage"
)

type Runtime struct {
	Workspace string
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sql.DB
	Repo      repo.Repo
	Storage   storage.Storage
	Metrics   *metrics.Recorder
	Engine    engine.Engine
}

// Open prepares the workspace database, picks the storage backend and builds the engine
// around an empty store. Call LoadRecord to fill it.
func Open(ctx context.Context, workspace string, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	if err := migrate.MigrateContext(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	r := repo.Repo{DB: conn}

	var st storage.Storage
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		st = storage.SQLiteStorage{Repo: r}
	default:
		st = &storage.JSONStorage{Path: cfg.DataPath(workspace), Logger: logger}
	}

	m := metrics.New()
	eng := engine.New(model.NewStore(), st)
	eng.Events = events.Writer{DB: conn}
	eng.Metrics = m
	eng.Logger = logger

	return &Runtime{
		Workspace: workspace,
		Config:    cfg,
		Logger:    logger,
		DB:        conn,
		Repo:      r,
		Storage:   st,
		Metrics:   m,
		Engine:    eng,
	}, nil
}

func (rt *Runtime) Close() error {
	return rt.DB.Close()
}

// LoadRecord fills the store from storage. With nothing saved yet the sample record is
// used; unreadable data starts an empty record and logs a warning.
func (rt *Runtime) LoadRecord(ctx context.Context) error {
	err := rt.Engine.Load(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNoData):
		rt.Logger.Info("no saved data, starting with sample record")
		persons, activities := SampleData()
		return rt.Engine.Store.Reset(persons, activities)
	case errors.Is(err, storage.ErrDataConversion):
		rt.Logger.Warn("saved data is not in the correct format, starting with an empty record", "error", err)
		rt.Engine.Store.Clear()
		return nil
	default:
		return err
	}
}
