package root

import (
	"context"
	"log/slog"
	"os"
	"time"

	"emberday/internal/config"
	"emberday/internal/engine"
	"emberday/internal/state"
	"emberday/internal/storage"
	"emberday/internal/timeutil"
)

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("EMBER_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (config.AppConfig, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), err
	}
	return config.Load(path)
}

// openEngine wires config, sqlite persistence and the engine, then runs
// one heartbeat so every command sees today's content already spawned.
func openEngine(ctx context.Context) (*engine.Engine, config.AppConfig, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, nil, err
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = storage.DefaultDBPath()
		if err != nil {
			return nil, cfg, nil, err
		}
	}
	db, err := storage.Open(ctx, dbPath)
	if err != nil {
		return nil, cfg, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}

	persister := storage.NewSQLitePersister(ctx, db)
	loaded, err := persister.Load()
	if err != nil {
		cleanup()
		return nil, cfg, nil, err
	}
	today := timeutil.DayKey(time.Now())
	log := newLogger()
	store := state.NewStore(state.Migrate(loaded, today), persister, log)
	eng := engine.New(store,
		engine.WithLogger(log),
		engine.WithPowerHour(cfg.PowerHourMinutes, cfg.PowerHourCoinCost),
	)
	if err := eng.Heartbeat(); err != nil {
		cleanup()
		return nil, cfg, nil, err
	}
	return eng, cfg, cleanup, nil
}
