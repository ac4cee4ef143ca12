package storage

import (
	"fmt"
	"log/slog"

	"mercator-hq/ruleengine/pkg/config"
)

// Open builds the Store selected by cfg.Driver.
func Open(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case DriverModernc, DriverMattn:
		return NewSQLiteStore(SQLiteOptions{
			Driver:       cfg.Driver,
			Path:         cfg.SQLite.Path,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
			WALMode:      cfg.SQLite.WALMode,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
