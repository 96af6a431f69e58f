// Package factory builds the configured adapters for the neeva binary.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/config"
	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore/badger"
	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore/memory"
	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore/postgres"
	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore/sqlite"
)

// NewStore opens the document store selected by cfg.StoreDriver and applies
// its migrations. The caller owns the returned store and must Close it.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (docstore.Store, error) {
	var (
		st  docstore.Store
		err error
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		st = memory.New()
	case config.DriverSQLite:
		st, err = sqlite.Open(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("NEEVA_POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
		st, err = postgres.Open(ctx, cfg.PostgresDSN)
	case config.DriverBadger:
		st, err = badger.Open(cfg.BadgerDir)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	log.Debug().
		Str("driver", cfg.StoreDriver).
		Str("sqlite_path", pathFor(cfg, config.DriverSQLite)).
		Str("badger_dir", pathFor(cfg, config.DriverBadger)).
		Msg("document store opened")
	return st, nil
}

func pathFor(cfg *config.Config, driver string) string {
	if cfg.StoreDriver != driver {
		return ""
	}
	if driver == config.DriverSQLite {
		return cfg.SQLitePath
	}
	return cfg.BadgerDir
}
