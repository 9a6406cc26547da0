package app

import (
	"context"
	"fmt"

	"github.com/klokku/spendcast/internal/config"
	"github.com/klokku/spendcast/internal/database"
	"github.com/klokku/spendcast/pkg/expense"
	log "github.com/sirupsen/logrus"
)

// OpenStore opens the record store selected by cfg.Driver and brings its schema up to date.
// The returned function releases the store.
func OpenStore(ctx context.Context, cfg config.Database) (expense.Repository, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := database.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigratePostgres(cfg); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return expense.NewPostgresRepository(pool), pool.Close, nil

	case "sqlite":
		db, err := database.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		closeDb := func() {
			if err := db.Close(); err != nil {
				log.Warnf("failed to close sqlite database: %v", err)
			}
		}
		return expense.NewSQLiteRepository(db), closeDb, nil

	case "memory":
		log.Warn("Using the in-memory store, expenses are lost on exit")
		return expense.NewMemoryRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
}
