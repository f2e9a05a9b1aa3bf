package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archive-lab/magpie/internal/util"
	"github.com/archive-lab/magpie/pkg/consolidate"
	"github.com/archive-lab/magpie/pkg/names"
	"github.com/archive-lab/magpie/pkg/relate"
	"github.com/archive-lab/magpie/pkg/risk"
	pgxstore "github.com/archive-lab/magpie/pkg/store/pgx"
)

// openStorage connects to the database, applies pending migrations and
// returns the storage layer. An unreachable database is fatal for the
// whole run.
func openStorage(ctx context.Context) (*pgxstore.EntityStorage, *pgxpool.Pool, error) {
	databaseURL := util.GetEnv("DATABASE_URL")
	if databaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is not set")
	}

	migrationsURL := util.GetEnvString("MIGRATIONS_URL", "file://migrations")
	if err := pgxstore.RunMigrations(migrationsURL, databaseURL); err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := util.RetryErrWithContext(ctx, 5, 2*time.Second, pool.Ping); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("database unreachable: %w", err)
	}

	return pgxstore.NewEntityStorage(pool), pool, nil
}

// newPipeline builds the pipeline from the loaded config.
func newPipeline(storage *pgxstore.EntityStorage) *consolidate.Pipeline {
	return consolidate.NewPipeline(storage, consolidate.Params{
		Dictionary: names.Default().Extend(cfg.Nicknames),
		Relate: relate.Params{
			MinStrength:   cfg.Relationships.MinStrength,
			MaxEdges:      cfg.Relationships.MaxEdges,
			ParallelScans: cfg.Relationships.ParallelScans,
		},
		Risk: risk.Params{
			Anchors:  cfg.Risk.Anchors,
			Keywords: cfg.Risk.Keywords,
		},
	})
}
