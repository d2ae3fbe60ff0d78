package main

import (
	"context"
	"fmt"

	"github.com/linnemanlabs/go-core/log"

	vc "github.com/linnemanlabs/locono/internal/cfg"
	"github.com/linnemanlabs/locono/internal/complaint"
	"github.com/linnemanlabs/locono/internal/complaint/pgstore"
	"github.com/linnemanlabs/locono/internal/complaint/sqlitestore"
	"github.com/linnemanlabs/locono/internal/postgres"
)

// openStore returns the configured complaint store and a func that releases it.
// PostgreSQL is used when a database URL is set, otherwise the SQLite file.
func openStore(ctx context.Context, appCfg *vc.Config, L log.Logger) (complaint.Store, func(), error) {
	if appCfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, appCfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		pgStore, err := pgstore.New(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pgstore init: %w", err)
		}
		L.Info(ctx, "using postgres store")
		return pgStore, pool.Close, nil
	}

	sqlStore, err := sqlitestore.Open(ctx, appCfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite store %q: %w", appCfg.DatabasePath, err)
	}
	L.Info(ctx, "using sqlite store", "path", appCfg.DatabasePath)
	return sqlStore, func() {
		if err := sqlStore.Close(); err != nil {
			L.Error(context.Background(), err, "failed to close sqlite store")
		}
	}, nil
}
