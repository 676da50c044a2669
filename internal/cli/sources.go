package cli

import (
	"context"
	"database/sql"
	"fmt"

	"CartStore/internal/catalog"
	"CartStore/internal/config"
)

// loadCatalog merges every configured source. Files come first, then the HTTP
// source, then Postgres.
func loadCatalog(ctx context.Context, cfg *config.Config) ([]catalog.Item, error) {
	var sources []catalog.Source
	for _, p := range cfg.Catalog.Paths() {
		sources = append(sources, catalog.NewFileSource(p))
	}
	if cfg.Catalog.URL != "" {
		sources = append(sources, catalog.NewHTTPSource(cfg.Catalog.URL))
	}

	if cfg.Catalog.DSN != "" {
		db, err := catalog.OpenPostgres(cfg.Catalog.DSN)
		if err != nil {
			return nil, fmt.Errorf("open catalog db: %w", err)
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)

		pg := catalog.NewPostgresSource(db)
		if err := pg.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping catalog db: %w", err)
		}
		sources = append(sources, pg)
	}

	return catalog.LoadAll(ctx, sources...)
}
