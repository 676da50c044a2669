package catalog

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresSource reads the catalog_items table.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// OpenPostgres opens a pgx-backed database/sql handle.
func OpenPostgres(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresSource) Load(ctx context.Context) ([]Item, error) {
	var records []Record

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT name, price, COALESCE(array_to_string(hashtags, ','), ''), description
			FROM catalog_items
			ORDER BY name ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		records = make([]Record, 0, 64)
		for rows.Next() {
			var (
				r    Record
				tags string
			)
			if err := rows.Scan(&r.Name, &r.Price, &tags, &r.Description); err != nil {
				return err
			}
			r.Hashtags = splitTags(tags)
			records = append(records, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, &SourceError{Source: "postgres", Err: err}
	}

	items, err := Items(records)
	if err != nil {
		return nil, &SourceError{Source: "postgres", Err: err}
	}
	return items, nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
