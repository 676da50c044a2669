package receipt

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
	pgUniqueCode = "23505"
)

var ErrDuplicateID = errors.New("receipt id already exists")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Create(ctx context.Context, r Receipt) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO receipts (id, session_id, subtotal, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.ID, r.SessionID, r.Subtotal, r.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO receipt_lines (receipt_id, position, name, price)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range r.Lines {
		if _, err := stmt.ExecContext(ctx, r.ID, i, l.Name, l.Price); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Receipt, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var r Receipt
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, subtotal, created_at
		FROM receipts
		WHERE id = $1
	`, id).Scan(&r.ID, &r.SessionID, &r.Subtotal, &r.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, false, nil
	}
	if err != nil {
		return Receipt{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, price
		FROM receipt_lines
		WHERE receipt_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return Receipt{}, false, err
	}
	defer rows.Close()

	lines := make([]Line, 0, 8)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.Name, &l.Price); err != nil {
			return Receipt{}, false, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return Receipt{}, false, err
	}
	r.Lines = lines

	return r, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
