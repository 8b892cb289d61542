package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the state space in a single address-keyed table.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

// EnsureSchema creates the state table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		"CREATE TABLE IF NOT EXISTS state_entries (address TEXT PRIMARY KEY, data BYTEA NOT NULL)")
	return err
}

func (s *PostgresStore) Get(ctx context.Context, address string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		"SELECT data FROM state_entries WHERE address = $1", address).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *PostgresStore) Set(ctx context.Context, address string, data []byte) ([]string, error) {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO state_entries (address, data) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET data = EXCLUDED.data`,
		address, data)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return []string{address}, nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
