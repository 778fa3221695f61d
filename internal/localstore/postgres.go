package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// Postgres stores the blob as a single row keyed by profile, for kiosk
// and hosted deployments where the profile directory is not durable.
// The contract is unchanged: full-value overwrite, last writer wins.
type Postgres struct {
	db  *sql.DB
	key string
}

// ConnectPostgres opens and pings a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgres(db *sql.DB, key string) (*Postgres, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cart_blobs (
			profile_key TEXT PRIMARY KEY,
			data        BYTEA NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart_blobs table: %w", err)
	}
	return &Postgres{db: db, key: key}, nil
}

func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx,
		"SELECT data FROM cart_blobs WHERE profile_key = $1",
		p.key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *Postgres) Save(ctx context.Context, data []byte) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO cart_blobs (profile_key, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (profile_key)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		p.key, data,
	)
	return err
}
