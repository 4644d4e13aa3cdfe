package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/videohub/internal/dbx"
	"github.com/dmitrijs2005/videohub/internal/server/auth"
)

type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Add(ctx context.Context, token string, ttl time.Duration) error {
	createdAt := r.now().UTC()

	query :=
		`INSERT INTO blacklisted_tokens (token_hash, created_at, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (token_hash) DO UPDATE SET expires_at = EXCLUDED.expires_at
		 `

	_, err := r.db.ExecContext(ctx, query, auth.HashToken(token), createdAt, createdAt.Add(ttl))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Contains(ctx context.Context, token string) (bool, error) {
	query :=
		`SELECT EXISTS (
		 SELECT 1 FROM blacklisted_tokens WHERE token_hash = $1 AND expires_at > $2
		 )
		 `

	var found bool
	err := r.db.QueryRowContext(ctx, query, auth.HashToken(token), r.now().UTC()).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query :=
		`DELETE FROM blacklisted_tokens WHERE expires_at <= $1
		 `

	res, err := r.db.ExecContext(ctx, query, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
