package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ddkspices/storefront/internal/config"
)

// Schema:
//
//	CREATE TABLE cart_snapshots (
//	    cart_key   TEXT PRIMARY KEY,
//	    snapshot   BYTEA NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type postgresCartRepository struct {
	db  *sql.DB
	key string
}

func NewPostgresCartRepo(db *sql.DB, cfg *config.Config) CartRepository {
	return &postgresCartRepository{db: db, key: cfg.Cart.Key}
}

func (r *postgresCartRepository) Load(ctx context.Context) ([]byte, bool, error) {
	query := `
		SELECT snapshot
		FROM cart_snapshots
		WHERE cart_key = $1
	`

	var snapshot []byte

	err := r.db.QueryRowContext(ctx, query, r.key).Scan(&snapshot)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("querying cart snapshot: %w", err)
	}

	return snapshot, true, nil
}

func (r *postgresCartRepository) Save(ctx context.Context, snapshot []byte) error {
	query := `
		INSERT INTO cart_snapshots (cart_key, snapshot, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (cart_key)
		DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, r.key, snapshot); err != nil {
		return fmt.Errorf("failed to upsert cart snapshot: %w", err)
	}

	return nil
}
