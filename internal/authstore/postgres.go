package authstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresKV struct {
	pool *pgxpool.Pool
}

func NewPostgresKV(pool *pgxpool.Pool) *PostgresKV { return &PostgresKV{pool: pool} }

func (r *PostgresKV) Get(ctx context.Context, chatID int64, key string) (string, bool, error) {
	var v string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM kv_store WHERE chat_id = $1 AND key = $2`, chatID, key,
	).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *PostgresKV) Set(ctx context.Context, chatID int64, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO kv_store (chat_id, key, value, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (chat_id, key) DO UPDATE SET
		  value = EXCLUDED.value, updated_at = now()
	`, chatID, key, value)
	return err
}

func (r *PostgresKV) Delete(ctx context.Context, chatID int64, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM kv_store WHERE chat_id = $1 AND key = ANY($2)`, chatID, keys)
	return err
}
