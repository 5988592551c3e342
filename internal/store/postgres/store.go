package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawen554/mijikaku/internal/store"
)

const uniqueViolation = "23505"

// DBStore keeps links in the links table. The pool is shared by every in-flight request.
type DBStore struct {
	pool *pgxpool.Pool
}

func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return pool, nil
}

func NewPostgresStore(pool *pgxpool.Pool) *DBStore {
	return &DBStore{pool: pool}
}

func (db *DBStore) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DBStore) Get(ctx context.Context, id string) (string, error) {
	row := db.pool.QueryRow(ctx, "SELECT url FROM links WHERE id = $1", id)
	var result string
	if err := row.Scan(&result); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("error selecting link: %w", err)
	}
	return result, nil
}

func (db *DBStore) Put(ctx context.Context, id string, url string) error {
	if _, err := db.pool.Exec(ctx, "INSERT INTO links (id, url) VALUES ($1, $2)", id, url); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrConflict
		}
		return fmt.Errorf("error inserting link: %w", err)
	}
	return nil
}

func (db *DBStore) Close() {
	db.pool.Close()
}
