// Package storage opens the shared Postgres pool and applies embedded
// goose migrations at startup.
package storage

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

func MustOpen(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		panic("storage: " + err.Error())
	}
	if err := pool.Ping(ctx); err != nil {
		panic("storage: ping: " + err.Error())
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		panic("storage: " + err.Error())
	}
	db := stdlib.OpenDBFromPool(pool)
	if err := goose.Up(db, "migrations"); err != nil {
		panic("storage: migrate: " + err.Error())
	}

	return pool
}
