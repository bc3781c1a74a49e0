package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/clawbot69/clawnopoly/internal/logger"
	"github.com/clawbot69/clawnopoly/internal/migrations"
	"github.com/clawbot69/clawnopoly/internal/repository"
	"github.com/clawbot69/clawnopoly/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

const sqlitePrefix = "sqlite://"

// Connect opens a Postgres pool and pings it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies the embedded Postgres schema. Every statement is
// idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	migs, err := migrations.Postgres()
	if err != nil {
		return nil, err
	}
	applied := make([]string, 0, len(migs))
	for _, m := range migs {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return applied, fmt.Errorf("apply %s: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
	}
	return applied, nil
}

// IsSQLite reports whether url selects the embedded SQLite store.
func IsSQLite(url string) bool {
	return strings.HasPrefix(url, sqlitePrefix)
}

// OpenStore picks the store for url: nothing for an empty url, SQLite for
// sqlite://path and Postgres otherwise. The schema is applied in all cases.
func OpenStore(ctx context.Context, url string) (service.Store, error) {
	switch {
	case url == "":
		logger.Warn("DATABASE_URL not set, games are kept in memory only")
		return nil, nil
	case IsSQLite(url):
		path := strings.TrimPrefix(url, sqlitePrefix)
		store, err := repository.OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", "driver", "sqlite", "path", path)
		return store, nil
	default:
		pool, err := Connect(ctx, url)
		if err != nil {
			return nil, err
		}
		if _, err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected", "driver", "postgres")
		return repository.NewPostgresStore(pool), nil
	}
}
