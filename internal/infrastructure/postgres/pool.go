package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mfg-console/pkg/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// NewPool crea el pool de conexiones con la configuración de la app (DATABASE_URL o DB_*).
// Las sesiones corren en UTC para que created_at de los movimientos no dependa del servidor.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = "mfg-console"
	params["timezone"] = "UTC"

	// NUMERIC <-> shopspring/decimal en todas las conexiones del pool.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pingWithRetry(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// pingWithRetry espera a que la base acepte conexiones (en docker compose suele arrancar después).
func pingWithRetry(ctx context.Context, pool *pgxpool.Pool) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping DB: %w", ctx.Err())
		case <-time.After(connectBackoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("ping DB (%d intentos): %w", connectAttempts, err)
}
