package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/mfg-console/internal/application/inventory"
)

// Querier lo común entre *pgxpool.Pool y pgx.Tx: los repositorios funcionan con cualquiera.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepos construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Movements:  NewMovementRepository(q),
		Items:      NewItemRepository(q),
		Locations:  NewLocationRepository(q),
		Batches:    NewBatchRepository(q),
		OpenOrders: NewOpenOrderRepository(q),
	}
}
