package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// Repos conjunto de repositorios atados a una misma conexión o transacción.
type Repos struct {
	Movements  repository.MovementRepository
	Items      repository.ItemRepository
	Locations  repository.LocationRepository
	Batches    repository.BatchRepository
	OpenOrders repository.OpenOrderLineRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el commit falla) no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}

// IDGenerator genera los IDs ordenados de los movimientos.
type IDGenerator interface {
	NextID() int64
}

// BalanceCache caché de lectura de saldos para la UI. Nunca se consulta dentro de una operación de stock.
// Lookup devuelve un token de versión; Store solo guarda bajo ese token, e Invalidate cambia la versión
// de (ítem, ubicación) para que cualquier valor calculado antes del commit quede inalcanzable.
type BalanceCache interface {
	Lookup(ctx context.Context, key repository.BalanceKey) (value decimal.Decimal, token string, found bool, err error)
	Store(ctx context.Context, key repository.BalanceKey, token string, value decimal.Decimal) error
	Invalidate(ctx context.Context, keys ...repository.BalanceKey) error
}

type noCache struct{}

func (noCache) Lookup(context.Context, repository.BalanceKey) (decimal.Decimal, string, bool, error) {
	return decimal.Zero, "", false, nil
}
func (noCache) Store(context.Context, repository.BalanceKey, string, decimal.Decimal) error {
	return nil
}
func (noCache) Invalidate(context.Context, ...repository.BalanceKey) error { return nil }
