package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

// OpenOrderLineRepository persistencia de líneas de pedidos abiertos. No hay borrado.
type OpenOrderLineRepository interface {
	// ListByOrderForUpdate devuelve todas las líneas del pedido (abiertas y completas) bloqueándolas.
	ListByOrderForUpdate(ctx context.Context, orderRef string) ([]*entity.OpenOrderLine, error)
	ListByOrder(ctx context.Context, orderRef string) ([]*entity.OpenOrderLine, error)
	Insert(ctx context.Context, line *entity.OpenOrderLine) error
	Update(ctx context.Context, line *entity.OpenOrderLine) error
	// OpenQuantityByItem suma quantity_open de las líneas no completas, por ítem.
	OpenQuantityByItem(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error)
}
