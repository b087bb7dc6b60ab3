package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

// MovementFilter filtros combinables para consultar el ledger. Campos vacíos no filtran.
type MovementFilter struct {
	ItemID      string
	LocationID  string
	BatchID     string
	Type        entity.MovementType
	OrderRef    string
	From        *time.Time
	To          *time.Time
	PendingOnly bool
	Limit       int // 0 = sin límite
	Offset      int
}

// BalanceKey clave de saldo. BatchID vacío = total de la ubicación (todos los lotes).
type BalanceKey struct {
	ItemID     string
	LocationID string
	BatchID    string
}

// LocationBalance saldo derivado de un ítem en una ubicación y lote.
type LocationBalance struct {
	LocationID string
	BatchID    string
	Quantity   decimal.Decimal
}

// MovementRepository puerto del ledger: solo se agrega, nunca se actualiza ni elimina.
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	// GetResolution devuelve el movimiento que resolvió la recepción pendiente indicada (nil si ninguno).
	GetResolution(ctx context.Context, pendingID int64) (*entity.Movement, error)
	Query(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// SumQuantity suma las cantidades con signo de la clave; es el cálculo de saldo autoritativo.
	SumQuantity(ctx context.Context, key BalanceKey) (decimal.Decimal, error)
	// BalancesByItem agrupa por (ubicación, lote) y omite saldos en cero.
	BalancesByItem(ctx context.Context, itemID string) ([]LocationBalance, error)
	// TotalsByItem saldo total (todas las ubicaciones) por ítem. Los ítems sin movimientos no aparecen.
	TotalsByItem(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error)
}
