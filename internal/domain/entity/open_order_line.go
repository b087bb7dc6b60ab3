package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenOrderLine línea de pedido abierto que sobrevive entre cargas de snapshots.
// Nunca se elimina: se completa cuando deja de aparecer y se reabre si vuelve.
type OpenOrderLine struct {
	ID              string
	OrderRef        string
	LineNo          int
	ItemID          string
	QuantityOrdered decimal.Decimal
	QuantityOpen    decimal.Decimal
	DueDate         *time.Time
	Complete        bool
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OpenOrderLineKey identidad de una línea dentro de su pedido.
type OpenOrderLineKey struct {
	LineNo int
	ItemID string
}

// Key devuelve la identidad de la línea dentro del pedido.
func (l *OpenOrderLine) Key() OpenOrderLineKey {
	return OpenOrderLineKey{LineNo: l.LineNo, ItemID: l.ItemID}
}
