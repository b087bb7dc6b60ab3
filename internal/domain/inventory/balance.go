package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// Matches indica si el movimiento pertenece a la clave de saldo (lote vacío = todos los lotes).
func Matches(m *entity.Movement, key repository.BalanceKey) bool {
	if m.ItemID != key.ItemID || m.LocationID != key.LocationID {
		return false
	}
	return key.BatchID == "" || m.BatchID == key.BatchID
}

// OnHand suma las cantidades con signo de los movimientos de la clave.
// La suma es conmutativa: el orden de los movimientos no altera el resultado.
func OnHand(movements []*entity.Movement, key repository.BalanceKey) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if Matches(m, key) {
			total = total.Add(m.Quantity)
		}
	}
	return total
}

// HasStock es la condición que usa la asignación: saldo distinto de cero.
func HasStock(onHand decimal.Decimal) bool {
	return !onHand.IsZero()
}
