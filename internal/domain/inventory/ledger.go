package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

// ValidateQuantityScale rechaza cantidades con más de entity.QuantityScale decimales.
func ValidateQuantityScale(field string, q decimal.Decimal) error {
	if !q.Round(entity.QuantityScale).Equal(q) {
		return domain.NewValidation(field, "máximo %d decimales (recibido %s)", entity.QuantityScale, q.String())
	}
	return nil
}

// ValidateMovement aplica las reglas de signo por tipo antes de agregar al ledger.
// Solo una recepción pendiente puede tener cantidad cero.
func ValidateMovement(m *entity.Movement) error {
	if m.ItemID == "" {
		return domain.NewValidation("item_id", "requerido")
	}
	if m.LocationID == "" {
		return domain.NewValidation("location_id", "requerido")
	}
	if !m.Type.Valid() {
		return domain.NewValidation("type", "tipo de movimiento desconocido %q", m.Type)
	}
	if err := ValidateQuantityScale("quantity", m.Quantity); err != nil {
		return err
	}
	q := m.Quantity
	switch m.Type {
	case entity.MovementReceipt:
		if q.IsNegative() {
			return domain.NewValidation("quantity", "una recepción no puede ser negativa (%s)", q.String())
		}
		if q.IsZero() && !m.IsPending() {
			return domain.NewValidation("quantity", "cantidad cero solo se permite en recepciones pendientes")
		}
	case entity.MovementTransferIn:
		if !q.IsPositive() {
			return domain.NewValidation("quantity", "TRANSFER_IN debe ser positivo (%s)", q.String())
		}
	case entity.MovementTransferOut, entity.MovementRemove, entity.MovementConsumption:
		if !q.IsNegative() {
			return domain.NewValidation("quantity", "%s debe ser negativo (%s)", m.Type, q.String())
		}
	case entity.MovementAdjustment:
		if q.IsZero() {
			return domain.NewValidation("quantity", "un ajuste no puede ser cero")
		}
	}
	return nil
}
