package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// RemoveInput retiro de stock de una ubicación. All=true retira todo el saldo y Quantity debe ir vacío.
type RemoveInput struct {
	ItemID     string
	LocationID string
	BatchID    string
	Quantity   *decimal.Decimal
	All        bool
	Reason     string
	Reference  string
	Actor      string
}

// ConsumeInput consumo de material asociado a un pedido u orden de producción.
type ConsumeInput struct {
	ItemID     string
	LocationID string
	BatchID    string
	Quantity   decimal.Decimal
	OrderRef   string
	Reference  string
	Actor      string
}

// AdjustInput corrección de conteo con cantidad con signo.
type AdjustInput struct {
	ItemID     string
	LocationID string
	BatchID    string
	Delta      decimal.Decimal
	Reference  string
	Actor      string
}

// RemoveFromLocation agrega un REMOVE_FROM_LOCATION negativo. El motivo debe estar en la lista configurada.
// En modo "todo" el saldo se lee dentro de la misma transacción y se retira exactamente ese valor.
func (uc *StockUseCase) RemoveFromLocation(ctx context.Context, in RemoveInput) (*entity.Movement, error) {
	reason, err := uc.checkReason(in.Reason)
	if err != nil {
		return nil, err
	}
	switch {
	case in.All && in.Quantity != nil:
		return nil, domain.NewValidation("quantity", "no se indica cantidad al retirar todo")
	case !in.All && in.Quantity == nil:
		return nil, domain.NewValidation("quantity", "requerido")
	case !in.All:
		if err := validateQuantity("quantity", *in.Quantity); err != nil {
			return nil, err
		}
	}

	var qty *decimal.Decimal
	if !in.All {
		qty = in.Quantity
	}
	m, err := uc.withdraw(ctx, "remove_from_location", withdrawal{
		itemID:     in.ItemID,
		locationID: in.LocationID,
		batchID:    in.BatchID,
		quantity:   qty,
		typ:        entity.MovementRemove,
		reference:  joinReference(reason, in.Reference),
		actor:      in.Actor,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("movement_id", m.ID).
		Str("item_id", m.ItemID).
		Str("location_id", m.LocationID).
		Str("quantity", m.Quantity.String()).
		Str("reason", reason).
		Bool("all", in.All).
		Msg("retiro registrado")
	return m, nil
}

// Consume agrega un CONSUMPTION negativo enlazado al pedido. Misma regla de sobregiro que el retiro.
func (uc *StockUseCase) Consume(ctx context.Context, in ConsumeInput) (*entity.Movement, error) {
	if err := validateQuantity("quantity", in.Quantity); err != nil {
		return nil, err
	}
	q := in.Quantity
	m, err := uc.withdraw(ctx, "consume", withdrawal{
		itemID:     in.ItemID,
		locationID: in.LocationID,
		batchID:    in.BatchID,
		quantity:   &q,
		typ:        entity.MovementConsumption,
		reference:  in.Reference,
		actor:      in.Actor,
		orderRef:   in.OrderRef,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("movement_id", m.ID).
		Str("item_id", m.ItemID).
		Str("order_ref", m.OrderRef).
		Str("quantity", m.Quantity.String()).
		Msg("consumo registrado")
	return m, nil
}

// Adjust agrega un ADJUSTMENT. Un delta negativo no puede dejar la clave bajo cero.
// No dispara la asignación de ubicación.
func (uc *StockUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.Movement, error) {
	if in.Delta.IsZero() {
		return nil, domain.NewValidation("delta", "un ajuste no puede ser cero")
	}
	if in.Delta.IsNegative() {
		q := in.Delta.Neg()
		if err := validateQuantity("delta", q); err != nil {
			return nil, err
		}
		m, err := uc.withdraw(ctx, "adjust", withdrawal{
			itemID:     in.ItemID,
			locationID: in.LocationID,
			batchID:    in.BatchID,
			quantity:   &q,
			typ:        entity.MovementAdjustment,
			reference:  in.Reference,
			actor:      in.Actor,
		})
		if err != nil {
			return nil, err
		}
		uc.logAdjust(m)
		return m, nil
	}

	if err := validateQuantity("delta", in.Delta); err != nil {
		return nil, err
	}
	if err := requireID("item_id", in.ItemID); err != nil {
		return nil, err
	}
	if err := requireID("location_id", in.LocationID); err != nil {
		return nil, err
	}
	var m *entity.Movement
	attrs := []attribute.KeyValue{attribute.String("item.id", in.ItemID), attribute.String("location.id", in.LocationID)}
	err := uc.run(ctx, "adjust", attrs, func(tx Repos) error {
		if _, err := lockItem(ctx, tx, in.ItemID); err != nil {
			return err
		}
		if err := requireLocation(ctx, tx, in.LocationID); err != nil {
			return err
		}
		if err := requireBatch(ctx, tx, in.BatchID, in.ItemID); err != nil {
			return err
		}
		m = &entity.Movement{
			ItemID:     in.ItemID,
			LocationID: in.LocationID,
			BatchID:    in.BatchID,
			Quantity:   in.Delta,
			Type:       entity.MovementAdjustment,
			Reference:  in.Reference,
			Actor:      in.Actor,
		}
		return uc.appendMovement(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, repository.BalanceKey{ItemID: in.ItemID, LocationID: in.LocationID})
	uc.logAdjust(m)
	return m, nil
}

func (uc *StockUseCase) logAdjust(m *entity.Movement) {
	uc.log.Info().
		Int64("movement_id", m.ID).
		Str("item_id", m.ItemID).
		Str("location_id", m.LocationID).
		Str("delta", m.Quantity.String()).
		Msg("ajuste registrado")
}

// withdrawal salida de stock de una clave. quantity nil = todo el saldo.
type withdrawal struct {
	itemID     string
	locationID string
	batchID    string
	quantity   *decimal.Decimal
	typ        entity.MovementType
	reference  string
	actor      string
	orderRef   string
}

// withdraw lee el saldo de la clave con el ítem bloqueado y agrega el movimiento negativo.
func (uc *StockUseCase) withdraw(ctx context.Context, op string, w withdrawal) (*entity.Movement, error) {
	if err := requireID("item_id", w.itemID); err != nil {
		return nil, err
	}
	if err := requireID("location_id", w.locationID); err != nil {
		return nil, err
	}

	var m *entity.Movement
	attrs := []attribute.KeyValue{
		attribute.String("item.id", w.itemID),
		attribute.String("location.id", w.locationID),
		attribute.Bool("all", w.quantity == nil),
	}
	err := uc.run(ctx, op, attrs, func(tx Repos) error {
		if _, err := lockItem(ctx, tx, w.itemID); err != nil {
			return err
		}
		if err := requireLocation(ctx, tx, w.locationID); err != nil {
			return err
		}
		if err := requireBatch(ctx, tx, w.batchID, w.itemID); err != nil {
			return err
		}

		locKey := repository.BalanceKey{ItemID: w.itemID, LocationID: w.locationID}
		locTotal, err := tx.Movements.SumQuantity(ctx, locKey)
		if err != nil {
			return err
		}
		// Con lote, el retiro tampoco puede superar el total de la ubicación: un retiro sin lote
		// previo ya consumió parte de esas unidades.
		available := locTotal
		if w.batchID != "" {
			key := repository.BalanceKey{ItemID: w.itemID, LocationID: w.locationID, BatchID: w.batchID}
			if available, err = tx.Movements.SumQuantity(ctx, key); err != nil {
				return err
			}
		}

		var qty decimal.Decimal
		if w.quantity == nil {
			qty = decimal.Min(available, locTotal)
			if !qty.IsPositive() {
				return domain.NewValidation("quantity", "no hay stock para retirar del ítem %s en la ubicación %s (saldo %s)",
					w.itemID, w.locationID, qty.String())
			}
		} else {
			qty = *w.quantity
			if qty.GreaterThan(available) {
				return &domain.InsufficientStockError{
					ItemID:     w.itemID,
					LocationID: w.locationID,
					BatchID:    w.batchID,
					Requested:  qty,
					Available:  available,
				}
			}
			if qty.GreaterThan(locTotal) {
				return &domain.InsufficientStockError{
					ItemID:     w.itemID,
					LocationID: w.locationID,
					Requested:  qty,
					Available:  locTotal,
				}
			}
		}

		m = &entity.Movement{
			ItemID:     w.itemID,
			LocationID: w.locationID,
			BatchID:    w.batchID,
			Quantity:   qty.Neg(),
			Type:       w.typ,
			Reference:  w.reference,
			Actor:      w.actor,
			OrderRef:   w.orderRef,
		}
		return uc.appendMovement(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, repository.BalanceKey{ItemID: w.itemID, LocationID: w.locationID})
	return m, nil
}

// checkReason valida el motivo contra la lista configurada (sin distinguir mayúsculas) y devuelve
// la forma configurada.
func (uc *StockUseCase) checkReason(reason string) (string, error) {
	r := strings.TrimSpace(reason)
	if r == "" {
		return "", domain.NewValidation("reason", "requerido")
	}
	for _, allowed := range uc.cfg.RemovalReasons {
		if strings.EqualFold(allowed, r) {
			return allowed, nil
		}
	}
	return "", domain.NewValidation("reason", "motivo %q no permitido; valores válidos: %s", r, strings.Join(uc.cfg.RemovalReasons, ", "))
}
