package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// ReceiveInput datos de una recepción. Quantity nil registra una recepción pendiente.
type ReceiveInput struct {
	ItemID     string
	LocationID string
	BatchID    string
	Quantity   *decimal.Decimal
	Reference  string
	Actor      string
	OrderRef   string
}

// ReceiveResult movimiento agregado y, si aplica, el cambio de ubicaciones del ítem.
type ReceiveResult struct {
	Movement   *entity.Movement
	Pending    bool
	Assignment invdomain.Assignment
}

// Receive registra una recepción. Con cantidad: agrega RECEIPT y aplica la asignación de ubicación
// (salvo que la ubicación sea el punto de uso del ítem). Sin cantidad: agrega una recepción pendiente
// con cantidad 0 y no toca las ubicaciones.
func (uc *StockUseCase) Receive(ctx context.Context, in ReceiveInput) (*ReceiveResult, error) {
	if err := requireID("item_id", in.ItemID); err != nil {
		return nil, err
	}
	if err := requireID("location_id", in.LocationID); err != nil {
		return nil, err
	}
	pending := in.Quantity == nil
	if !pending {
		if err := validateQuantity("quantity", *in.Quantity); err != nil {
			return nil, err
		}
	}

	var res ReceiveResult
	attrs := []attribute.KeyValue{
		attribute.String("item.id", in.ItemID),
		attribute.String("location.id", in.LocationID),
		attribute.Bool("pending", pending),
	}
	err := uc.run(ctx, "receive", attrs, func(tx Repos) error {
		item, err := lockItem(ctx, tx, in.ItemID)
		if err != nil {
			return err
		}
		if err := requireLocation(ctx, tx, in.LocationID); err != nil {
			return err
		}
		if err := requireBatch(ctx, tx, in.BatchID, in.ItemID); err != nil {
			return err
		}

		m := &entity.Movement{
			ItemID:     in.ItemID,
			LocationID: in.LocationID,
			BatchID:    in.BatchID,
			Type:       entity.MovementReceipt,
			Actor:      in.Actor,
			OrderRef:   in.OrderRef,
			Reference:  in.Reference,
			Quantity:   decimal.Zero,
		}
		if pending {
			m.Reference = entity.WithPendingMarker(in.Reference)
			if err := uc.appendMovement(ctx, tx, m); err != nil {
				return err
			}
			res = ReceiveResult{Movement: m, Pending: true}
			return nil
		}

		before, err := primaryOnHand(ctx, tx, item)
		if err != nil {
			return err
		}
		m.Quantity = *in.Quantity
		if err := uc.appendMovement(ctx, tx, m); err != nil {
			return err
		}
		a, err := applyAssignment(ctx, tx, item, in.LocationID, before)
		if err != nil {
			return err
		}
		res = ReceiveResult{Movement: m, Assignment: a}
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("item_id", in.ItemID).Str("location_id", in.LocationID).Msg("recepción rechazada")
		return nil, err
	}

	uc.invalidate(ctx, repository.BalanceKey{ItemID: in.ItemID, LocationID: in.LocationID})
	uc.log.Info().
		Int64("movement_id", res.Movement.ID).
		Str("item_id", in.ItemID).
		Str("location_id", in.LocationID).
		Str("quantity", res.Movement.Quantity.String()).
		Bool("pending", res.Pending).
		Int("rule", int(res.Assignment.Rule)).
		Msg("recepción registrada")
	return &res, nil
}

// ResolveInput cantidad real de una recepción pendiente.
type ResolveInput struct {
	MovementID int64
	Quantity   decimal.Decimal
	Reference  string
	Actor      string
}

// ResolvePendingReceipt registra la cantidad de una recepción pendiente: agrega un RECEIPT nuevo en la
// ubicación y lote de la fila pendiente, enlazado por resolves_movement_id, y aplica la asignación una
// sola vez. La fila pendiente no se modifica y solo puede resolverse una vez.
func (uc *StockUseCase) ResolvePendingReceipt(ctx context.Context, in ResolveInput) (*ReceiveResult, error) {
	if in.MovementID <= 0 {
		return nil, domain.NewValidation("movement_id", "requerido")
	}
	if err := validateQuantity("quantity", in.Quantity); err != nil {
		return nil, err
	}

	var res ReceiveResult
	attrs := []attribute.KeyValue{attribute.Int64("movement.id", in.MovementID)}
	err := uc.run(ctx, "resolve_pending_receipt", attrs, func(tx Repos) error {
		pending, err := tx.Movements.GetByID(ctx, in.MovementID)
		if err != nil {
			return err
		}
		if pending == nil {
			return &domain.NotFoundError{Entity: "movimiento", ID: fmt.Sprint(in.MovementID)}
		}
		if !pending.IsPending() {
			return domain.NewValidation("movement_id", "el movimiento %d no es una recepción pendiente", in.MovementID)
		}

		item, err := lockItem(ctx, tx, pending.ItemID)
		if err != nil {
			return err
		}
		prev, err := tx.Movements.GetResolution(ctx, pending.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			return domain.NewValidation("movement_id", "la recepción pendiente %d ya fue resuelta por el movimiento %d", pending.ID, prev.ID)
		}

		before, err := primaryOnHand(ctx, tx, item)
		if err != nil {
			return err
		}
		m := &entity.Movement{
			ItemID:             pending.ItemID,
			LocationID:         pending.LocationID,
			BatchID:            pending.BatchID,
			Quantity:           in.Quantity,
			Type:               entity.MovementReceipt,
			Reference:          joinReference(fmt.Sprintf("resuelve recepción pendiente #%d", pending.ID), in.Reference),
			Actor:              in.Actor,
			OrderRef:           pending.OrderRef,
			ResolvesMovementID: pending.ID,
		}
		if err := uc.appendMovement(ctx, tx, m); err != nil {
			return err
		}
		a, err := applyAssignment(ctx, tx, item, pending.LocationID, before)
		if err != nil {
			return err
		}
		res = ReceiveResult{Movement: m, Assignment: a}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, repository.BalanceKey{ItemID: res.Movement.ItemID, LocationID: res.Movement.LocationID})
	uc.log.Info().
		Int64("movement_id", res.Movement.ID).
		Int64("resolves", in.MovementID).
		Str("quantity", in.Quantity.String()).
		Msg("recepción pendiente resuelta")
	return &res, nil
}
