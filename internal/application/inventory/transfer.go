package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// TransferLine cantidad a trasladar de un lote (BatchID vacío = sin lote).
type TransferLine struct {
	BatchID  string
	Quantity decimal.Decimal
}

// TransferInput traslado de un ítem entre dos ubicaciones.
type TransferInput struct {
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Lines          []TransferLine
	Reference      string
	Actor          string
}

// TransferResult parejas OUT/IN escritas y el cambio de ubicaciones en destino.
type TransferResult struct {
	TransferID string
	Movements  []*entity.Movement
	Assignment invdomain.Assignment
}

// Transfer mueve stock de from a to. Se valida todo antes de escribir: si alguna línea sobregira el
// origen no se escribe nada. La asignación del destino se aplica una vez al final, con el saldo de la
// primaria leído antes de la primera pareja.
func (uc *StockUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if err := requireID("item_id", in.ItemID); err != nil {
		return nil, err
	}
	if err := requireID("from_location_id", in.FromLocationID); err != nil {
		return nil, err
	}
	if err := requireID("to_location_id", in.ToLocationID); err != nil {
		return nil, err
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.NewValidation("to_location_id", "origen y destino son la misma ubicación")
	}
	if len(in.Lines) == 0 {
		return nil, domain.NewValidation("lines", "el traslado no tiene líneas")
	}

	requested := make(map[string]decimal.Decimal, len(in.Lines))
	total := decimal.Zero
	for i, l := range in.Lines {
		if err := validateQuantity(fmt.Sprintf("lines[%d].quantity", i), l.Quantity); err != nil {
			return nil, err
		}
		requested[l.BatchID] = requested[l.BatchID].Add(l.Quantity)
		total = total.Add(l.Quantity)
	}

	res := TransferResult{TransferID: uuid.New().String()}
	attrs := []attribute.KeyValue{
		attribute.String("item.id", in.ItemID),
		attribute.String("from.id", in.FromLocationID),
		attribute.String("to.id", in.ToLocationID),
		attribute.Int("lines", len(in.Lines)),
	}
	err := uc.run(ctx, "transfer", attrs, func(tx Repos) error {
		res.Movements = nil
		item, err := lockItem(ctx, tx, in.ItemID)
		if err != nil {
			return err
		}
		if err := requireLocation(ctx, tx, in.FromLocationID); err != nil {
			return err
		}
		if err := requireLocation(ctx, tx, in.ToLocationID); err != nil {
			return err
		}

		batches := make([]string, 0, len(requested))
		for b := range requested {
			batches = append(batches, b)
		}
		sort.Strings(batches)
		for _, b := range batches {
			if err := requireBatch(ctx, tx, b, in.ItemID); err != nil {
				return err
			}
			key := repository.BalanceKey{ItemID: in.ItemID, LocationID: in.FromLocationID, BatchID: b}
			available, err := tx.Movements.SumQuantity(ctx, key)
			if err != nil {
				return err
			}
			if requested[b].GreaterThan(available) {
				return &domain.InsufficientStockError{
					ItemID: in.ItemID, LocationID: in.FromLocationID, BatchID: b,
					Requested: requested[b], Available: available,
				}
			}
		}
		// El total trasladado no puede superar el total de la ubicación, aunque cada lote alcance:
		// un retiro sin lote previo ya consumió parte de esas unidades.
		locTotal, err := tx.Movements.SumQuantity(ctx, repository.BalanceKey{ItemID: in.ItemID, LocationID: in.FromLocationID})
		if err != nil {
			return err
		}
		if total.GreaterThan(locTotal) {
			return &domain.InsufficientStockError{
				ItemID: in.ItemID, LocationID: in.FromLocationID,
				Requested: total, Available: locTotal,
			}
		}

		before, err := primaryOnHand(ctx, tx, item)
		if err != nil {
			return err
		}
		for _, l := range in.Lines {
			out := &entity.Movement{
				ItemID:     in.ItemID,
				LocationID: in.FromLocationID,
				BatchID:    l.BatchID,
				Quantity:   l.Quantity.Neg(),
				Type:       entity.MovementTransferOut,
				Reference:  in.Reference,
				Actor:      in.Actor,
				TransferID: res.TransferID,
			}
			if err := uc.appendMovement(ctx, tx, out); err != nil {
				return err
			}
			inMov := &entity.Movement{
				ItemID:     in.ItemID,
				LocationID: in.ToLocationID,
				BatchID:    l.BatchID,
				Quantity:   l.Quantity,
				Type:       entity.MovementTransferIn,
				Reference:  in.Reference,
				Actor:      in.Actor,
				TransferID: res.TransferID,
			}
			if err := uc.appendMovement(ctx, tx, inMov); err != nil {
				return err
			}
			res.Movements = append(res.Movements, out, inMov)
		}

		res.Assignment, err = applyAssignment(ctx, tx, item, in.ToLocationID, before)
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("item_id", in.ItemID).Msg("traslado rechazado")
		return nil, err
	}

	uc.invalidate(ctx,
		repository.BalanceKey{ItemID: in.ItemID, LocationID: in.FromLocationID},
		repository.BalanceKey{ItemID: in.ItemID, LocationID: in.ToLocationID},
	)
	uc.log.Info().
		Str("transfer_id", res.TransferID).
		Str("item_id", in.ItemID).
		Str("from", in.FromLocationID).
		Str("to", in.ToLocationID).
		Str("quantity", total.String()).
		Int("rule", int(res.Assignment.Rule)).
		Msg("traslado registrado")
	return &res, nil
}
