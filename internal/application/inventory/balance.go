package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// OnHand saldo de (ítem, ubicación[, lote]) para consulta. Puede servirse desde la caché de lectura;
// las operaciones de stock nunca usan este método.
func (uc *StockUseCase) OnHand(ctx context.Context, itemID, locationID, batchID string) (decimal.Decimal, error) {
	if err := requireID("item_id", itemID); err != nil {
		return decimal.Zero, err
	}
	if err := requireID("location_id", locationID); err != nil {
		return decimal.Zero, err
	}
	key := repository.BalanceKey{ItemID: itemID, LocationID: locationID, BatchID: batchID}

	cached, token, found, err := uc.cache.Lookup(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Msg("caché de saldos no disponible")
	} else if found {
		return cached, nil
	}

	item, err := uc.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, &domain.NotFoundError{Entity: "ítem", ID: itemID}
	}
	loc, err := uc.repos.Locations.GetByID(ctx, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	if loc == nil {
		return decimal.Zero, &domain.NotFoundError{Entity: "ubicación", ID: locationID}
	}

	qty, err := uc.repos.Movements.SumQuantity(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	if token != "" {
		if err := uc.cache.Store(ctx, key, token, qty); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar el saldo en caché")
		}
	}
	return qty, nil
}

// ListMovements consulta el ledger con filtros, del más reciente al más antiguo.
func (uc *StockUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.NewValidation("type", "tipo de movimiento desconocido %q", filter.Type)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidation("to", "el rango de fechas está invertido")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, domain.NewValidation("limit", "paginación inválida")
	}
	return uc.repos.Movements.Query(ctx, filter)
}

// ItemBalances saldos no nulos del ítem por (ubicación, lote).
func (uc *StockUseCase) ItemBalances(ctx context.Context, itemID string) ([]repository.LocationBalance, error) {
	item, err := uc.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.NotFoundError{Entity: "ítem", ID: itemID}
	}
	return uc.repos.Movements.BalancesByItem(ctx, itemID)
}
