package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

// ReplenishmentSuggestion ítem bajo su stock mínimo con la cantidad sugerida de pedido.
type ReplenishmentSuggestion struct {
	Item               *entity.Item
	OnHand             decimal.Decimal
	OpenDemand         decimal.Decimal
	IdealStock         decimal.Decimal
	SuggestedOrderQty  decimal.Decimal
	EstimatedOrderCost decimal.Decimal
	Priority           int
}

// ReplenishmentUseCase genera la lista de reposición a partir del ledger y de los pedidos abiertos.
type ReplenishmentUseCase struct {
	repos Repos
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repos Repos) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repos: repos}
}

var idealFactor = decimal.NewFromFloat(1.5)

// GenerateReplenishmentList devuelve los ítems con saldo total bajo el mínimo, ordenados por déficit
// relativo y luego por demanda abierta. limit <= 0 = sin límite.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, limit int) ([]ReplenishmentSuggestion, error) {
	// 1. Ítems con mínimo configurado
	items, err := uc.repos.Items.ListWithMinStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []ReplenishmentSuggestion{}, nil
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	// 2. Saldos totales y demanda de pedidos abiertos
	totals, err := uc.repos.Movements.TotalsByItem(ctx, ids)
	if err != nil {
		return nil, err
	}
	demand, err := uc.repos.OpenOrders.OpenQuantityByItem(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 3. Sugerencias
	out := make([]ReplenishmentSuggestion, 0, len(items))
	for _, it := range items {
		onHand := totals[it.ID]
		if !onHand.LessThan(it.MinStock) {
			continue
		}
		ideal := it.MinStock.Mul(idealFactor)
		qty := ideal.Add(demand[it.ID]).Sub(onHand)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		out = append(out, ReplenishmentSuggestion{
			Item:               it,
			OnHand:             onHand,
			OpenDemand:         demand[it.ID],
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			EstimatedOrderCost: qty.Mul(it.UnitCost).Round(2),
		})
	}

	// 4. Mayor déficit relativo primero; empate por demanda abierta y luego SKU
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra := a.Item.MinStock.Sub(a.OnHand).Div(a.Item.MinStock)
		rb := b.Item.MinStock.Sub(b.OnHand).Div(b.Item.MinStock)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		if !a.OpenDemand.Equal(b.OpenDemand) {
			return a.OpenDemand.GreaterThan(b.OpenDemand)
		}
		return a.Item.SKU < b.Item.SKU
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	// 5. Prioridad (1 = más urgente)
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
