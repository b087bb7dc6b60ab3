package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

func TestGenerateReplenishmentList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.locations(t, "A")
	f.seed(t, func(ctx context.Context, r inventory.Repos) error {
		for _, it := range []*entity.Item{
			{ID: "I1", SKU: "TORN-01", MinStock: decimal.NewFromInt(10), UnitCost: decimal.RequireFromString("2.5")},
			{ID: "I2", SKU: "TUER-02", MinStock: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(1)},
			{ID: "I3", SKU: "ARAN-03", MinStock: decimal.NewFromInt(4)},
			{ID: "I4", SKU: "SIN-MIN"},
		} {
			if err := r.Items.Create(ctx, it); err != nil {
				return err
			}
		}
		now := time.Now()
		return r.OpenOrders.Insert(ctx, &entity.OpenOrderLine{
			ID: "OL1", OrderRef: "PV-1", LineNo: 1, ItemID: "I2",
			QuantityOrdered: decimal.NewFromInt(6), QuantityOpen: decimal.NewFromInt(4),
			CreatedAt: now, UpdatedAt: now,
		})
	})
	f.receive(t, "I1", "A", "", "2") // 80% de déficit
	f.receive(t, "I2", "A", "", "8") // 20% de déficit, con demanda
	f.receive(t, "I3", "A", "", "4") // en el mínimo: no aparece

	uc := inventory.NewReplenishmentUseCase(f.store.Repos())
	list, err := uc.GenerateReplenishmentList(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "TORN-01", list[0].Item.SKU)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].IdealStock.Equal(decimal.NewFromInt(15)))
	assert.True(t, list[0].SuggestedOrderQty.Equal(decimal.NewFromInt(13)))
	assert.True(t, list[0].EstimatedOrderCost.Equal(decimal.RequireFromString("32.5")))

	assert.Equal(t, "TUER-02", list[1].Item.SKU)
	assert.True(t, list[1].OpenDemand.Equal(decimal.NewFromInt(4)))
	assert.True(t, list[1].SuggestedOrderQty.Equal(decimal.NewFromInt(11)))

	limited, err := uc.GenerateReplenishmentList(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
