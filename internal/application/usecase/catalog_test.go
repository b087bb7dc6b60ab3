package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mfg-console/internal/application/dto"
	"github.com/jhoicas/mfg-console/internal/application/usecase"
	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func TestItemUseCase_UbicacionesDistintas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	locs := usecase.NewLocationUseCase(store.Repos().Locations)
	items := usecase.NewItemUseCase(store, store.Repos())

	a, err := locs.Create(ctx, dto.CreateLocationRequest{Code: "A-01"})
	require.NoError(t, err)
	b, err := locs.Create(ctx, dto.CreateLocationRequest{Code: "B-01"})
	require.NoError(t, err)

	_, err = items.Create(ctx, dto.CreateItemRequest{
		SKU: "TORN-1", UnitMeasure: "UND", PrimaryLocationID: a.ID, PointOfUseLocationID: a.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	it, err := items.Create(ctx, dto.CreateItemRequest{
		SKU: "TORN-1", UnitMeasure: "UND", MinStock: decimal.NewFromInt(5), PrimaryLocationID: a.ID, PointOfUseLocationID: b.ID,
	})
	require.NoError(t, err)

	_, err = items.Create(ctx, dto.CreateItemRequest{SKU: "TORN-1", UnitMeasure: "UND"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = items.Update(ctx, it.ID, dto.UpdateItemRequest{SecondaryLocationID: strPtr(b.ID)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la secundaria no puede ser el punto de uso")

	upd, err := items.Update(ctx, it.ID, dto.UpdateItemRequest{
		PointOfUseLocationID: strPtr(""),
		SecondaryLocationID:  strPtr(b.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, b.ID, upd.SecondaryLocationID)
	assert.Empty(t, upd.PointOfUseLocationID)

	_, err = items.Update(ctx, it.ID, dto.UpdateItemRequest{PrimaryLocationID: strPtr("no-existe")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = items.Update(ctx, "no-existe", dto.UpdateItemRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocationUseCase_CodigoUnicoEInmutable(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	locs := usecase.NewLocationUseCase(store.Repos().Locations)

	a, err := locs.Create(ctx, dto.CreateLocationRequest{Code: "A-01", Description: "Rack A"})
	require.NoError(t, err)
	_, err = locs.Create(ctx, dto.CreateLocationRequest{Code: "A-01"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	upd, err := locs.Update(ctx, a.ID, dto.UpdateLocationRequest{Description: "Rack A, nivel 2"})
	require.NoError(t, err)
	assert.Equal(t, "A-01", upd.Code)
	assert.Equal(t, "Rack A, nivel 2", upd.Description)

	list, err := locs.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestBatchUseCase_LoteUnicoPorItem(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	items := usecase.NewItemUseCase(store, store.Repos())
	batches := usecase.NewBatchUseCase(store.Repos().Batches, store.Repos().Items)

	it, err := items.Create(ctx, dto.CreateItemRequest{SKU: "RES-1", UnitMeasure: "KG"})
	require.NoError(t, err)

	_, err = batches.Create(ctx, dto.CreateBatchRequest{ItemID: it.ID, LotNumber: "L-100", Supplier: "Acme"})
	require.NoError(t, err)
	_, err = batches.Create(ctx, dto.CreateBatchRequest{ItemID: it.ID, LotNumber: "L-100"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = batches.Create(ctx, dto.CreateBatchRequest{ItemID: "no-existe", LotNumber: "L-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := batches.ListByItem(ctx, it.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Supplier)
}
