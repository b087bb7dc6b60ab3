package imports_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mfg-console/internal/application/imports"
	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/infrastructure/cache"
	"github.com/jhoicas/mfg-console/internal/infrastructure/memory"
	"github.com/jhoicas/mfg-console/internal/infrastructure/sheet"
)

func seedLocations(t *testing.T, store *memory.Store, codes ...string) map[string]string {
	t.Helper()
	ids := make(map[string]string, len(codes))
	require.NoError(t, store.Run(context.Background(), func(r inventory.Repos) error {
		for i, code := range codes {
			id := "loc-" + string(rune('a'+i))
			ids[code] = id
			if err := r.Locations.Create(context.Background(), &entity.Location{ID: id, Code: code}); err != nil {
				return err
			}
		}
		return nil
	}))
	return ids
}

func itemBySKU(t *testing.T, store *memory.Store, sku string) *entity.Item {
	t.Helper()
	it, err := store.Repos().Items.GetBySKU(context.Background(), sku)
	require.NoError(t, err)
	return it
}

func TestImportItems_ResolucionYOmisiones(t *testing.T) {
	store := memory.NewStore()
	locs := seedLocations(t, store, "A-01", "B-01", "POU-1")
	uc := imports.NewItemImportUseCase(store, zerolog.Nop())

	csv := strings.Join([]string{
		"sku,description,unit_measure,min_stock,primary_location_id,primary_location_code,secondary_location_id,secondary_location_code,point_of_use_location_id,point_of_use_location_code",
		// id válido
		"TORN-1,Tornillo,UND,10," + locs["A-01"] + ",,,,,POU-1",
		// id inválido: cae al código
		"TUER-2,Tuerca,UND,,no-es-un-id,B-01,,,,",
		// primaria y secundaria iguales: se omite
		"ARAN-3,Arandela,UND,,,A-01,,A-01,,",
		// código inexistente: se omite
		"PERN-4,Perno,UND,,,Z-99,,,,",
		// número inválido: se omite
		"CLAV-5,Clavo,UND,muchos,,,,,,",
		// sin sku
		",Sin SKU,UND,,,,,,,",
	}, "\n")
	tbl, err := sheet.Read(strings.NewReader(csv), "items.csv")
	require.NoError(t, err)
	rows, err := sheet.ItemRows(tbl)
	require.NoError(t, err)

	sum := uc.ImportItems(context.Background(), rows)
	assert.Equal(t, 2, sum.Applied)
	assert.Equal(t, 2, sum.Created)
	assert.Equal(t, 4, sum.Skipped)
	assert.Zero(t, sum.Failed)
	require.Len(t, sum.Rows, 6)
	assert.Equal(t, imports.RowSkipped, sum.Rows[2].Status)
	assert.NotEmpty(t, sum.Rows[2].Warnings)
	assert.Equal(t, 4, sum.Rows[2].Line)

	torn := itemBySKU(t, store, "TORN-1")
	require.NotNil(t, torn)
	assert.Equal(t, locs["A-01"], torn.PrimaryLocationID)
	assert.Equal(t, locs["POU-1"], torn.PointOfUseLocationID)
	assert.True(t, torn.MinStock.Equal(decimal.NewFromInt(10)))

	tuer := itemBySKU(t, store, "TUER-2")
	require.NotNil(t, tuer)
	assert.Equal(t, locs["B-01"], tuer.PrimaryLocationID)

	assert.Nil(t, itemBySKU(t, store, "ARAN-3"))
	assert.Nil(t, itemBySKU(t, store, "PERN-4"))
	assert.Nil(t, itemBySKU(t, store, "CLAV-5"))
}

func TestImportItemRow_SobrescribeSinAsignacion(t *testing.T) {
	store := memory.NewStore()
	locs := seedLocations(t, store, "A-01", "B-01", "C-01")
	uc := imports.NewItemImportUseCase(store, zerolog.Nop())
	ctx := context.Background()

	present := func(code string) imports.LocationRef { return imports.LocationRef{Code: code, Present: true} }

	res, err := uc.ImportItemRow(ctx, imports.ItemRow{Line: 2, SKU: "TORN-1", Primary: present("A-01"), Secondary: present("B-01"), PointOfUse: present("")})
	require.NoError(t, err)
	assert.True(t, res.Created)

	// Reimportar con la primaria apuntando a la antigua secundaria: se escribe tal cual.
	res, err = uc.ImportItemRow(ctx, imports.ItemRow{Line: 2, SKU: "TORN-1", Primary: present("B-01"), Secondary: present(""), PointOfUse: present("C-01")})
	require.NoError(t, err)
	assert.Equal(t, imports.RowApplied, res.Status)
	assert.False(t, res.Created)

	it := itemBySKU(t, store, "TORN-1")
	assert.Equal(t, locs["B-01"], it.PrimaryLocationID)
	assert.Empty(t, it.SecondaryLocationID)
	assert.Equal(t, locs["C-01"], it.PointOfUseLocationID)

	// Columnas ausentes conservan las ubicaciones actuales.
	res, err = uc.ImportItemRow(ctx, imports.ItemRow{Line: 3, SKU: "TORN-1", Description: "Tornillo M6"})
	require.NoError(t, err)
	assert.Equal(t, imports.RowApplied, res.Status)
	it = itemBySKU(t, store, "TORN-1")
	assert.Equal(t, locs["B-01"], it.PrimaryLocationID)
	assert.Equal(t, "Tornillo M6", it.Description)
}

func newOrderUseCase(store *memory.Store, now *time.Time) *imports.OpenOrderUseCase {
	uc := imports.NewOpenOrderUseCase(store, cache.NewLocalLocker(), zerolog.Nop())
	imports.SetClock(uc, func() time.Time { return *now })
	return uc
}

func seedItems(t *testing.T, store *memory.Store, skus ...string) {
	t.Helper()
	require.NoError(t, store.Run(context.Background(), func(r inventory.Repos) error {
		for _, sku := range skus {
			if err := r.Items.Create(context.Background(), &entity.Item{ID: "id-" + sku, SKU: sku}); err != nil {
				return err
			}
		}
		return nil
	}))
}

func row(order string, line int, sku, open string) imports.OpenOrderRow {
	q := decimal.RequireFromString(open)
	return imports.OpenOrderRow{OrderRef: order, LineNo: line, SKU: sku, QuantityOrdered: q, QuantityOpen: q}
}

func TestReconcileOpenOrderSnapshot_CicloCompletoYReapertura(t *testing.T) {
	store := memory.NewStore()
	seedItems(t, store, "TORN-1", "TUER-2")
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	uc := newOrderUseCase(store, &now)
	ctx := context.Background()

	snapN := []imports.OpenOrderRow{row("PV-1", 1, "TORN-1", "5"), row("PV-1", 2, "TUER-2", "3")}
	c, err := uc.ReconcileOpenOrderSnapshot(ctx, "PV-1", snapN)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Inserted)

	c, err = uc.ReconcileOpenOrderSnapshot(ctx, "PV-1", snapN)
	require.NoError(t, err)
	assert.True(t, c.IsZero(), "el mismo snapshot no cambia nada")

	now = now.Add(24 * time.Hour)
	c, err = uc.ReconcileOpenOrderSnapshot(ctx, "PV-1", snapN[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, c.Completed)

	lines, err := store.Repos().OpenOrders.ListByOrder(ctx, "PV-1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lines[1].Complete)
	require.NotNil(t, lines[1].CompletedAt)
	assert.Equal(t, now, *lines[1].CompletedAt)

	now = now.Add(24 * time.Hour)
	c, err = uc.ReconcileOpenOrderSnapshot(ctx, "PV-1", snapN)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Reopened)

	lines, err = store.Repos().OpenOrders.ListByOrder(ctx, "PV-1")
	require.NoError(t, err)
	require.Len(t, lines, 2, "una línea reabierta no se duplica")
	assert.False(t, lines[1].Complete)
	assert.Nil(t, lines[1].CompletedAt)
}

func TestReconcileUpload_AislaPedidosFallidos(t *testing.T) {
	store := memory.NewStore()
	seedItems(t, store, "TORN-1")
	now := time.Now()
	uc := newOrderUseCase(store, &now)
	ctx := context.Background()

	content := strings.Join([]string{
		"order_ref;line_no;sku;quantity_ordered;quantity_open;due_date",
		"PV-1;1;TORN-1;10;4;2026-05-01",
		"PV-2;1;NO-EXISTE;1;1;",
		"PV-3;1;TORN-1;2;2;",
		"PV-3;x;TORN-1;2;2;",
		"PV-4;1;TORN-1;1;1;",
		"PV-4;1;TORN-1;1;1;",
	}, "\n")
	tbl, err := sheet.Read(strings.NewReader(content), "pedidos.csv")
	require.NoError(t, err)
	rows, rowErrs, err := sheet.OpenOrderRows(tbl)
	require.NoError(t, err)
	require.Len(t, rowErrs, 1)

	res := uc.ReconcileUpload(ctx, rows, rowErrs)
	require.Len(t, res.Orders, 4)
	assert.Equal(t, 3, res.Failed)

	byRef := map[string]imports.OrderResult{}
	for _, o := range res.Orders {
		byRef[o.OrderRef] = o
	}
	assert.Empty(t, byRef["PV-1"].Error)
	assert.Equal(t, 1, byRef["PV-1"].Counts.Inserted)
	assert.Contains(t, byRef["PV-2"].Error, "NO-EXISTE")
	assert.Contains(t, byRef["PV-3"].Error, "fila 5")
	assert.NotEmpty(t, byRef["PV-4"].Error, "línea duplicada en el snapshot")

	for _, ref := range []string{"PV-2", "PV-3", "PV-4"} {
		lines, err := store.Repos().OpenOrders.ListByOrder(ctx, ref)
		require.NoError(t, err)
		assert.Empty(t, lines, ref)
	}
	lines, err := store.Repos().OpenOrders.ListByOrder(ctx, "PV-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].DueDate)
	assert.True(t, lines[0].QuantityOrdered.Equal(decimal.NewFromInt(10)))
}

func TestReconcileUpload_MilesYDecimales(t *testing.T) {
	store := memory.NewStore()
	seedItems(t, store, "TORN-1", "TUER-2")
	now := time.Now()
	uc := newOrderUseCase(store, &now)
	ctx := context.Background()

	content := strings.Join([]string{
		"order_ref;line_no;sku;quantity_ordered;quantity_open",
		"PV-1;1;TORN-1;1.234,5;1.000,25",
		"PV-1;2;TUER-2;2;1,2345",
		"PV-2;1;TUER-2;1,234.5;1,000.125",
	}, "\n")
	upload := func() *imports.UploadResult {
		tbl, err := sheet.Read(strings.NewReader(content), "pedidos.csv")
		require.NoError(t, err)
		rows, rowErrs, err := sheet.OpenOrderRows(tbl)
		require.NoError(t, err)
		require.Len(t, rowErrs, 1, "más de tres decimales no se redondea")
		assert.Equal(t, 3, rowErrs[0].Line)
		assert.Contains(t, rowErrs[0].Message, "quantity_open")
		return uc.ReconcileUpload(ctx, rows, rowErrs)
	}

	res := upload()
	byRef := map[string]imports.OrderResult{}
	for _, o := range res.Orders {
		byRef[o.OrderRef] = o
	}
	assert.Contains(t, byRef["PV-1"].Error, "fila 3")
	assert.Empty(t, byRef["PV-2"].Error)
	assert.Equal(t, 1, byRef["PV-2"].Counts.Inserted)

	lines, err := store.Repos().OpenOrders.ListByOrder(ctx, "PV-2")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].QuantityOrdered.Equal(decimal.RequireFromString("1234.5")))
	assert.True(t, lines[0].QuantityOpen.Equal(decimal.RequireFromString("1000.125")))

	res = upload()
	for _, o := range res.Orders {
		if o.OrderRef == "PV-2" {
			assert.True(t, o.Counts.IsZero(), "recargar el mismo archivo no cambia nada")
		}
	}
}
