package orders_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/orders"
)

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	}
}

func snap(lineNo int, item, ordered, open string) orders.SnapshotLine {
	return orders.SnapshotLine{
		LineNo:          lineNo,
		ItemID:          item,
		QuantityOrdered: decimal.RequireFromString(ordered),
		QuantityOpen:    decimal.RequireFromString(open),
	}
}

// apply simula la persistencia del plan sobre el estado guardado.
func apply(stored []*entity.OpenOrderLine, plan orders.Plan) []*entity.OpenOrderLine {
	byID := make(map[string]*entity.OpenOrderLine)
	var order []string
	for _, l := range stored {
		byID[l.ID] = l
		order = append(order, l.ID)
	}
	for _, l := range plan.Changed() {
		byID[l.ID] = l
	}
	for _, l := range plan.Inserts {
		byID[l.ID] = l
		order = append(order, l.ID)
	}
	out := make([]*entity.OpenOrderLine, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func TestPlanReconciliation_PrimeraCargaInserta(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	plan, err := orders.PlanReconciliation("SO-1", nil, []orders.SnapshotLine{
		snap(2, "ITEM-B", "5", "5"),
		snap(1, "ITEM-A", "10", "4"),
	}, now, seqID())
	require.NoError(t, err)

	assert.Equal(t, orders.Counts{Inserted: 2}, plan.Counts())
	assert.Equal(t, 1, plan.Inserts[0].LineNo, "las inserciones se ordenan por línea")
	assert.Equal(t, "SO-1", plan.Inserts[0].OrderRef)
	assert.False(t, plan.Inserts[0].Complete)
	assert.Equal(t, now, plan.Inserts[0].CreatedAt)
}

func TestPlanReconciliation_Idempotente(t *testing.T) {
	now := time.Now()
	ids := seqID()
	snapshot := []orders.SnapshotLine{snap(1, "ITEM-A", "10", "4"), snap(2, "ITEM-B", "5", "5")}

	plan, err := orders.PlanReconciliation("SO-1", nil, snapshot, now, ids)
	require.NoError(t, err)
	stored := apply(nil, plan)

	second, err := orders.PlanReconciliation("SO-1", stored, snapshot, now.Add(time.Hour), ids)
	require.NoError(t, err)
	assert.True(t, second.Counts().IsZero(), "el mismo snapshot no debe generar cambios: %s", second.Counts())
}

func TestPlanReconciliation_ActualizaSoloSiCambia(t *testing.T) {
	now := time.Now()
	ids := seqID()
	plan, _ := orders.PlanReconciliation("SO-1", nil, []orders.SnapshotLine{snap(1, "ITEM-A", "10", "4")}, now, ids)
	stored := apply(nil, plan)

	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	changed := snap(1, "ITEM-A", "10", "3")
	changed.DueDate = &due
	plan, err := orders.PlanReconciliation("SO-1", stored, []orders.SnapshotLine{changed}, now, ids)
	require.NoError(t, err)

	assert.Equal(t, orders.Counts{Updated: 1}, plan.Counts())
	assert.Equal(t, "3", plan.Updates[0].QuantityOpen.String())
	assert.Equal(t, due, *plan.Updates[0].DueDate)
	assert.Equal(t, stored[0].ID, plan.Updates[0].ID)
	assert.Equal(t, "4", stored[0].QuantityOpen.String(), "el plan no muta las líneas guardadas")
}

// Línea presente en N, ausente en N+1 y presente otra vez en N+2.
func TestPlanReconciliation_CompletaYReabre(t *testing.T) {
	ids := seqID()
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)
	t2 := t1.Add(24 * time.Hour)

	snapN := []orders.SnapshotLine{snap(1, "ITEM-A", "10", "10"), snap(2, "ITEM-B", "5", "5")}
	plan, err := orders.PlanReconciliation("SO-9", nil, snapN, t0, ids)
	require.NoError(t, err)
	stored := apply(nil, plan)

	// N+1: la línea 2 desaparece
	plan, err = orders.PlanReconciliation("SO-9", stored, snapN[:1], t1, ids)
	require.NoError(t, err)
	assert.Equal(t, orders.Counts{Completed: 1}, plan.Counts())
	stored = apply(stored, plan)
	line2 := stored[1]
	assert.True(t, line2.Complete)
	require.NotNil(t, line2.CompletedAt)
	assert.Equal(t, t1, *line2.CompletedAt)

	// Repetir N+1 no vuelve a tocar la línea completa
	again, err := orders.PlanReconciliation("SO-9", stored, snapN[:1], t1.Add(time.Hour), ids)
	require.NoError(t, err)
	assert.True(t, again.Counts().IsZero())

	// N+2: vuelve a aparecer
	plan, err = orders.PlanReconciliation("SO-9", stored, snapN, t2, ids)
	require.NoError(t, err)
	assert.Equal(t, orders.Counts{Reopened: 1}, plan.Counts())
	stored = apply(stored, plan)
	assert.False(t, stored[1].Complete)
	assert.Nil(t, stored[1].CompletedAt)
	assert.Equal(t, line2.ID, stored[1].ID, "se reabre la misma línea, no se recrea")
	assert.Len(t, stored, 2)
}

func TestPlanReconciliation_RechazaLineasDuplicadas(t *testing.T) {
	_, err := orders.PlanReconciliation("SO-1", nil, []orders.SnapshotLine{
		snap(1, "ITEM-A", "1", "1"),
		snap(1, "ITEM-A", "2", "2"),
	}, time.Now(), seqID())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlanReconciliation_MismaLineaOtroItemEsOtraLinea(t *testing.T) {
	ids := seqID()
	plan, _ := orders.PlanReconciliation("SO-1", nil, []orders.SnapshotLine{snap(1, "ITEM-A", "1", "1")}, time.Now(), ids)
	stored := apply(nil, plan)

	plan, err := orders.PlanReconciliation("SO-1", stored, []orders.SnapshotLine{snap(1, "ITEM-Z", "1", "1")}, time.Now(), ids)
	require.NoError(t, err)
	assert.Equal(t, orders.Counts{Inserted: 1, Completed: 1}, plan.Counts())
}

func TestPlanReconciliation_RechazaMasDeTresDecimales(t *testing.T) {
	for name, line := range map[string]orders.SnapshotLine{
		"pendiente": snap(1, "ITEM-A", "2", "1.2345"),
		"pedida":    snap(1, "ITEM-A", "1.0001", "1"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := orders.PlanReconciliation("SO-1", nil, []orders.SnapshotLine{line}, time.Now(), seqID())
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), "SO-1")
		})
	}

	// Con tres decimales la recarga sigue sin cambios.
	ids := seqID()
	first := []orders.SnapshotLine{snap(1, "ITEM-A", "2", "1.235")}
	plan, err := orders.PlanReconciliation("SO-1", nil, first, time.Now(), ids)
	require.NoError(t, err)
	stored := apply(nil, plan)
	plan, err = orders.PlanReconciliation("SO-1", stored, []orders.SnapshotLine{snap(1, "ITEM-A", "2.000", "1.2350")}, time.Now(), ids)
	require.NoError(t, err)
	assert.True(t, plan.Counts().IsZero())
}
