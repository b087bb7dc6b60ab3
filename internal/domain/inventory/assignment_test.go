package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de reglas del motor de asignación
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignLocation_TablaDeReglas(t *testing.T) {
	five := decimal.NewFromInt(5)
	zero := decimal.Zero

	tests := []struct {
		name          string
		item          entity.Item
		selected      string
		primaryOnHand decimal.Decimal
		wantPrimary   string
		wantSecondary string
		wantRule      inventory.AssignmentRule
		wantChanged   bool
	}{
		{
			name:        "sin primaria: LOC-A pasa a ser primaria",
			item:        entity.Item{},
			selected:    "LOC-A",
			wantPrimary: "LOC-A",
			wantRule:    inventory.RuleSetPrimary,
			wantChanged: true,
		},
		{
			name:          "primaria con stock y sin secundaria: LOC-B pasa a secundaria",
			item:          entity.Item{PrimaryLocationID: "LOC-A"},
			selected:      "LOC-B",
			primaryOnHand: five,
			wantPrimary:   "LOC-A",
			wantSecondary: "LOC-B",
			wantRule:      inventory.RuleSetSecondary,
			wantChanged:   true,
		},
		{
			name:          "secundaria ya asignada: no se sobrescribe",
			item:          entity.Item{PrimaryLocationID: "LOC-A", SecondaryLocationID: "LOC-B"},
			selected:      "LOC-C",
			primaryOnHand: five,
			wantPrimary:   "LOC-A",
			wantSecondary: "LOC-B",
			wantRule:      inventory.RuleKeepSecondary,
		},
		{
			name:          "primaria sin stock: la secundaria queda sin asignar",
			item:          entity.Item{PrimaryLocationID: "LOC-A"},
			selected:      "LOC-B",
			primaryOnHand: zero,
			wantPrimary:   "LOC-A",
			wantRule:      inventory.RuleKeepSecondary,
		},
		{
			name:          "misma primaria con stock cero: no-op (regla 2 antes del chequeo de stock)",
			item:          entity.Item{PrimaryLocationID: "LOC-A"},
			selected:      "LOC-A",
			primaryOnHand: zero,
			wantPrimary:   "LOC-A",
			wantRule:      inventory.RuleSamePrimary,
		},
		{
			name:          "saldo negativo en primaria cuenta como stock",
			item:          entity.Item{PrimaryLocationID: "LOC-A"},
			selected:      "LOC-B",
			primaryOnHand: decimal.NewFromInt(-2),
			wantPrimary:   "LOC-A",
			wantSecondary: "LOC-B",
			wantRule:      inventory.RuleSetSecondary,
			wantChanged:   true,
		},
		{
			name:          "punto de uso nunca participa",
			item:          entity.Item{PrimaryLocationID: "LOC-A", PointOfUseLocationID: "POU-1"},
			selected:      "POU-1",
			primaryOnHand: five,
			wantPrimary:   "LOC-A",
			wantRule:      inventory.RulePointOfUseSkip,
		},
		{
			name:        "sin primaria e ingreso en la secundaria: se promueve a primaria",
			item:        entity.Item{SecondaryLocationID: "LOC-B"},
			selected:    "LOC-B",
			wantPrimary: "LOC-B",
			wantRule:    inventory.RuleSetPrimary,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			got := inventory.AssignLocation(&item, tt.selected, tt.primaryOnHand)

			assert.Equal(t, tt.wantPrimary, got.PrimaryLocationID)
			assert.Equal(t, tt.wantSecondary, got.SecondaryLocationID)
			assert.Equal(t, tt.wantRule, got.Rule)
			assert.Equal(t, tt.wantChanged, got.Changed)
			assert.Equal(t, tt.item, item, "AssignLocation no debe mutar el ítem recibido")
			assert.NoError(t, inventory.ValidateDistinctLocations(got.PrimaryLocationID, got.SecondaryLocationID, item.PointOfUseLocationID))
		})
	}
}
