package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un SKU maestro con su modelo de ubicación de tres niveles.
// PrimaryLocationID y SecondaryLocationID los asigna el motor de asignación o una edición explícita;
// PointOfUseLocationID solo cambia por edición explícita o importación. Vacío = sin asignar.
// Ningún par de las tres ubicaciones puede coincidir.
type Item struct {
	ID                   string
	SKU                  string // único
	Description          string
	UnitMeasure          string
	Category             string
	MinStock             decimal.Decimal // umbral mínimo de stock
	UnitCost             decimal.Decimal
	PrimaryLocationID    string
	SecondaryLocationID  string
	PointOfUseLocationID string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
