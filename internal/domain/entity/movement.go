package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType etiqueta del movimiento en el ledger.
type MovementType string

// Tipos de movimiento del ledger.
const (
	MovementReceipt     MovementType = "RECEIPT"
	MovementRemove      MovementType = "REMOVE_FROM_LOCATION"
	MovementTransferOut MovementType = "TRANSFER_OUT"
	MovementTransferIn  MovementType = "TRANSFER_IN"
	MovementAdjustment  MovementType = "ADJUSTMENT"
	MovementConsumption MovementType = "CONSUMPTION"
)

// PendingMarker marca en Reference una recepción registrada sin cantidad contada.
const PendingMarker = "quantity pending"

// QuantityScale cantidad máxima de decimales de una cantidad.
const QuantityScale = 3

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementReceipt, MovementRemove, MovementTransferOut, MovementTransferIn, MovementAdjustment, MovementConsumption:
		return true
	}
	return false
}

// Movement entrada del ledger; el único hecho con cantidad del sistema. Inmutable una vez creado:
// las correcciones se hacen con movimientos compensatorios.
type Movement struct {
	ID                 int64 // snowflake, ordenado por tiempo
	ItemID             string
	LocationID         string
	BatchID            string          // vacío = sin lote
	Quantity           decimal.Decimal // con signo
	Type               MovementType
	Reference          string
	Actor              string
	OrderRef           string
	TransferID         string // agrupa las parejas OUT/IN de un traslado
	ResolvesMovementID int64  // recepción pendiente que resuelve (0 = ninguna)
	CreatedAt          time.Time
}

// IsPending indica si el movimiento es una recepción pendiente (cantidad 0 con marcador).
func (m *Movement) IsPending() bool {
	return m.Type == MovementReceipt && m.Quantity.IsZero() &&
		strings.Contains(strings.ToLower(m.Reference), PendingMarker)
}

// WithPendingMarker agrega el marcador de pendiente a una referencia si aún no lo tiene.
func WithPendingMarker(reference string) string {
	ref := strings.TrimSpace(reference)
	if strings.Contains(strings.ToLower(ref), PendingMarker) {
		return ref
	}
	if ref == "" {
		return PendingMarker
	}
	return ref + " [" + PendingMarker + "]"
}
