package entity

import "time"

// Batch lote de un ítem. No guarda cantidad: el saldo del lote se deriva de los movimientos que lo referencian.
type Batch struct {
	ID             string
	ItemID         string
	LotNumber      string
	Supplier       string
	ReceivedAt     time.Time
	ManufacturedAt *time.Time
	ExpiresAt      *time.Time
	CreatedAt      time.Time
}
