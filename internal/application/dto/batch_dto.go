package dto

import "time"

// CreateBatchRequest entrada para registrar un lote de un ítem.
type CreateBatchRequest struct {
	ItemID         string     `json:"item_id" validate:"required,uuid"`
	LotNumber      string     `json:"lot_number" validate:"required,min=1,max=100"`
	Supplier       string     `json:"supplier" validate:"max=200"`
	ReceivedAt     *time.Time `json:"received_at"`
	ManufacturedAt *time.Time `json:"manufactured_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID             string     `json:"id"`
	ItemID         string     `json:"item_id"`
	LotNumber      string     `json:"lot_number"`
	Supplier       string     `json:"supplier,omitempty"`
	ReceivedAt     time.Time  `json:"received_at"`
	ManufacturedAt *time.Time `json:"manufactured_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
