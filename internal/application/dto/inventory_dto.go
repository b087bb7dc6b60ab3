package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveRequest body para POST /api/inventory/receipts. Sin quantity se registra como pendiente.
type ReceiveRequest struct {
	ItemID     string           `json:"item_id" validate:"required"`
	LocationID string           `json:"location_id" validate:"required"`
	BatchID    string           `json:"batch_id,omitempty"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	Reference  string           `json:"reference" validate:"max=500"`
	OrderRef   string           `json:"order_ref,omitempty" validate:"max=100"`
}

// ResolvePendingRequest body para POST /api/inventory/receipts/:id/resolve.
type ResolvePendingRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference" validate:"max=500"`
}

// RemoveRequest body para POST /api/inventory/removals. all=true retira todo el saldo.
type RemoveRequest struct {
	ItemID     string           `json:"item_id" validate:"required"`
	LocationID string           `json:"location_id" validate:"required"`
	BatchID    string           `json:"batch_id,omitempty"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	All        bool             `json:"all"`
	Reason     string           `json:"reason" validate:"required"`
	Reference  string           `json:"reference" validate:"max=500"`
}

// TransferLineRequest una línea de traslado.
type TransferLineRequest struct {
	BatchID  string          `json:"batch_id,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ItemID         string                `json:"item_id" validate:"required"`
	FromLocationID string                `json:"from_location_id" validate:"required"`
	ToLocationID   string                `json:"to_location_id" validate:"required,nefield=FromLocationID"`
	Lines          []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
	Reference      string                `json:"reference" validate:"max=500"`
}

// AdjustRequest body para POST /api/inventory/adjustments (delta con signo).
type AdjustRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	BatchID    string          `json:"batch_id,omitempty"`
	Delta      decimal.Decimal `json:"delta"`
	Reference  string          `json:"reference" validate:"max=500"`
}

// ConsumeRequest body para POST /api/inventory/consumptions.
type ConsumeRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	BatchID    string          `json:"batch_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderRef   string          `json:"order_ref" validate:"required,max=100"`
	Reference  string          `json:"reference" validate:"max=500"`
}

// MovementFilterRequest filtros de GET /api/inventory/movements. from/to en RFC3339.
type MovementFilterRequest struct {
	ItemID      string `query:"item_id"`
	LocationID  string `query:"location_id"`
	BatchID     string `query:"batch_id"`
	Type        string `query:"type"`
	OrderRef    string `query:"order_ref"`
	From        string `query:"from"`
	To          string `query:"to"`
	PendingOnly bool   `query:"pending"`
	Limit       int    `query:"limit"`
	Offset      int    `query:"offset"`
}

// MovementResponse un movimiento del ledger.
type MovementResponse struct {
	ID                 int64           `json:"id,string"`
	ItemID             string          `json:"item_id"`
	LocationID         string          `json:"location_id"`
	BatchID            string          `json:"batch_id,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	Type               string          `json:"type"`
	Reference          string          `json:"reference"`
	Actor              string          `json:"actor"`
	OrderRef           string          `json:"order_ref,omitempty"`
	TransferID         string          `json:"transfer_id,omitempty"`
	ResolvesMovementID int64           `json:"resolves_movement_id,omitempty,string"`
	Pending            bool            `json:"pending"`
	CreatedAt          time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AssignmentResponse cambio de ubicaciones del ítem producido por la operación.
type AssignmentResponse struct {
	PrimaryLocationID   string `json:"primary_location_id,omitempty"`
	SecondaryLocationID string `json:"secondary_location_id,omitempty"`
	Rule                int    `json:"rule"`
	Changed             bool   `json:"changed"`
}

// ReceiveResponse resultado de una recepción o resolución de pendiente.
type ReceiveResponse struct {
	Movement   MovementResponse   `json:"movement"`
	Pending    bool               `json:"pending"`
	Assignment AssignmentResponse `json:"assignment"`
}

// TransferResponse resultado de un traslado.
type TransferResponse struct {
	TransferID string             `json:"transfer_id"`
	Movements  []MovementResponse `json:"movements"`
	Assignment AssignmentResponse `json:"assignment"`
}

// OnHandResponse saldo de una clave.
type OnHandResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	BatchID    string          `json:"batch_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// RemovalReasonsResponse motivos de retiro configurados, en orden.
type RemovalReasonsResponse struct {
	Reasons []string `json:"reasons"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	SKU                string          `json:"sku"`
	Description        string          `json:"description"`
	OnHand             decimal.Decimal `json:"on_hand"`
	MinStock           decimal.Decimal `json:"min_stock"`
	OpenDemand         decimal.Decimal `json:"open_demand"`         // quantity_open de pedidos abiertos
	IdealStock         decimal.Decimal `json:"ideal_stock"`         // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"` // IdealStock + OpenDemand - OnHand
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
