package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. Las ubicaciones son opcionales y distintas entre sí.
type CreateItemRequest struct {
	SKU                  string          `json:"sku" validate:"required,min=1,max=100"`
	Description          string          `json:"description" validate:"max=500"`
	UnitMeasure          string          `json:"unit_measure" validate:"required,max=20"`
	Category             string          `json:"category" validate:"max=100"`
	MinStock             decimal.Decimal `json:"min_stock"`
	UnitCost             decimal.Decimal `json:"unit_cost"`
	PrimaryLocationID    string          `json:"primary_location_id" validate:"omitempty,uuid"`
	SecondaryLocationID  string          `json:"secondary_location_id" validate:"omitempty,uuid"`
	PointOfUseLocationID string          `json:"point_of_use_location_id" validate:"omitempty,uuid"`
}

// UpdateItemRequest edición explícita. nil = no cambia; "" en una ubicación = la limpia.
type UpdateItemRequest struct {
	SKU                  *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Description          *string          `json:"description" validate:"omitempty,max=500"`
	UnitMeasure          *string          `json:"unit_measure" validate:"omitempty,min=1,max=20"`
	Category             *string          `json:"category" validate:"omitempty,max=100"`
	MinStock             *decimal.Decimal `json:"min_stock"`
	UnitCost             *decimal.Decimal `json:"unit_cost"`
	PrimaryLocationID    *string          `json:"primary_location_id" validate:"omitempty,uuid"`
	SecondaryLocationID  *string          `json:"secondary_location_id" validate:"omitempty,uuid"`
	PointOfUseLocationID *string          `json:"point_of_use_location_id" validate:"omitempty,uuid"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID                   string          `json:"id"`
	SKU                  string          `json:"sku"`
	Description          string          `json:"description"`
	UnitMeasure          string          `json:"unit_measure"`
	Category             string          `json:"category"`
	MinStock             decimal.Decimal `json:"min_stock"`
	UnitCost             decimal.Decimal `json:"unit_cost"`
	PrimaryLocationID    string          `json:"primary_location_id,omitempty"`
	SecondaryLocationID  string          `json:"secondary_location_id,omitempty"`
	PointOfUseLocationID string          `json:"point_of_use_location_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemBalanceResponse saldo de un ítem en una ubicación y lote.
type ItemBalanceResponse struct {
	LocationID string          `json:"location_id"`
	BatchID    string          `json:"batch_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}
