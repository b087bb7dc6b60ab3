package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"max=200"`
}

// UpdateLocationRequest solo la descripción es editable; el código es inmutable.
type UpdateLocationRequest struct {
	Description string `json:"description" validate:"max=200"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
