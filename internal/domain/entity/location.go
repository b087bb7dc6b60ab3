package entity

import "time"

// Location punto de almacenamiento o de uso. El código es único e inmutable;
// solo la descripción se puede editar una vez referenciada por movimientos.
type Location struct {
	ID          string
	Code        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
