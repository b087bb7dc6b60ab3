package repository

import (
	"context"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	// GetForUpdate obtiene el ítem y bloquea su fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// Update reemplaza todos los campos editables, incluidas las tres ubicaciones (edición o importación).
	Update(ctx context.Context, item *entity.Item) error
	// UpdateAssignedLocations única vía de escritura del motor de asignación (primaria y secundaria).
	UpdateAssignedLocations(ctx context.Context, id, primaryID, secondaryID string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	// ListWithMinStock ítems con stock mínimo configurado (> 0).
	ListWithMinStock(ctx context.Context) ([]*entity.Item, error)
}
