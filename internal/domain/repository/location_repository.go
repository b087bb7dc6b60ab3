package repository

import (
	"context"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByCode(ctx context.Context, code string) (*entity.Location, error)
	// UpdateDescription el código es inmutable; solo cambia la descripción.
	UpdateDescription(ctx context.Context, id, description string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Location, error)
}
