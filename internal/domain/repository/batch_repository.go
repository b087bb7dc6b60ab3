package repository

import (
	"context"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para Batch.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.Batch, error)
}
