package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mfg-console/internal/application/dto"
	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

// BatchUseCase registro y consulta de lotes.
type BatchUseCase struct {
	batchRepo repository.BatchRepository
	itemRepo  repository.ItemRepository
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(batchRepo repository.BatchRepository, itemRepo repository.ItemRepository) *BatchUseCase {
	return &BatchUseCase{batchRepo: batchRepo, itemRepo: itemRepo}
}

// Create registra un lote. El número de lote es único por ítem.
func (uc *BatchUseCase) Create(ctx context.Context, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	lot := strings.TrimSpace(in.LotNumber)
	if lot == "" {
		return nil, domain.NewValidation("lot_number", "requerido")
	}
	item, err := uc.itemRepo.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.NotFoundError{Entity: "ítem", ID: in.ItemID}
	}
	if in.ManufacturedAt != nil && in.ExpiresAt != nil && in.ExpiresAt.Before(*in.ManufacturedAt) {
		return nil, domain.NewValidation("expires_at", "vence antes de su fabricación")
	}
	existing, err := uc.batchRepo.ListByItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	for _, b := range existing {
		if b.LotNumber == lot {
			return nil, fmt.Errorf("lote %s del ítem %s: %w", lot, item.SKU, domain.ErrDuplicate)
		}
	}

	now := time.Now()
	b := &entity.Batch{
		ID:             uuid.New().String(),
		ItemID:         in.ItemID,
		LotNumber:      lot,
		Supplier:       in.Supplier,
		ReceivedAt:     now,
		ManufacturedAt: in.ManufacturedAt,
		ExpiresAt:      in.ExpiresAt,
		CreatedAt:      now,
	}
	if in.ReceivedAt != nil {
		b.ReceivedAt = *in.ReceivedAt
	}
	if err := uc.batchRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBatchResponse(b), nil
}

// ListByItem lotes de un ítem, del más antiguo al más reciente.
func (uc *BatchUseCase) ListByItem(ctx context.Context, itemID string) ([]dto.BatchResponse, error) {
	list, err := uc.batchRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBatchResponse(b))
	}
	return out, nil
}

func toBatchResponse(b *entity.Batch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:             b.ID,
		ItemID:         b.ItemID,
		LotNumber:      b.LotNumber,
		Supplier:       b.Supplier,
		ReceivedAt:     b.ReceivedAt,
		ManufacturedAt: b.ManufacturedAt,
		ExpiresAt:      b.ExpiresAt,
		CreatedAt:      b.CreatedAt,
	}
}
