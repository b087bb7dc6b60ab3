package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mfg-console/internal/application/dto"
	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
)

// ItemUseCase catálogo de ítems. La edición explícita es una de las dos vías (junto con la importación)
// que pueden fijar el punto de uso; corre con la fila del ítem bloqueada igual que las operaciones de stock.
type ItemUseCase struct {
	txRunner inventory.TxRunner
	repos    inventory.Repos
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner inventory.TxRunner, repos inventory.Repos) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, repos: repos}
}

// Create crea un ítem nuevo. El SKU debe ser único.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	now := time.Now()
	item := &entity.Item{
		ID:                   uuid.New().String(),
		SKU:                  strings.TrimSpace(in.SKU),
		Description:          in.Description,
		UnitMeasure:          in.UnitMeasure,
		Category:             in.Category,
		MinStock:             in.MinStock,
		UnitCost:             in.UnitCost,
		PrimaryLocationID:    in.PrimaryLocationID,
		SecondaryLocationID:  in.SecondaryLocationID,
		PointOfUseLocationID: in.PointOfUseLocationID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	err := uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
		existing, err := tx.Items.GetBySKU(ctx, item.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("sku %s: %w", item.SKU, domain.ErrDuplicate)
		}
		if err := checkLocations(ctx, tx, item); err != nil {
			return err
		}
		return tx.Items.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.NotFoundError{Entity: "ítem", ID: id}
	}
	return toItemResponse(item), nil
}

// Update edición explícita de un ítem, incluidas sus tres ubicaciones.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	var out *entity.Item
	err := uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
		item, err := tx.Items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return &domain.NotFoundError{Entity: "ítem", ID: id}
		}
		if in.SKU != nil && strings.TrimSpace(*in.SKU) != item.SKU {
			sku := strings.TrimSpace(*in.SKU)
			other, err := tx.Items.GetBySKU(ctx, sku)
			if err != nil {
				return err
			}
			if other != nil {
				return fmt.Errorf("sku %s: %w", sku, domain.ErrDuplicate)
			}
			item.SKU = sku
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.UnitMeasure != nil {
			item.UnitMeasure = *in.UnitMeasure
		}
		if in.Category != nil {
			item.Category = *in.Category
		}
		if in.MinStock != nil {
			item.MinStock = *in.MinStock
		}
		if in.UnitCost != nil {
			item.UnitCost = *in.UnitCost
		}
		if in.PrimaryLocationID != nil {
			item.PrimaryLocationID = *in.PrimaryLocationID
		}
		if in.SecondaryLocationID != nil {
			item.SecondaryLocationID = *in.SecondaryLocationID
		}
		if in.PointOfUseLocationID != nil {
			item.PointOfUseLocationID = *in.PointOfUseLocationID
		}
		if err := validateItem(item); err != nil {
			return err
		}
		if err := checkLocations(ctx, tx, item); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		out = item
		return tx.Items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(out), nil
}

// List lista ítems por SKU con paginación.
func (uc *ItemUseCase) List(ctx context.Context, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repos.Items.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func validateItem(item *entity.Item) error {
	if item.SKU == "" {
		return domain.NewValidation("sku", "requerido")
	}
	if item.MinStock.IsNegative() {
		return domain.NewValidation("min_stock", "no puede ser negativo")
	}
	if item.UnitCost.IsNegative() {
		return domain.NewValidation("unit_cost", "no puede ser negativo")
	}
	if err := invdomain.ValidateQuantityScale("min_stock", item.MinStock); err != nil {
		return err
	}
	return invdomain.ValidateDistinctLocations(item.PrimaryLocationID, item.SecondaryLocationID, item.PointOfUseLocationID)
}

func checkLocations(ctx context.Context, tx inventory.Repos, item *entity.Item) error {
	fields := []struct{ field, id string }{
		{"primary_location_id", item.PrimaryLocationID},
		{"secondary_location_id", item.SecondaryLocationID},
		{"point_of_use_location_id", item.PointOfUseLocationID},
	}
	for _, f := range fields {
		if f.id == "" {
			continue
		}
		loc, err := tx.Locations.GetByID(ctx, f.id)
		if err != nil {
			return err
		}
		if loc == nil {
			return &domain.NotFoundError{Entity: "ubicación", ID: f.id}
		}
	}
	return nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:                   it.ID,
		SKU:                  it.SKU,
		Description:          it.Description,
		UnitMeasure:          it.UnitMeasure,
		Category:             it.Category,
		MinStock:             it.MinStock,
		UnitCost:             it.UnitCost,
		PrimaryLocationID:    it.PrimaryLocationID,
		SecondaryLocationID:  it.SecondaryLocationID,
		PointOfUseLocationID: it.PointOfUseLocationID,
		CreatedAt:            it.CreatedAt,
		UpdatedAt:            it.UpdatedAt,
	}
}
