package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository para PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id::text, sku, description, unit_measure, category, min_stock, unit_cost,
	COALESCE(primary_location_id::text, ''), COALESCE(secondary_location_id::text, ''),
	COALESCE(point_of_use_location_id::text, ''), created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.SKU, &it.Description, &it.UnitMeasure, &it.Category, &it.MinStock, &it.UnitCost,
		&it.PrimaryLocationID, &it.SecondaryLocationID, &it.PointOfUseLocationID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserta un ítem.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (id, sku, description, unit_measure, category, min_stock, unit_cost,
			primary_location_id, secondary_location_id, point_of_use_location_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, NULLIF($9, '')::uuid, NULLIF($10, '')::uuid, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Description, it.UnitMeasure, it.Category, it.MinStock, it.UnitCost,
		it.PrimaryLocationID, it.SecondaryLocationID, it.PointOfUseLocationID, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if mapped := mapConstraintError(err, "ítem", it.SKU); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, where string, arg any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetBySKU obtiene un ítem por SKU.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.getOne(ctx, "sku = $1", sku)
}

// GetForUpdate obtiene el ítem bloqueando su fila hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1 FOR UPDATE", id)
}

// Update reemplaza los campos editables del ítem.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET sku = $2, description = $3, unit_measure = $4, category = $5, min_stock = $6,
			unit_cost = $7, primary_location_id = NULLIF($8, '')::uuid, secondary_location_id = NULLIF($9, '')::uuid,
			point_of_use_location_id = NULLIF($10, '')::uuid, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Description, it.UnitMeasure, it.Category, it.MinStock, it.UnitCost,
		it.PrimaryLocationID, it.SecondaryLocationID, it.PointOfUseLocationID, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if mapped := mapConstraintError(err, "ítem", it.ID); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "ítem", ID: it.ID}
	}
	return nil
}

// UpdateAssignedLocations escribe primaria y secundaria; punto de uso no se toca.
func (r *ItemRepo) UpdateAssignedLocations(ctx context.Context, id, primaryID, secondaryID string) error {
	query := `
		UPDATE items SET primary_location_id = NULLIF($2, '')::uuid, secondary_location_id = NULLIF($3, '')::uuid,
			updated_at = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, primaryID, secondaryID)
	if err != nil {
		if mapped := mapConstraintError(err, "ítem", id); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update item locations: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "ítem", ID: id}
	}
	return nil
}

func (r *ItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// List lista ítems ordenados por SKU. limit 0 = sin límite.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM items ORDER BY sku LIMIT NULLIF($1::int, 0) OFFSET $2`, limit, offset)
}

// ListWithMinStock ítems con stock mínimo configurado.
func (r *ItemRepo) ListWithMinStock(ctx context.Context) ([]*entity.Item, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM items WHERE min_stock > 0 ORDER BY sku`)
}
