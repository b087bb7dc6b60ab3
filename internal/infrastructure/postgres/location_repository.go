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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository para PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create inserta una ubicación.
func (r *LocationRepo) Create(ctx context.Context, loc *entity.Location) error {
	query := `
		INSERT INTO locations (id, code, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, loc.ID, loc.Code, loc.Description, loc.CreatedAt, loc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) getOne(ctx context.Context, where string, arg any) (*entity.Location, error) {
	query := `SELECT id::text, code, description, created_at, updated_at FROM locations WHERE ` + where
	var loc entity.Location
	err := r.q.QueryRow(ctx, query, arg).Scan(&loc.ID, &loc.Code, &loc.Description, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByCode obtiene una ubicación por código.
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.getOne(ctx, "code = $1", code)
}

// UpdateDescription actualiza solo la descripción.
func (r *LocationRepo) UpdateDescription(ctx context.Context, id, description string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE locations SET description = $2, updated_at = NOW() WHERE id = $1`, id, description)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ubicaciones por código. limit 0 = sin límite.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id::text, code, description, created_at, updated_at
		FROM locations ORDER BY code LIMIT NULLIF($1::int, 0) OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var loc entity.Location
		if err := rows.Scan(&loc.ID, &loc.Code, &loc.Description, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &loc)
	}
	return list, rows.Err()
}
