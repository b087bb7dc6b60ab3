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

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository para PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador.
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id::text, item_id::text, lot_number, supplier, received_at, manufactured_at, expires_at, created_at`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	if err := row.Scan(&b.ID, &b.ItemID, &b.LotNumber, &b.Supplier, &b.ReceivedAt,
		&b.ManufacturedAt, &b.ExpiresAt, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta un lote. Lote repetido para el mismo ítem → ErrDuplicate.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, item_id, lot_number, supplier, received_at, manufactured_at, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ItemID, b.LotNumber, b.Supplier, b.ReceivedAt, b.ManufacturedAt, b.ExpiresAt, b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if mapped := mapConstraintError(err, "lote", b.ItemID); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	if !validUUID(id) {
		return nil, nil
	}
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListByItem lotes del ítem por fecha de recepción.
func (r *BatchRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Batch, error) {
	if !validUUID(itemID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+batchColumns+` FROM batches WHERE item_id = $1 ORDER BY received_at`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
