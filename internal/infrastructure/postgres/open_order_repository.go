package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

var _ repository.OpenOrderLineRepository = (*OpenOrderRepo)(nil)

// OpenOrderRepo líneas de pedidos abiertos en PostgreSQL.
type OpenOrderRepo struct {
	q Querier
}

// NewOpenOrderRepository construye el adaptador.
func NewOpenOrderRepository(q Querier) *OpenOrderRepo {
	return &OpenOrderRepo{q: q}
}

const openOrderColumns = `id::text, order_ref, line_no, item_id::text, quantity_ordered, quantity_open, due_date,
	complete, completed_at, created_at, updated_at`

func scanOpenOrderLine(row pgx.Row) (*entity.OpenOrderLine, error) {
	var l entity.OpenOrderLine
	if err := row.Scan(&l.ID, &l.OrderRef, &l.LineNo, &l.ItemID, &l.QuantityOrdered, &l.QuantityOpen, &l.DueDate,
		&l.Complete, &l.CompletedAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *OpenOrderRepo) list(ctx context.Context, query, orderRef string) ([]*entity.OpenOrderLine, error) {
	rows, err := r.q.Query(ctx, query, orderRef)
	if err != nil {
		return nil, fmt.Errorf("list open order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OpenOrderLine
	for rows.Next() {
		l, err := scanOpenOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan open order line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// ListByOrderForUpdate líneas del pedido bloqueadas hasta el fin de la transacción.
func (r *OpenOrderRepo) ListByOrderForUpdate(ctx context.Context, orderRef string) ([]*entity.OpenOrderLine, error) {
	return r.list(ctx, `SELECT `+openOrderColumns+` FROM open_order_lines
		WHERE order_ref = $1 ORDER BY line_no, item_id FOR UPDATE`, orderRef)
}

// ListByOrder líneas del pedido sin bloqueo.
func (r *OpenOrderRepo) ListByOrder(ctx context.Context, orderRef string) ([]*entity.OpenOrderLine, error) {
	return r.list(ctx, `SELECT `+openOrderColumns+` FROM open_order_lines
		WHERE order_ref = $1 ORDER BY line_no, item_id`, orderRef)
}

// Insert inserta una línea nueva.
func (r *OpenOrderRepo) Insert(ctx context.Context, l *entity.OpenOrderLine) error {
	query := `
		INSERT INTO open_order_lines (id, order_ref, line_no, item_id, quantity_ordered, quantity_open, due_date,
			complete, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, l.ID, l.OrderRef, l.LineNo, l.ItemID, l.QuantityOrdered, l.QuantityOpen,
		l.DueDate, l.Complete, l.CompletedAt, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if mapped := mapConstraintError(err, "línea de pedido", l.ItemID); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert open order line: %w", err)
	}
	return nil
}

// Update reescribe cantidades, fecha y estado de completitud.
func (r *OpenOrderRepo) Update(ctx context.Context, l *entity.OpenOrderLine) error {
	query := `
		UPDATE open_order_lines SET quantity_ordered = $2, quantity_open = $3, due_date = $4,
			complete = $5, completed_at = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, l.ID, l.QuantityOrdered, l.QuantityOpen, l.DueDate,
		l.Complete, l.CompletedAt, l.UpdatedAt)
	if err != nil {
		if mapped := mapConstraintError(err, "línea de pedido", l.ID); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update open order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "línea de pedido", ID: l.ID}
	}
	return nil
}

// OpenQuantityByItem demanda abierta por ítem.
func (r *OpenOrderRepo) OpenQuantityByItem(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT item_id::text, SUM(quantity_open)
		FROM open_order_lines
		WHERE NOT complete AND item_id::text = ANY($1::text[])
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("open quantity by item: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var q decimal.Decimal
		if err := rows.Scan(&id, &q); err != nil {
			return nil, fmt.Errorf("scan open quantity: %w", err)
		}
		out[id] = q
	}
	return out, rows.Err()
}
