package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimientos sobre PostgreSQL. Solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id::text, location_id::text, COALESCE(batch_id::text, ''), quantity, type,
	reference, actor, order_ref, COALESCE(transfer_id::text, ''), COALESCE(resolves_movement_id, 0), created_at`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var typ string
	err := row.Scan(&m.ID, &m.ItemID, &m.LocationID, &m.BatchID, &m.Quantity, &typ,
		&m.Reference, &m.Actor, &m.OrderRef, &m.TransferID, &m.ResolvesMovementID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	return &m, nil
}

// Append inserta el movimiento. FK inexistente → NotFoundError; pendiente ya resuelta → ValidationError.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, item_id, location_id, batch_id, quantity, type, reference, actor, order_ref,
			transfer_id, resolves_movement_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid, NULLIF($11, 0), $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.LocationID, m.BatchID, m.Quantity, string(m.Type), m.Reference, m.Actor, m.OrderRef,
		m.TransferID, m.ResolvesMovementID, m.CreatedAt,
	)
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		if _, c := constraintOf(err); strings.Contains(c, "resolves") {
			return domain.NewValidation("movement_id", "la recepción pendiente %d ya fue resuelta", m.ResolvesMovementID)
		}
		return domain.ErrDuplicate
	}
	id := m.ItemID
	if _, c := constraintOf(err); strings.Contains(c, "batch") {
		id = m.BatchID
	} else if strings.Contains(c, "location") {
		id = m.LocationID
	}
	if mapped := mapConstraintError(err, "movimiento", id); mapped != nil {
		return mapped
	}
	return fmt.Errorf("insert movement: %w", err)
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// GetResolution movimiento que resolvió la recepción pendiente.
func (r *MovementRepo) GetResolution(ctx context.Context, pendingID int64) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE resolves_movement_id = $1`, pendingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resolution: %w", err)
	}
	return m, nil
}

// Query lista movimientos con filtros, del más reciente al más antiguo.
func (r *MovementRepo) Query(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ItemID != "" {
		add("item_id::text = $%d", f.ItemID)
	}
	if f.LocationID != "" {
		add("location_id::text = $%d", f.LocationID)
	}
	if f.BatchID != "" {
		add("batch_id::text = $%d", f.BatchID)
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.OrderRef != "" {
		add("order_ref = $%d", f.OrderRef)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	if f.PendingOnly {
		add("type = 'RECEIPT' AND quantity = 0 AND lower(reference) LIKE '%%' || $%d || '%%'", entity.PendingMarker)
	}

	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumQuantity saldo de la clave. Lote vacío suma todos los lotes de la ubicación.
func (r *MovementRepo) SumQuantity(ctx context.Context, key repository.BalanceKey) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM movements
		WHERE item_id = $1 AND location_id = $2 AND ($3::text = '' OR batch_id::text = $3)`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, key.ItemID, key.LocationID, key.BatchID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// BalancesByItem saldos no nulos del ítem por (ubicación, lote).
func (r *MovementRepo) BalancesByItem(ctx context.Context, itemID string) ([]repository.LocationBalance, error) {
	query := `
		SELECT location_id::text, COALESCE(batch_id::text, ''), SUM(quantity)
		FROM movements
		WHERE item_id = $1
		GROUP BY location_id, batch_id
		HAVING SUM(quantity) <> 0
		ORDER BY location_id, batch_id NULLS FIRST`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("balances by item: %w", err)
	}
	defer rows.Close()
	var out []repository.LocationBalance
	for rows.Next() {
		var b repository.LocationBalance
		if err := rows.Scan(&b.LocationID, &b.BatchID, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// TotalsByItem saldo total por ítem en todas las ubicaciones.
func (r *MovementRepo) TotalsByItem(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT item_id::text, SUM(quantity)
		FROM movements
		WHERE item_id::text = ANY($1::text[])
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("totals by item: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var q decimal.Decimal
		if err := rows.Scan(&id, &q); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		out[id] = q
	}
	return out, rows.Err()
}
