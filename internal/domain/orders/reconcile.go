package orders

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
)

// SnapshotLine línea de un pedido tal como llega en la carga más reciente (ítem ya resuelto).
type SnapshotLine struct {
	LineNo          int
	ItemID          string
	QuantityOrdered decimal.Decimal
	QuantityOpen    decimal.Decimal
	DueDate         *time.Time
}

// Key identidad de la línea dentro del pedido.
func (s SnapshotLine) Key() entity.OpenOrderLineKey {
	return entity.OpenOrderLineKey{LineNo: s.LineNo, ItemID: s.ItemID}
}

// Counts resultado de una conciliación.
type Counts struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Completed int `json:"completed"`
	Reopened  int `json:"reopened"`
}

// IsZero indica que la conciliación no cambió nada.
func (c Counts) IsZero() bool {
	return c == Counts{}
}

// Plan cambios a persistir. Las líneas son copias con el estado final.
type Plan struct {
	Inserts   []*entity.OpenOrderLine
	Updates   []*entity.OpenOrderLine
	Completes []*entity.OpenOrderLine
	Reopens   []*entity.OpenOrderLine
}

// Counts resume el plan.
func (p Plan) Counts() Counts {
	return Counts{
		Inserted:  len(p.Inserts),
		Updated:   len(p.Updates),
		Completed: len(p.Completes),
		Reopened:  len(p.Reopens),
	}
}

// Changed devuelve todas las líneas existentes que cambian (updates, completes, reopens).
func (p Plan) Changed() []*entity.OpenOrderLine {
	out := make([]*entity.OpenOrderLine, 0, len(p.Updates)+len(p.Completes)+len(p.Reopens))
	out = append(out, p.Updates...)
	out = append(out, p.Completes...)
	return append(out, p.Reopens...)
}

// PlanReconciliation compara las líneas guardadas del pedido con el snapshot nuevo:
//   - en ambos: se actualizan cantidades/fecha solo si cambiaron; si estaba completa se reabre
//   - solo guardada y abierta: se completa con completed_at = now (nunca se borra)
//   - solo en el snapshot: se inserta abierta
//
// Repetir el mismo snapshot produce un plan vacío.
func PlanReconciliation(orderRef string, stored []*entity.OpenOrderLine, snapshot []SnapshotLine, now time.Time, newID func() string) (Plan, error) {
	var plan Plan

	incoming := make(map[entity.OpenOrderLineKey]SnapshotLine, len(snapshot))
	for _, s := range snapshot {
		if s.LineNo <= 0 {
			return Plan{}, domain.NewValidation("line_no", "pedido %s: número de línea inválido %d", orderRef, s.LineNo)
		}
		if s.ItemID == "" {
			return Plan{}, domain.NewValidation("item", "pedido %s línea %d: ítem requerido", orderRef, s.LineNo)
		}
		// NUMERIC(18,3) redondearía y la siguiente carga del mismo archivo contaría la línea como cambiada.
		if err := invdomain.ValidateQuantityScale("quantity_ordered", s.QuantityOrdered); err != nil {
			return Plan{}, fmt.Errorf("pedido %s línea %d: %w", orderRef, s.LineNo, err)
		}
		if err := invdomain.ValidateQuantityScale("quantity_open", s.QuantityOpen); err != nil {
			return Plan{}, fmt.Errorf("pedido %s línea %d: %w", orderRef, s.LineNo, err)
		}
		if _, dup := incoming[s.Key()]; dup {
			return Plan{}, domain.NewValidation("line_no", "pedido %s: línea %d del ítem %s repetida en el snapshot", orderRef, s.LineNo, s.ItemID)
		}
		incoming[s.Key()] = s
	}

	existing := make(map[entity.OpenOrderLineKey]bool, len(stored))
	for _, line := range stored {
		existing[line.Key()] = true
		s, present := incoming[line.Key()]
		switch {
		case present && line.Complete:
			next := *line
			applySnapshot(&next, s)
			next.Complete = false
			next.CompletedAt = nil
			next.UpdatedAt = now
			plan.Reopens = append(plan.Reopens, &next)
		case present:
			if sameValues(line, s) {
				continue
			}
			next := *line
			applySnapshot(&next, s)
			next.UpdatedAt = now
			plan.Updates = append(plan.Updates, &next)
		case !line.Complete:
			next := *line
			completedAt := now
			next.Complete = true
			next.CompletedAt = &completedAt
			next.UpdatedAt = now
			plan.Completes = append(plan.Completes, &next)
		}
	}

	for _, s := range snapshot {
		if existing[s.Key()] {
			continue
		}
		line := &entity.OpenOrderLine{
			ID:        newID(),
			OrderRef:  orderRef,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applySnapshot(line, s)
		plan.Inserts = append(plan.Inserts, line)
	}

	sortLines(plan.Inserts)
	sortLines(plan.Updates)
	sortLines(plan.Completes)
	sortLines(plan.Reopens)
	return plan, nil
}

func applySnapshot(line *entity.OpenOrderLine, s SnapshotLine) {
	line.LineNo = s.LineNo
	line.ItemID = s.ItemID
	line.QuantityOrdered = s.QuantityOrdered
	line.QuantityOpen = s.QuantityOpen
	line.DueDate = s.DueDate
}

func sameValues(line *entity.OpenOrderLine, s SnapshotLine) bool {
	if !line.QuantityOrdered.Equal(s.QuantityOrdered) || !line.QuantityOpen.Equal(s.QuantityOpen) {
		return false
	}
	switch {
	case line.DueDate == nil && s.DueDate == nil:
		return true
	case line.DueDate == nil || s.DueDate == nil:
		return false
	default:
		return line.DueDate.Equal(*s.DueDate)
	}
}

func sortLines(lines []*entity.OpenOrderLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].LineNo != lines[j].LineNo {
			return lines[i].LineNo < lines[j].LineNo
		}
		return lines[i].ItemID < lines[j].ItemID
	})
}

// String formato legible para logs.
func (c Counts) String() string {
	return fmt.Sprintf("inserted=%d updated=%d completed=%d reopened=%d", c.Inserted, c.Updated, c.Completed, c.Reopened)
}
