package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	invdomain "github.com/jhoicas/mfg-console/internal/domain/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

type movementRepo struct{ s *Store }

// Append aplica las mismas restricciones que las FK y el índice único de PostgreSQL.
func (r *movementRepo) Append(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[m.ItemID]; !ok {
		return &domain.NotFoundError{Entity: "ítem", ID: m.ItemID}
	}
	if _, ok := r.s.locations[m.LocationID]; !ok {
		return &domain.NotFoundError{Entity: "ubicación", ID: m.LocationID}
	}
	if m.BatchID != "" {
		if _, ok := r.s.batches[m.BatchID]; !ok {
			return &domain.NotFoundError{Entity: "lote", ID: m.BatchID}
		}
	}
	for _, x := range r.s.movements {
		if x.ID == m.ID {
			return domain.ErrDuplicate
		}
		if m.ResolvesMovementID != 0 && x.ResolvesMovementID == m.ResolvesMovementID {
			return domain.NewValidation("movement_id", "la recepción pendiente %d ya fue resuelta", m.ResolvesMovementID)
		}
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) GetResolution(_ context.Context, pendingID int64) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements {
		if m.ResolvesMovementID == pendingID {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) Query(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if !matchFilter(m, f) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, f.Limit, f.Offset), nil
}

func matchFilter(m *entity.Movement, f repository.MovementFilter) bool {
	switch {
	case f.ItemID != "" && m.ItemID != f.ItemID,
		f.LocationID != "" && m.LocationID != f.LocationID,
		f.BatchID != "" && m.BatchID != f.BatchID,
		f.Type != "" && m.Type != f.Type,
		f.OrderRef != "" && m.OrderRef != f.OrderRef,
		f.From != nil && m.CreatedAt.Before(*f.From),
		f.To != nil && m.CreatedAt.After(*f.To),
		f.PendingOnly && !m.IsPending():
		return false
	}
	return true
}

func (r *movementRepo) SumQuantity(_ context.Context, key repository.BalanceKey) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return invdomain.OnHand(r.s.movements, key), nil
}

func (r *movementRepo) BalancesByItem(_ context.Context, itemID string) ([]repository.LocationBalance, error) {
	type k struct{ loc, batch string }
	r.s.mu.RLock()
	sums := make(map[k]decimal.Decimal)
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			kk := k{m.LocationID, m.BatchID}
			sums[kk] = sums[kk].Add(m.Quantity)
		}
	}
	r.s.mu.RUnlock()

	out := make([]repository.LocationBalance, 0, len(sums))
	for kk, q := range sums {
		if q.IsZero() {
			continue
		}
		out = append(out, repository.LocationBalance{LocationID: kk.loc, BatchID: kk.batch, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].BatchID < out[j].BatchID
	})
	return out, nil
}

func (r *movementRepo) TotalsByItem(_ context.Context, itemIDs []string) (map[string]decimal.Decimal, error) {
	want := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		want[id] = true
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]decimal.Decimal)
	for _, m := range r.s.movements {
		if want[m.ItemID] {
			out[m.ItemID] = out[m.ItemID].Add(m.Quantity)
		}
	}
	return out, nil
}
