package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

type openOrderRepo struct{ s *Store }

func (r *openOrderRepo) ListByOrderForUpdate(ctx context.Context, orderRef string) ([]*entity.OpenOrderLine, error) {
	return r.ListByOrder(ctx, orderRef)
}

func (r *openOrderRepo) ListByOrder(_ context.Context, orderRef string) ([]*entity.OpenOrderLine, error) {
	r.s.mu.RLock()
	var out []*entity.OpenOrderLine
	for _, l := range r.s.lines {
		if l.OrderRef == orderRef {
			c := *l
			out = append(out, &c)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].LineNo != out[j].LineNo {
			return out[i].LineNo < out[j].LineNo
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}

func (r *openOrderRepo) Insert(_ context.Context, line *entity.OpenOrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[line.ItemID]; !ok {
		return &domain.NotFoundError{Entity: "ítem", ID: line.ItemID}
	}
	for _, l := range r.s.lines {
		if l.OrderRef == line.OrderRef && l.Key() == line.Key() {
			return domain.ErrDuplicate
		}
	}
	c := *line
	r.s.lines[line.ID] = &c
	return nil
}

func (r *openOrderRepo) Update(_ context.Context, line *entity.OpenOrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *line
	r.s.lines[line.ID] = &c
	return nil
}

func (r *openOrderRepo) OpenQuantityByItem(_ context.Context, itemIDs []string) (map[string]decimal.Decimal, error) {
	want := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		want[id] = true
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]decimal.Decimal)
	for _, l := range r.s.lines {
		if !l.Complete && want[l.ItemID] {
			out[l.ItemID] = out[l.ItemID].Add(l.QuantityOpen)
		}
	}
	return out, nil
}
