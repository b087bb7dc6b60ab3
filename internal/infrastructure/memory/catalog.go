package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/mfg-console/internal/domain"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

type itemRepo struct{ s *Store }

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *item
	r.s.items[item.ID] = &c
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if it, ok := r.s.items[id]; ok {
		c := *it
		return &c, nil
	}
	return nil, nil
}

func (r *itemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.items {
		if it.SKU == sku {
			c := *it
			return &c, nil
		}
	}
	return nil, nil
}

// GetForUpdate no necesita bloquear: Run ya serializa las transacciones.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) Update(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, it := range r.s.items {
		if it.ID != item.ID && it.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *item
	r.s.items[item.ID] = &c
	return nil
}

func (r *itemRepo) UpdateAssignedLocations(_ context.Context, id, primaryID, secondaryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.PrimaryLocationID = primaryID
	it.SecondaryLocationID = secondaryID
	return nil
}

func (r *itemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.RLock()
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		c := *it
		out = append(out, &c)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return page(out, limit, offset), nil
}

func (r *itemRepo) ListWithMinStock(_ context.Context) ([]*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Item
	for _, it := range r.s.items {
		if it.MinStock.IsPositive() {
			c := *it
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

type locationRepo struct{ s *Store }

func (r *locationRepo) Create(_ context.Context, loc *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.locations {
		if l.Code == loc.Code {
			return domain.ErrDuplicate
		}
	}
	c := *loc
	r.s.locations[loc.ID] = &c
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.locations[id]; ok {
		c := *l
		return &c, nil
	}
	return nil, nil
}

func (r *locationRepo) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.locations {
		if l.Code == code {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r *locationRepo) UpdateDescription(_ context.Context, id, description string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Description = description
	return nil
}

func (r *locationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	r.s.mu.RLock()
	out := make([]*entity.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		c := *l
		out = append(out, &c)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

type batchRepo struct{ s *Store }

func (r *batchRepo) Create(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[b.ItemID]; !ok {
		return &domain.NotFoundError{Entity: "ítem", ID: b.ItemID}
	}
	for _, x := range r.s.batches {
		if x.ItemID == b.ItemID && x.LotNumber == b.LotNumber {
			return domain.ErrDuplicate
		}
	}
	c := *b
	r.s.batches[b.ID] = &c
	return nil
}

func (r *batchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.batches[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r *batchRepo) ListByItem(_ context.Context, itemID string) ([]*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.ItemID == itemID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
