package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
	"github.com/jhoicas/mfg-console/internal/infrastructure/memory"
	"github.com/jhoicas/mfg-console/pkg/config"
)

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) NextID() int64 { return s.n.Add(1) }

// spyCache registra las invalidaciones y guarda valores por versión.
type spyCache struct {
	mu          sync.Mutex
	versions    map[string]int
	values      map[string]decimal.Decimal
	invalidated []repository.BalanceKey
}

func newSpyCache() *spyCache {
	return &spyCache{versions: map[string]int{}, values: map[string]decimal.Decimal{}}
}

func (c *spyCache) ver(k repository.BalanceKey) string { return k.ItemID + "/" + k.LocationID }

func (c *spyCache) full(k repository.BalanceKey, v int) string {
	return fmt.Sprintf("%s/%s#%d", c.ver(k), k.BatchID, v)
}

func (c *spyCache) Lookup(_ context.Context, k repository.BalanceKey) (decimal.Decimal, string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	token := c.full(k, c.versions[c.ver(k)])
	v, ok := c.values[token]
	return v, token, ok, nil
}

func (c *spyCache) Store(_ context.Context, _ repository.BalanceKey, token string, v decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[token] = v
	return nil
}

func (c *spyCache) Invalidate(_ context.Context, keys ...repository.BalanceKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.versions[c.ver(k)]++
		c.invalidated = append(c.invalidated, k)
	}
	return nil
}

type fixture struct {
	store *memory.Store
	cache *spyCache
	uc    *inventory.StockUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cache := newSpyCache()
	uc := inventory.NewStockUseCase(store, store.Repos(), &seqIDs{}, cache, inventory.StockConfig{
		RemovalReasons: config.DefaultRemovalReasons,
		OpTimeout:      5 * time.Second,
	}, zerolog.Nop())
	return &fixture{store: store, cache: cache, uc: uc}
}

func (f *fixture) seed(t *testing.T, fn func(ctx context.Context, r inventory.Repos) error) {
	t.Helper()
	require.NoError(t, f.store.Run(context.Background(), func(r inventory.Repos) error {
		return fn(context.Background(), r)
	}))
}

func (f *fixture) locations(t *testing.T, ids ...string) {
	t.Helper()
	f.seed(t, func(ctx context.Context, r inventory.Repos) error {
		for _, id := range ids {
			if err := r.Locations.Create(ctx, &entity.Location{ID: id, Code: "C-" + id}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (f *fixture) item(t *testing.T, id, primary, secondary, pou string) {
	t.Helper()
	f.seed(t, func(ctx context.Context, r inventory.Repos) error {
		return r.Items.Create(ctx, &entity.Item{
			ID: id, SKU: "SKU-" + id, UnitMeasure: "UND",
			PrimaryLocationID: primary, SecondaryLocationID: secondary, PointOfUseLocationID: pou,
		})
	})
}

func (f *fixture) batch(t *testing.T, id, itemID string) {
	t.Helper()
	f.seed(t, func(ctx context.Context, r inventory.Repos) error {
		return r.Batches.Create(ctx, &entity.Batch{ID: id, ItemID: itemID, LotNumber: "LOT-" + id, ReceivedAt: time.Now()})
	})
}

func (f *fixture) getItem(t *testing.T, id string) *entity.Item {
	t.Helper()
	it, err := f.store.Repos().Items.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

func (f *fixture) receive(t *testing.T, itemID, locationID, batchID, qty string) *inventory.ReceiveResult {
	t.Helper()
	q := decimal.RequireFromString(qty)
	res, err := f.uc.Receive(context.Background(), inventory.ReceiveInput{
		ItemID: itemID, LocationID: locationID, BatchID: batchID, Quantity: &q, Actor: "tester",
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) onHand(t *testing.T, itemID, locationID, batchID string) decimal.Decimal {
	t.Helper()
	q, err := f.store.Repos().Movements.SumQuantity(context.Background(),
		repository.BalanceKey{ItemID: itemID, LocationID: locationID, BatchID: batchID})
	require.NoError(t, err)
	return q
}

func (f *fixture) movementCount(t *testing.T) int {
	t.Helper()
	all, err := f.store.Repos().Movements.Query(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	return len(all)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
