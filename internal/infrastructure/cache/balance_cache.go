package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/application/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

var _ inventory.BalanceCache = (*BalanceCache)(nil)

// BalanceCache caché de saldos con claves versionadas por (ítem, ubicación).
// Invalidate incrementa la versión; los valores guardados bajo una versión anterior quedan
// inalcanzables y expiran por TTL.
type BalanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBalanceCache construye la caché.
func NewBalanceCache(rdb *redis.Client, ttl time.Duration) *BalanceCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &BalanceCache{rdb: rdb, ttl: ttl}
}

// VersionKey clave del contador de versión de (ítem, ubicación).
func VersionKey(k repository.BalanceKey) string {
	return fmt.Sprintf("mfg:bal:ver:%s:%s", k.ItemID, k.LocationID)
}

// ValueKey clave del saldo para una versión. Sin lote se usa "*".
func ValueKey(k repository.BalanceKey, version string) string {
	batch := k.BatchID
	if batch == "" {
		batch = "*"
	}
	return fmt.Sprintf("mfg:bal:%s:%s:%s:v%s", k.ItemID, k.LocationID, batch, version)
}

func (c *BalanceCache) Lookup(ctx context.Context, k repository.BalanceKey) (decimal.Decimal, string, bool, error) {
	version, err := c.rdb.Get(ctx, VersionKey(k)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		version = "0"
	case err != nil:
		return decimal.Zero, "", false, err
	}

	raw, err := c.rdb.Get(ctx, ValueKey(k, version)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, version, false, nil
	}
	if err != nil {
		return decimal.Zero, version, false, err
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, version, false, nil
	}
	return v, version, true, nil
}

func (c *BalanceCache) Store(ctx context.Context, k repository.BalanceKey, token string, v decimal.Decimal) error {
	if _, err := strconv.ParseInt(token, 10, 64); err != nil {
		return fmt.Errorf("token de versión inválido %q", token)
	}
	return c.rdb.Set(ctx, ValueKey(k, token), v.String(), c.ttl).Err()
}

func (c *BalanceCache) Invalidate(ctx context.Context, keys ...repository.BalanceKey) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := c.rdb.TxPipeline()
	for _, k := range keys {
		pipe.Incr(ctx, VersionKey(k))
	}
	_, err := pipe.Exec(ctx)
	return err
}
