package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrOrderLocked otro proceso está conciliando el mismo pedido.
var ErrOrderLocked = errors.New("el pedido está siendo conciliado por otro proceso")

// OrderLockKey clave del lock de un pedido.
func OrderLockKey(orderRef string) string {
	return "lock:open-order:" + orderRef
}

// RedisOrderLocker lock distribuido por pedido (bsm/redislock). Reintenta hasta que ctx venza.
type RedisOrderLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedisOrderLocker construye el locker. ttl es la duración del lease.
func NewRedisOrderLocker(rdb *redis.Client, ttl time.Duration) *RedisOrderLocker {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisOrderLocker{client: redislock.New(rdb), ttl: ttl}
}

func (l *RedisOrderLocker) Lock(ctx context.Context, orderRef string) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, OrderLockKey(orderRef), l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%s: %w", orderRef, ErrOrderLocked)
	}
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("lease del pedido %s expiró antes de liberar: %w", orderRef, err)
		}
		return err
	}, nil
}
