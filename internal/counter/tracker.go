package counter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

// ActionRecordTransaction is tracked for the owner of every recorded transaction.
const ActionRecordTransaction = "record_transaction"

var ErrInvalidAction = errors.New("invalid action id")

// Tracker counts interactions per (user, action).
type Tracker interface {
	Increment(ctx context.Context, user ledger.Identity, action string) (uint64, error)
	Count(ctx context.Context, user ledger.Identity, action string) (uint64, error)
}

func validate(user ledger.Identity, action string) error {
	if user.IsZero() {
		return ledger.ErrInvalidIdentifier
	}
	if action == "" {
		return ErrInvalidAction
	}
	return nil
}

// Key is the Redis key of one counter.
func Key(user ledger.Identity, action string) string {
	return "ledger:interactions:" + user.String() + ":" + action
}

// RedisTracker keeps counters in Redis with INCR.
type RedisTracker struct {
	client *redis.Client
}

// NewRedisTracker connects to Redis and pings it once.
func NewRedisTracker(ctx context.Context, addr, password string, db int) (*RedisTracker, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisTracker{client: client}, nil
}

func (t *RedisTracker) Increment(ctx context.Context, user ledger.Identity, action string) (uint64, error) {
	if err := validate(user, action); err != nil {
		return 0, err
	}
	val, err := t.client.Incr(ctx, Key(user, action)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	return uint64(val), nil
}

func (t *RedisTracker) Count(ctx context.Context, user ledger.Identity, action string) (uint64, error) {
	if err := validate(user, action); err != nil {
		return 0, err
	}
	val, err := t.client.Get(ctx, Key(user, action)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (t *RedisTracker) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

func (t *RedisTracker) Close() error {
	return t.client.Close()
}

// MemoryTracker is the in-process Tracker used when Redis is not configured.
type MemoryTracker struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{counts: make(map[string]uint64)}
}

func (t *MemoryTracker) Increment(_ context.Context, user ledger.Identity, action string) (uint64, error) {
	if err := validate(user, action); err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	key := Key(user, action)
	t.counts[key]++
	return t.counts[key], nil
}

func (t *MemoryTracker) Count(_ context.Context, user ledger.Identity, action string) (uint64, error) {
	if err := validate(user, action); err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[Key(user, action)], nil
}
