// Package lock provides a best-effort distributed lock over Redis, used to
// fail concurrent merges of the same record pair fast instead of letting
// both reach the database transaction. It is an optimization: if Redis is
// unreachable, callers proceed without the lock and rely on the golden
// record store's transactional checks for correctness.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/magnolia/internal/platform/tracing"
)

// ErrNotAcquired indicates the lock is currently held by another caller.
var ErrNotAcquired = errors.New("lock: not acquired")

type Locker struct {
	client *redis.Client
	logger ectologger.Logger
	ttl    time.Duration
	prefix string
}

func New(client *redis.Client, logger ectologger.Logger, ttl time.Duration) *Locker {
	return &Locker{client: client, logger: logger, ttl: ttl, prefix: "magnolia:mergelock:"}
}

// Handle releases an acquired lock.
type Handle struct {
	locker *Locker
	key    string
	token  string
}

// Acquire attempts to take the lock for key, returning ErrNotAcquired if
// another holder already has it. If the Redis client is nil, Acquire returns
// a no-op handle; if Redis is unreachable, it logs a warning and returns a
// no-op handle. Either way the caller can proceed without the guard.
func (l *Locker) Acquire(ctx context.Context, key string, token string) (*Handle, error) {
	ctx, span := tracing.StartSpan(ctx, "lock.Locker.Acquire")
	defer span.End()

	if l == nil || l.client == nil {
		return &Handle{}, nil
	}

	fullKey := l.prefix + key
	ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
	if err != nil {
		l.logger.WithContext(ctx).WithError(err).Warn("merge lock unavailable, proceeding without it")
		return &Handle{}, nil
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return &Handle{locker: l, key: fullKey, token: token}, nil
}

// Release removes the lock if it still belongs to this handle's token.
func (h *Handle) Release(ctx context.Context) {
	if h == nil || h.locker == nil || h.locker.client == nil {
		return
	}

	const script = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`

	if err := h.locker.client.Eval(ctx, script, []string{h.key}, h.token).Err(); err != nil {
		h.locker.logger.WithContext(ctx).WithError(err).Warn("failed to release merge lock")
	}
}

// PairKey builds the lock key for a pair of record IDs, independent of
// argument order.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
