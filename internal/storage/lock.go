package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	namespaceLockKey = "lock:namespace"
	namespaceLockTTL = 5 * time.Second

	lockRetryInterval = 25 * time.Millisecond
	lockWaitLimit     = 2 * time.Second
)

// NamespaceLock serializes ledger mutations over the shared key space.
// Each logical mutation is a multi-key read-modify-write cycle; holding
// the lock for its duration keeps concurrent API calls from interleaving
// between the read and the commit.
type NamespaceLock struct {
	client *redis.Client
}

var _ Locker = (*NamespaceLock)(nil)

// NewNamespaceLock creates a Redis-backed namespace lock.
func NewNamespaceLock(client *redis.Client) *NamespaceLock {
	return &NamespaceLock{client: client}
}

// Acquire takes the namespace lock, retrying briefly before giving up
// with ErrNamespaceBusy. The returned release function is safe to call
// once the mutation has committed or failed.
func (l *NamespaceLock) Acquire(ctx context.Context) (func(), error) {
	deadline := time.Now().Add(lockWaitLimit)
	for {
		ok, err := l.client.SetNX(ctx, namespaceLockKey, "1", namespaceLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				_ = l.client.Del(context.WithoutCancel(ctx), namespaceLockKey).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrNamespaceBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
