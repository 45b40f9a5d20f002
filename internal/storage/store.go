package storage

import (
	"context"
	"errors"
)

// Key names a persisted collection in the shared namespace. The key set
// and the JSON shape stored under each key are the external interface of
// the system and match the original browser storage layout.
type Key string

const (
	KeyRides        Key = "rides"
	KeyMyRides      Key = "myRides"
	KeyRideRequests Key = "rideRequests"
	KeyMyBookings   Key = "myBookings"
	KeyOrders       Key = "orders"
	KeyMyOrders     Key = "myOrders"
	KeyMyDeliveries Key = "myDeliveries"
	KeyUserCoins    Key = "userCoins"
	KeyCoinHistory  Key = "coinHistory"
)

var (
	// ErrCorruptCollection is returned when a stored value cannot be
	// decoded. Unreadable state is surfaced instead of being silently
	// treated as an empty collection.
	ErrCorruptCollection = errors.New("corrupt collection data")

	// ErrNamespaceBusy is returned when the namespace mutation lock
	// cannot be acquired.
	ErrNamespaceBusy = errors.New("namespace mutation in progress")
)

// Store is the persistence contract for the shared key space. A missing
// key reads as an empty collection (or zero balance); Commit applies a
// batch so that either every key in it is written or none are, then
// signals the changed keys to sync subscribers.
type Store interface {
	// ReadList decodes the JSON array stored under key into dst.
	ReadList(ctx context.Context, key Key, dst any) error

	// ReadInt reads an integer-valued key such as userCoins.
	ReadInt(ctx context.Context, key Key) (int, error)

	// Commit atomically applies every set and delete in the batch.
	Commit(ctx context.Context, batch *Batch) error
}

// Locker serializes multi-key read-modify-write cycles over the
// namespace. Every ledger mutation runs under this lock; it is what makes
// the single-writer assumption explicit.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Batch collects the full set of key writes belonging to one logical
// mutation. Values are marshalled at commit time.
type Batch struct {
	sets map[Key]any
	dels map[Key]struct{}
	keys []Key
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{
		sets: make(map[Key]any),
		dels: make(map[Key]struct{}),
	}
}

// Set stages a value write for key.
func (b *Batch) Set(key Key, value any) *Batch {
	if _, seen := b.sets[key]; !seen {
		if _, seen := b.dels[key]; !seen {
			b.keys = append(b.keys, key)
		}
	}
	delete(b.dels, key)
	b.sets[key] = value
	return b
}

// Del stages a key removal.
func (b *Batch) Del(key Key) *Batch {
	if _, seen := b.sets[key]; !seen {
		if _, seen := b.dels[key]; !seen {
			b.keys = append(b.keys, key)
		}
	}
	delete(b.sets, key)
	b.dels[key] = struct{}{}
	return b
}

// Keys returns the changed keys in staging order.
func (b *Batch) Keys() []Key {
	return b.keys
}

// Empty reports whether the batch stages no writes.
func (b *Batch) Empty() bool {
	return len(b.keys) == 0
}

// Value returns the staged value for key, if any.
func (b *Batch) Value(key Key) (any, bool) {
	v, ok := b.sets[key]
	return v, ok
}

// Deleted reports whether key is staged for removal.
func (b *Batch) Deleted(key Key) bool {
	_, ok := b.dels[key]
	return ok
}
