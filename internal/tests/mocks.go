package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"duomate/internal/storage"
)

// NewTestLogger returns a logger that discards all output.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ──────────────────────────────────────────────
// MOCK STORE
// ──────────────────────────────────────────────

// MockStore is an in-memory implementation of storage.Store. Values are
// kept as JSON so reads decode exactly what a commit wrote.
type MockStore struct {
	mu   sync.RWMutex
	data map[storage.Key][]byte

	// Counters for verification
	CommitCallCount int32

	// Error injection
	ReadError   error
	CommitError error
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[storage.Key][]byte),
	}
}

// Seed stores a value under key, bypassing Commit.
func (m *MockStore) Seed(key storage.Key, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("seed %s: %v", key, err))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
}

// Get decodes the stored value under key into dst. It reports whether
// the key exists.
func (m *MockStore) Get(key storage.Key, dst any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		panic(fmt.Sprintf("get %s: %v", key, err))
	}
	return true
}

// Has reports whether key is present.
func (m *MockStore) Has(key storage.Key) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

func (m *MockStore) ReadList(ctx context.Context, key storage.Key, dst any) error {
	if m.ReadError != nil {
		return m.ReadError
	}
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		raw = []byte("[]")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: key %s: %v", storage.ErrCorruptCollection, key, err)
	}
	return nil
}

func (m *MockStore) ReadInt(ctx context.Context, key storage.Key) (int, error) {
	if m.ReadError != nil {
		return 0, m.ReadError
	}
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%w: key %s: %v", storage.ErrCorruptCollection, key, err)
	}
	return n, nil
}

func (m *MockStore) Commit(ctx context.Context, batch *storage.Batch) error {
	atomic.AddInt32(&m.CommitCallCount, 1)
	if m.CommitError != nil {
		return m.CommitError
	}
	if batch.Empty() {
		return nil
	}
	// Marshal everything first so a bad value leaves the store untouched.
	staged := make(map[storage.Key][]byte)
	for _, key := range batch.Keys() {
		if batch.Deleted(key) {
			continue
		}
		value, _ := batch.Value(key)
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal key %s: %w", key, err)
		}
		staged[key] = raw
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range batch.Keys() {
		if batch.Deleted(key) {
			delete(m.data, key)
			continue
		}
		m.data[key] = staged[key]
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCKER
// ──────────────────────────────────────────────

// MockLocker is a no-op implementation of storage.Locker with busy
// injection for contention tests.
type MockLocker struct {
	AcquireCallCount int32
	ReleaseCallCount int32

	// Busy makes Acquire fail with storage.ErrNamespaceBusy.
	Busy bool
}

// NewMockLocker creates a mock locker.
func NewMockLocker() *MockLocker {
	return &MockLocker{}
}

func (m *MockLocker) Acquire(ctx context.Context) (func(), error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.Busy {
		return nil, storage.ErrNamespaceBusy
	}
	return func() {
		atomic.AddInt32(&m.ReleaseCallCount, 1)
	}, nil
}
