package storage

import "testing"

func TestBatch_KeysInStagingOrder(t *testing.T) {
	t.Parallel()

	batch := NewBatch().
		Set(KeyRides, "a").
		Set(KeyMyRides, "b").
		Del(KeyRideRequests)

	keys := batch.Keys()
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}
	want := []Key{KeyRides, KeyMyRides, KeyRideRequests}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key %d = %s, want %s", i, keys[i], k)
		}
	}
}

func TestBatch_LastWriteWinsPerKey(t *testing.T) {
	t.Parallel()

	batch := NewBatch().
		Set(KeyUserCoins, 10).
		Set(KeyUserCoins, 20)

	if got := len(batch.Keys()); got != 1 {
		t.Fatalf("expected 1 key after restaging, got %d", got)
	}
	v, ok := batch.Value(KeyUserCoins)
	if !ok || v.(int) != 20 {
		t.Errorf("expected latest value 20, got %v", v)
	}
}

func TestBatch_SetOverridesDelete(t *testing.T) {
	t.Parallel()

	batch := NewBatch().
		Del(KeyOrders).
		Set(KeyOrders, "replacement")

	if batch.Deleted(KeyOrders) {
		t.Error("expected set to clear a staged delete")
	}
	if _, ok := batch.Value(KeyOrders); !ok {
		t.Error("expected staged value present")
	}
	if got := len(batch.Keys()); got != 1 {
		t.Errorf("expected key staged once, got %d", got)
	}
}

func TestBatch_DeleteOverridesSet(t *testing.T) {
	t.Parallel()

	batch := NewBatch().
		Set(KeyOrders, "x").
		Del(KeyOrders)

	if !batch.Deleted(KeyOrders) {
		t.Error("expected delete to win over a staged set")
	}
	if _, ok := batch.Value(KeyOrders); ok {
		t.Error("expected staged value gone")
	}
}

func TestBatch_Empty(t *testing.T) {
	t.Parallel()

	if !NewBatch().Empty() {
		t.Error("expected a fresh batch to be empty")
	}
	if NewBatch().Set(KeyRides, nil).Empty() {
		t.Error("expected a staged batch to be non-empty")
	}
}
