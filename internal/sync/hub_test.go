package sync

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"duomate/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	a := NewClient("a", nil)
	b := NewClient("b", nil)
	hub.Add(a)
	hub.Add(b)

	hub.Broadcast([]byte("hello"))

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if string(msg) != "hello" {
				t.Errorf("client %s got %q", c.ID, msg)
			}
		default:
			t.Errorf("client %s received nothing", c.ID)
		}
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	slow := NewClient("slow", nil)
	hub.Add(slow)

	// Fill the send queue, then broadcast once more.
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- []byte("fill")
	}
	hub.Broadcast([]byte("overflow"))

	hub.mu.RLock()
	_, present := hub.clients["slow"]
	hub.mu.RUnlock()
	if present {
		t.Error("expected slow client removed from the hub")
	}
}

func TestHub_RemoveClosesSendQueue(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	c := NewClient("c", nil)
	hub.Add(c)
	hub.Remove("c")

	if _, open := <-c.send; open {
		t.Error("expected send queue closed on removal")
	}

	// Removing an unknown ID is a no-op.
	hub.Remove("ghost")
}

type stubSubscriber struct {
	ch chan []storage.Key
}

func (s *stubSubscriber) Subscribe(ctx context.Context) <-chan []storage.Key {
	return s.ch
}

func TestWatcher_ChangeSignalCarriesKeys(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	client := NewClient("c", nil)
	hub.Add(client)

	source := &stubSubscriber{ch: make(chan []storage.Key, 1)}
	watcher := NewWatcher(source, hub, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	source.ch <- []storage.Key{storage.KeyRides, storage.KeyMyRides}

	select {
	case raw := <-client.send:
		var sig Signal
		if err := json.Unmarshal(raw, &sig); err != nil {
			t.Fatalf("bad signal payload: %v", err)
		}
		if sig.Event != "change" {
			t.Errorf("expected change event, got %q", sig.Event)
		}
		if len(sig.Keys) != 2 || sig.Keys[0] != "rides" || sig.Keys[1] != "myRides" {
			t.Errorf("unexpected keys %v", sig.Keys)
		}
		if sig.At == "" {
			t.Error("expected timestamp set")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no signal received")
	}
}

func TestWatcher_PollFallbackEmitsRefresh(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	client := NewClient("c", nil)
	hub.Add(client)

	source := &stubSubscriber{ch: make(chan []storage.Key)}
	watcher := NewWatcher(source, hub, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	select {
	case raw := <-client.send:
		var sig Signal
		if err := json.Unmarshal(raw, &sig); err != nil {
			t.Fatalf("bad signal payload: %v", err)
		}
		if sig.Event != "refresh" {
			t.Errorf("expected refresh event, got %q", sig.Event)
		}
		if len(sig.Keys) != 0 {
			t.Errorf("expected no keys on refresh, got %v", sig.Keys)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh tick received")
	}
}
