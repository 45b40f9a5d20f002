package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"duomate/internal/storage"
)

// Signal is one change-feed message. Keys lists the changed collections;
// a refresh signal carries no keys and tells clients to re-read
// everything, which is the poll-interval fallback when a pub/sub message
// is missed.
type Signal struct {
	Event string   `json:"event"`
	Keys  []string `json:"keys,omitempty"`
	At    string   `json:"at"`
}

// Subscriber is the change-signal source, satisfied by the Redis store.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan []storage.Key
}

// Watcher bridges committed mutations to websocket clients: immediate
// change signals from the store's pub/sub channel, plus a periodic
// refresh tick so every mutation is visible within one poll interval.
type Watcher struct {
	source       Subscriber
	hub          *Hub
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewWatcher creates a Watcher broadcasting into hub.
func NewWatcher(source Subscriber, hub *Hub, pollInterval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{source: source, hub: hub, pollInterval: pollInterval, logger: logger}
}

// Run consumes change signals until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	changes := w.source.Subscribe(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case keys, ok := <-changes:
			if !ok {
				return
			}
			names := make([]string, len(keys))
			for i, k := range keys {
				names[i] = string(k)
			}
			w.broadcast(Signal{Event: "change", Keys: names})
		case <-ticker.C:
			w.broadcast(Signal{Event: "refresh"})
		}
	}
}

func (w *Watcher) broadcast(sig Signal) {
	sig.At = time.Now().Format(time.RFC3339)
	payload, err := json.Marshal(sig)
	if err != nil {
		w.logger.Error("sync signal marshal failed", "err", err)
		return
	}
	w.hub.Broadcast(payload)
}
