package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ChangeChannel is the pub/sub channel carrying change signals for the
// shared namespace. Each message is a JSON array of changed key names.
const ChangeChannel = "duomate:changes"

// RedisStore persists the key space in Redis: one JSON array per
// collection key and an integer string for the coin balance, mirroring
// the original storage layout byte for byte.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

// ReadList decodes the JSON array stored under key into dst. A missing
// key decodes as an empty collection; an undecodable value surfaces
// ErrCorruptCollection rather than silently losing data.
func (s *RedisStore) ReadList(ctx context.Context, key Key, dst any) error {
	data, err := s.client.Get(ctx, string(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return json.Unmarshal([]byte("[]"), dst)
		}
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Error("unreadable collection", "key", key, "err", err)
		return fmt.Errorf("%w: %s", ErrCorruptCollection, key)
	}
	return nil
}

// ReadInt reads an integer-valued key. Missing keys read as zero.
func (s *RedisStore) ReadInt(ctx context.Context, key Key) (int, error) {
	val, err := s.client.Get(ctx, string(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		s.logger.Error("unreadable counter", "key", key, "err", err)
		return 0, fmt.Errorf("%w: %s", ErrCorruptCollection, key)
	}
	return n, nil
}

// Commit writes every key in the batch inside one MULTI/EXEC block, then
// publishes the changed key names so watchers refresh immediately instead
// of waiting for the next poll tick.
func (s *RedisStore) Commit(ctx context.Context, batch *Batch) error {
	if batch.Empty() {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, key := range batch.Keys() {
		if batch.Deleted(key) {
			pipe.Del(ctx, string(key))
			continue
		}
		value, _ := batch.Value(key)
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		pipe.Set(ctx, string(key), data, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	s.publishChange(ctx, batch.Keys())
	return nil
}

// publishChange signals the changed keys. Failure to publish is logged,
// not returned: the poll ticker still delivers the mutation within one
// interval.
func (s *RedisStore) publishChange(ctx context.Context, keys []Key) {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	payload, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := s.client.Publish(ctx, ChangeChannel, payload).Err(); err != nil {
		s.logger.Warn("change publish failed", "keys", names, "err", err)
	}
}

// Subscribe returns a channel of change signals, each a set of changed
// keys, until ctx is done.
func (s *RedisStore) Subscribe(ctx context.Context) <-chan []Key {
	out := make(chan []Key, 16)
	sub := s.client.Subscribe(ctx, ChangeChannel)

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var names []string
				if err := json.Unmarshal([]byte(msg.Payload), &names); err != nil {
					s.logger.Warn("malformed change signal", "payload", msg.Payload)
					continue
				}
				keys := make([]Key, len(names))
				for i, n := range names {
					keys[i] = Key(n)
				}
				select {
				case out <- keys:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
