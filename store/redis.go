package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	fieldData    = "data"
	fieldVersion = "ver"
)

// Redis keeps each session in a hash and guards writes with WATCH, so a
// concurrent writer fails the transaction instead of clobbering state.
// Write events fan out over pub/sub.
type Redis struct {
	cli    *redis.Client
	prefix string
}

func NewRedis(cli *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "fjmahjong"
	}
	return &Redis{cli: cli, prefix: prefix}
}

func (r *Redis) key(id string) string     { return fmt.Sprintf("%s:session:%s", r.prefix, id) }
func (r *Redis) channel(id string) string { return fmt.Sprintf("%s:events:%s", r.prefix, id) }

func (r *Redis) Read(ctx context.Context, id string) ([]byte, int64, error) {
	vals, err := r.cli.HMGet(ctx, r.key(id), fieldData, fieldVersion).Result()
	if err != nil {
		return nil, 0, err
	}
	if vals[0] == nil || vals[1] == nil {
		return nil, 0, ErrNotFound
	}
	data, ok := vals[0].(string)
	if !ok {
		return nil, 0, fmt.Errorf("store: malformed record for %s", id)
	}
	var version int64
	if _, err := fmt.Sscanf(vals[1].(string), "%d", &version); err != nil {
		return nil, 0, fmt.Errorf("store: malformed version for %s: %w", id, err)
	}
	return []byte(data), version, nil
}

func (r *Redis) Write(ctx context.Context, id string, data []byte, expected int64) (int64, error) {
	key := r.key(id)
	var newVersion int64

	err := r.cli.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, fieldVersion).Int64()
		if errors.Is(err, redis.Nil) {
			current = VersionNew
		} else if err != nil {
			return err
		}
		if current != expected {
			return ErrConflict
		}
		newVersion = current + 1

		payload, err := json.Marshal(Event{ID: id, Data: data, Version: newVersion})
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldData, data, fieldVersion, newVersion)
			pipe.Publish(ctx, r.channel(id), payload)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.cli.Del(ctx, r.key(id)).Err()
}

func (r *Redis) Subscribe(ctx context.Context, id string) (<-chan Event, func(), error) {
	ps := r.cli.Subscribe(ctx, r.channel(id))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan Event, 16)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}

	go func() {
		defer close(out)
		src := ps.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				cancel()
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()
	return out, cancel, nil
}

func (r *Redis) Close() error {
	return r.cli.Close()
}
