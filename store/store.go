// Package store persists session state behind an optimistic-concurrency
// interface. Every record carries a monotonically increasing version; a
// write names the version it read, and a mismatch fails with ErrConflict
// so the caller can reload and retry.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("store: session not found")
	ErrConflict = errors.New("store: version conflict")
	ErrClosed   = errors.New("store: closed")
)

// VersionNew is the expected version when creating a record.
const VersionNew int64 = 0

// Event is delivered to subscribers after a successful write.
type Event struct {
	ID      string
	Data    []byte
	Version int64
}

type Store interface {
	// Read returns the current data and version for id.
	Read(ctx context.Context, id string) ([]byte, int64, error)

	// Write replaces the record if its version still equals expected.
	// Passing VersionNew creates the record; it fails with ErrConflict
	// when the record already exists. Returns the new version.
	Write(ctx context.Context, id string, data []byte, expected int64) (int64, error)

	// Delete removes the record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Subscribe streams write events for id until cancel is called or
	// the context ends. Events may be dropped under load; consumers
	// reconcile with Read.
	Subscribe(ctx context.Context, id string) (<-chan Event, func(), error)

	Close() error
}

const defaultTransactAttempts = 8

// Transact runs fn under read-modify-write with bounded retry on
// ErrConflict. fn gets the current data (nil when absent) and returns the
// replacement; returning nil data leaves the record untouched.
func Transact(ctx context.Context, s Store, id string, fn func(data []byte) ([]byte, error)) ([]byte, int64, error) {
	var lastErr error
	for attempt := 0; attempt < defaultTransactAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		data, version, err := s.Read(ctx, id)
		if errors.Is(err, ErrNotFound) {
			data, version = nil, VersionNew
		} else if err != nil {
			return nil, 0, err
		}

		next, err := fn(data)
		if err != nil {
			return nil, 0, err
		}
		if next == nil {
			return data, version, nil
		}

		newVersion, err := s.Write(ctx, id, next, version)
		if err == nil {
			return next, newVersion, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, 0, err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 5 * time.Millisecond):
		}
	}
	return nil, 0, lastErr
}
