package store

import (
	"context"
	"sync"
)

type memoryRecord struct {
	data    []byte
	version int64
}

// Memory is the in-process Store used by tests and single-node deploys.
type Memory struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	subs    map[string]map[int]chan Event
	nextSub int
	closed  bool
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]memoryRecord),
		subs:    make(map[string]map[int]chan Event),
	}
}

func (m *Memory) Read(ctx context.Context, id string) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, 0, ErrClosed
	}
	rec, ok := m.records[id]
	if !ok {
		return nil, 0, ErrNotFound
	}
	out := make([]byte, len(rec.data))
	copy(out, rec.data)
	return out, rec.version, nil
}

func (m *Memory) Write(ctx context.Context, id string, data []byte, expected int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, ErrClosed
	}
	rec, ok := m.records[id]
	current := int64(VersionNew)
	if ok {
		current = rec.version
	}
	if current != expected {
		m.mu.Unlock()
		return 0, ErrConflict
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	newVersion := current + 1
	m.records[id] = memoryRecord{data: stored, version: newVersion}

	ev := Event{ID: id, Data: stored, Version: newVersion}
	for _, ch := range m.subs[id] {
		select {
		case ch <- ev:
		default: // slow consumer, it will reconcile via Read
		}
	}
	m.mu.Unlock()
	return newVersion, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.records, id)
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, id string) (<-chan Event, func(), error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, nil, ErrClosed
	}
	ch := make(chan Event, 16)
	if m.subs[id] == nil {
		m.subs[id] = make(map[int]chan Event)
	}
	key := m.nextSub
	m.nextSub++
	m.subs[id][key] = ch
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			if set, ok := m.subs[id]; ok {
				delete(set, key)
				if len(set) == 0 {
					delete(m.subs, id)
				}
			}
			close(ch)
			m.mu.Unlock()
		})
	}
	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}
	return ch, cancel, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
