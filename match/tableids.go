package match

import (
	"errors"
	"sync"
)

const maxTableID = 1 << 20

// TableIDs hands out table numbers and recycles them when tables close.
type TableIDs struct {
	mu   sync.Mutex
	free []int32
	next int32
}

func NewTableIDs() *TableIDs {
	return &TableIDs{next: 1}
}

func (t *TableIDs) Take() (int32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		return id, nil
	}
	if t.next >= maxTableID {
		return 0, errors.New("table ids exhausted")
	}
	id := t.next
	t.next++
	return id, nil
}

func (t *TableIDs) PutBack(id int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.free = append(t.free, id)
}
