package game

import (
	"strconv"
	"sync"
	"time"

	pitaya "github.com/topfreegames/pitaya/v3/pkg"
)

// TableManager owns every live table and the shared one-second ticker
// that drives session timers and bot play.
type TableManager struct {
	mu     sync.RWMutex
	tables map[string]*Table
	app    pitaya.Pitaya
	deps   Deps
	ticker *time.Ticker
}

func NewTableManager(app pitaya.Pitaya, deps Deps) *TableManager {
	t := &TableManager{
		tables: make(map[string]*Table),
		app:    app,
		deps:   deps,
		ticker: time.NewTicker(time.Second),
	}
	go func() {
		for range t.ticker.C {
			t.tick()
		}
	}()

	return t
}

func (t *TableManager) tick() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, table := range t.tables {
		table.tick()
	}
}

func (t *TableManager) Get(matchID, tableID int32) *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tables[getTableKey(matchID, tableID)]
}

func (t *TableManager) LoadOrStore(matchID, tableID int32) *Table {
	key := getTableKey(matchID, tableID)

	t.mu.Lock()
	defer t.mu.Unlock()

	if table, ok := t.tables[key]; ok {
		return table
	}
	table := NewTable(matchID, tableID, t.app, t.deps)
	t.tables[key] = table
	return table
}

func (t *TableManager) Delete(matchID, tableID int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tables, getTableKey(matchID, tableID))
}

func getTableKey(matchID, tableID int32) string {
	return strconv.FormatInt(int64(matchID), 10) + ":" + strconv.FormatInt(int64(tableID), 10)
}
