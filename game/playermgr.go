package game

import (
	"errors"
	"sync"
)

// PlayerManager tracks every seated human on this server.
type PlayerManager struct {
	mu      sync.RWMutex
	players map[string]*Player
}

func NewPlayerManager() *PlayerManager {
	return &PlayerManager{
		players: make(map[string]*Player),
	}
}

func (m *PlayerManager) Get(userID string) *Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.players[userID]
}

// Store registers a new player; a player already seated elsewhere must
// leave that table first.
func (m *PlayerManager) Store(userID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[userID]; ok {
		return nil, errors.New("player already on a table")
	}
	player := NewPlayer(userID)
	m.players[userID] = player
	return player, nil
}

func (m *PlayerManager) Delete(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, userID)
}
