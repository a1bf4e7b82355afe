package match

import (
	"context"
	"sync"
)

// Playermgr is the roster of one match. Signup creation lives here so a
// double sign-in races on one mutex instead of a load-then-store.
type Playermgr struct {
	mu      sync.RWMutex
	players map[string]*Player
}

func NewPlayermgr() *Playermgr {
	return &Playermgr{
		players: make(map[string]*Player),
	}
}

func (p *Playermgr) Load(userID string) *Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.players[userID]
}

// LoadOrCreate returns the signed-up player, adding a fresh roster entry
// with the match buy-in on first contact.
func (p *Playermgr) LoadOrCreate(ctx context.Context, userID string, matchId int32, chips int64) *Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	if player, ok := p.players[userID]; ok {
		return player
	}
	player := NewPlayer(ctx, userID, matchId, chips)
	p.players[userID] = player
	return player
}

func (p *Playermgr) Delete(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.players, userID)
}

func (p *Playermgr) playerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.players)
}
