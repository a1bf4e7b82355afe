package game

import (
	"context"
	"errors"
)

const (
	PlayerStatusUnEnter = iota
	PlayerStatusEnter
	PlayerStatusReady
	PlayerStatusPlaying
)

// Player is one human seat at a table. Bot seats never get a Player;
// the table drives them directly.
type Player struct {
	id     string
	Seat   int32
	Status int
	score  int64
	online bool
}

func NewPlayer(id string) *Player {
	return &Player{
		id:     id,
		Status: PlayerStatusUnEnter,
		online: true,
	}
}

func (p *Player) ID() string {
	return p.id
}

func (p *Player) SetSeat(seatNum int32) {
	p.Seat = seatNum
}

func (p *Player) AddScore(delta int64) {
	p.score += delta
}

func (p *Player) GetScore() int64 {
	return p.score
}

// HandleMessage routes one client request to the player's table.
func (p *Player) HandleMessage(ctx context.Context, req *Request) error {
	table := tableManager.Get(req.MatchID, req.TableID)
	if table == nil {
		return errors.New("table not found")
	}
	return table.OnPlayerMsg(ctx, p, req)
}
