package match

import "context"

const (
	StateOnline int32 = iota
	StateOffline
	StateExited
)

// Player is one signed-up user in a match.
type Player struct {
	Ctx     context.Context
	ID      string
	State   int32
	MatchId int32
	TableId int32
	Score   int64
}

func NewPlayer(ctx context.Context, id string, matchId int32, score int64) *Player {
	return &Player{
		Ctx:     ctx,
		ID:      id,
		State:   StateOnline,
		MatchId: matchId,
		Score:   score,
	}
}

// SetState flips the online flag, reporting whether it changed.
func (p *Player) SetState(online bool) bool {
	state := StateOnline
	if !online {
		state = StateOffline
	}
	if p.State == state {
		return false
	}
	p.State = state
	return true
}
