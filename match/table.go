package match

import (
	"errors"

	"github.com/minnan-games/fjmahjong/game"
)

// Table is the lobby-side seating list. Once it starts, the game layer
// owns the room and this table only maps players back to it.
type Table struct {
	Match *Match
	ID    int32
	seats []*Player
}

func NewTable(m *Match) *Table {
	id := m.nextTableID()
	if id == 0 {
		return nil
	}
	return &Table{
		Match: m,
		ID:    id,
		seats: make([]*Player, m.Conf.PlayerPerTable),
	}
}

// AddPlayer takes the first free seat.
func (t *Table) AddPlayer(player *Player) (int32, error) {
	for seat, p := range t.seats {
		if p == nil {
			t.seats[seat] = player
			player.TableId = t.ID
			return int32(seat), nil
		}
	}
	return 0, errors.New("table is full")
}

func (t *Table) RemovePlayer(player *Player) {
	for seat, p := range t.seats {
		if p != nil && p.ID == player.ID {
			t.seats[seat] = nil
			player.TableId = 0
			return
		}
	}
}

func (t *Table) IsOnTable(player *Player) bool {
	for _, p := range t.seats {
		if p != nil && p.ID == player.ID {
			return true
		}
	}
	return false
}

func (t *Table) IsFull() bool {
	return int(t.PlayerCount()) == len(t.seats)
}

func (t *Table) PlayerCount() int32 {
	n := int32(0)
	for _, p := range t.seats {
		if p != nil {
			n++
		}
	}
	return n
}

// Start books a room with the game layer and tells every seated client
// to attach. Seats still empty are filled with bots by the room.
func (t *Table) Start() error {
	conf := t.Match.Conf
	gt := game.GetTableManager().LoadOrStore(conf.Matchid, t.ID)
	gt.AddTable(game.TableConfig{
		ScoreBase:   conf.ScoreBase,
		GameCount:   conf.GameCount,
		PlayerCount: conf.PlayerPerTable,
		Property:    conf.Property,
	})

	for seat, p := range t.seats {
		if p == nil {
			continue
		}
		if err := gt.AddPlayer(p.ID, int32(seat), conf.InitialChips); err != nil {
			return err
		}
	}
	for _, p := range t.seats {
		if p == nil {
			continue
		}
		t.Match.PushMsg(p, AckStartClient, &StartClientAck{
			MatchType: t.Match.App.GetServer().Type,
			GameType:  conf.GameType,
			ServerID:  t.Match.App.GetServerID(),
			MatchID:   conf.Matchid,
			TableID:   t.ID,
		})
	}
	return nil
}
