package game

import (
	"testing"

	"github.com/minnan-games/fjmahjong/bot"
	"github.com/minnan-games/fjmahjong/session"
)

func Test_RotateDealer(t *testing.T) {
	tbl := NewTable(1, 1, nil, Deps{})
	tbl.AddTable(TableConfig{PlayerCount: 4, GameCount: 4, ScoreBase: 1})

	s := &session.Session{Dealer: 0, DealerStreak: 2}
	s.Winners = []session.Winner{{Seat: 0}}
	tbl.rotateDealer(s)
	if tbl.dealer != 0 || tbl.dealerStreak != 3 {
		t.Fatalf("a winning dealer keeps the deal, got dealer %d streak %d", tbl.dealer, tbl.dealerStreak)
	}

	s = &session.Session{Dealer: 0, DealerStreak: 3}
	s.Winners = []session.Winner{{Seat: 2}}
	tbl.rotateDealer(s)
	if tbl.dealer != 1 || tbl.dealerStreak != 0 {
		t.Fatalf("the deal must pass on a loss, got dealer %d streak %d", tbl.dealer, tbl.dealerStreak)
	}

	// a drawn wall also passes the deal
	s = &session.Session{Dealer: 3, DealerStreak: 1, EndReason: session.EndWallExhausted}
	tbl.rotateDealer(s)
	if tbl.dealer != 0 || tbl.dealerStreak != 0 {
		t.Fatalf("got dealer %d streak %d after a drawn wall", tbl.dealer, tbl.dealerStreak)
	}
}

func Test_FillBotsCoversEmptySeats(t *testing.T) {
	tbl := NewTable(1, 2, nil, Deps{})
	tbl.AddTable(TableConfig{PlayerCount: 4, Property: "hard"})
	tbl.players["u1"] = &Player{id: "u1", Seat: 1}

	tbl.fillBots()
	if len(tbl.bots) != 3 {
		t.Fatalf("expected 3 bots, got %d", len(tbl.bots))
	}
	if tbl.bots[1] != nil {
		t.Fatal("the human seat must stay human")
	}
	for _, seat := range []int32{0, 2, 3} {
		if tbl.bots[seat] == nil {
			t.Fatalf("seat %d not covered", seat)
		}
	}

	// filling again must not replace existing agents
	before := tbl.bots[0]
	tbl.fillBots()
	if tbl.bots[0] != before {
		t.Fatal("refill must keep the existing agent")
	}
}

func Test_BotProfileFromProperty(t *testing.T) {
	cases := []struct {
		property string
		want     bot.Profile
	}{
		{"easy", bot.Easy},
		{"hard", bot.Hard},
		{"normal", bot.Normal},
		{"", bot.Normal},
		{"anything", bot.Normal},
	}
	for _, c := range cases {
		if got := botProfile(c.property); got.Name != c.want.Name {
			t.Fatalf("property %q: got profile %s, want %s", c.property, got.Name, c.want.Name)
		}
	}
}
