package bot

import (
	"context"
	"testing"

	"github.com/minnan-games/fjmahjong/mahjong"
	"github.com/minnan-games/fjmahjong/session"
	"github.com/minnan-games/fjmahjong/store"
)

func dots(p int) mahjong.Tile   { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
func bamboo(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorBamboo, p-1) }
func char(p int) mahjong.Tile   { return mahjong.MakeTile(mahjong.ColorCharacter, p-1) }

func callView(seat int32, concealed []mahjong.Tile, callTile mahjong.Tile, offers *mahjong.Operates) *session.View {
	v := &session.View{
		ID:       "v",
		Seat:     seat,
		Phase:    session.PhaseCalling,
		GoldType: dots(5).Type(),
		CallTile: callTile,
		Seats:    make([]session.SeatView, mahjong.NumSeats),
	}
	for i := int32(0); i < mahjong.NumSeats; i++ {
		v.Seats[i] = session.SeatView{Seat: i}
	}
	v.Seats[seat].Concealed = concealed
	v.Offers = offers
	return v
}

func Test_RespondAlwaysTakesWin(t *testing.T) {
	v := callView(2, []mahjong.Tile{char(1)}, dots(1), mahjong.NewOperates(mahjong.OperateHu, mahjong.OperatePung))
	got := Respond(v, Easy)
	if got.Operate != mahjong.OperateHu {
		t.Fatalf("win must always be taken, got %d", got.Operate)
	}
}

func Test_RespondPungWeighsDanger(t *testing.T) {
	concealed := []mahjong.Tile{
		mahjong.MakeTileInstance(mahjong.ColorBamboo, 0, 0),
		mahjong.MakeTileInstance(mahjong.ColorBamboo, 0, 1),
		bamboo(2), bamboo(3), char(9),
	}
	callTile := mahjong.MakeTileInstance(mahjong.ColorBamboo, 0, 2)

	v := callView(2, concealed, callTile, mahjong.NewOperates(mahjong.OperatePung))
	// a quiet table: a cautious profile keeps the hand concealed
	v.WallCount = 60
	if got := Respond(v, Easy); got.Operate != mahjong.OperatePass {
		t.Fatalf("easy bot should pass on a quiet table, got %d", got.Operate)
	}

	// three exposed melds across the table and a short wall
	meld := mahjong.Meld{Kind: mahjong.MeldPung, Tiles: []mahjong.Tile{char(5), char(5), char(5)}}
	v.Seats[0].Melds = []mahjong.Meld{meld, meld}
	v.Seats[1].Melds = []mahjong.Meld{meld}
	v.WallCount = 10
	if got := Respond(v, Hard); got.Operate != mahjong.OperatePung {
		t.Fatalf("hard bot should race a dangerous table, got %d", got.Operate)
	}
}

func Test_CautiousBotKeepsChowConcealed(t *testing.T) {
	// a viable chow on a quiet table: melding forfeits the self-draw
	// double, so the cautious profile holds back
	concealed := []mahjong.Tile{bamboo(2), bamboo(3), bamboo(6), bamboo(7), char(9), char(9)}
	v := callView(1, concealed, bamboo(1), mahjong.NewOperates(mahjong.OperateChow))
	v.Chows = []mahjong.ChowOption{{Tiles: [2]mahjong.Tile{bamboo(2), bamboo(3)}}}
	v.WallCount = 60

	if got := Respond(v, Easy); got.Operate != mahjong.OperatePass {
		t.Fatalf("easy bot should keep the hand concealed, got %d", got.Operate)
	}

	// the same hand on a dangerous table: racing beats patience
	meld := mahjong.Meld{Kind: mahjong.MeldPung, Tiles: []mahjong.Tile{char(5), char(5), char(5)}}
	v.Seats[2].Melds = []mahjong.Meld{meld, meld}
	v.Seats[3].Melds = []mahjong.Meld{meld}
	v.WallCount = 10
	if got := Respond(v, Hard); got.Operate != mahjong.OperateChow || got.Chow == nil {
		t.Fatalf("hard bot should race a dangerous table, got %d", got.Operate)
	}
}

func Test_ChooseDiscardNeverGold(t *testing.T) {
	gold := dots(5)
	v := callView(0, []mahjong.Tile{gold, dots(1), dots(1), char(3)}, mahjong.TileNull, nil)
	v.Phase = session.PhasePlaying
	got := ChooseDiscard(v)
	if got.IsGold(gold) {
		t.Fatal("the bot must not throw the Gold away")
	}
	if got.SameType(dots(1)) {
		t.Fatal("the bot must protect its pair")
	}
}

func Test_ActFallsBackOnRejection(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	defer mem.Close()
	conf := session.DefaultConfig()
	m := session.NewMachine(mem, conf)

	s, err := m.Create(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = m.Start(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	// acting on a stale waiting-for-us view while it is not our turn
	agent := New(2, Normal)
	stale, err := m.Load(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	v := stale.View(2)
	if err := agent.Act(ctx, m, v); err != nil {
		t.Fatalf("the agent must degrade gracefully, got %v", err)
	}
}

func Test_BotsFinishARound(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	defer mem.Close()
	m := session.NewMachine(mem, session.DefaultConfig())

	s, err := m.Create(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	id := s.ID
	if _, err = m.Start(ctx, id); err != nil {
		t.Fatal(err)
	}

	agents := make([]*Agent, mahjong.NumSeats)
	for i := range agents {
		agents[i] = New(int32(i), Hard)
	}

	for i := 0; i < 2000; i++ {
		s, err = m.Load(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if s.Phase == session.PhaseEnded {
			break
		}
		for seat := int32(0); seat < mahjong.NumSeats; seat++ {
			if err := agents[seat].Act(ctx, m, s.View(seat)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if s.Phase != session.PhaseEnded {
		t.Fatal("four bots could not finish a round")
	}
	if err := s.CheckConservation(); err != nil {
		t.Fatal(err)
	}
}
