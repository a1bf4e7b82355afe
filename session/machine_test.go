package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/minnan-games/fjmahjong/mahjong"
	"github.com/minnan-games/fjmahjong/store"
)

func seedFixture(t *testing.T, mem *store.Memory, s *Session) {
	t.Helper()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mem.Write(context.Background(), s.ID, data, store.VersionNew); err != nil {
		t.Fatal(err)
	}
}

func Test_StartRound(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	defer mem.Close()
	m := NewMachine(mem, DefaultConfig())

	s, err := m.Create(ctx, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseWaiting {
		t.Fatalf("fresh session phase = %s", s.Phase)
	}

	s, err = m.Start(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhasePlaying || s.Current != 0 || !s.TurnDrawn {
		t.Fatalf("start should leave the dealer to act: %+v", s.Phase)
	}
	if !s.GoldType.IsSuit() {
		t.Fatalf("gold type must be a suit tile, got %s", s.GoldType.Name())
	}
	if !s.ExposedGold.SameType(s.GoldType) {
		t.Fatalf("exposed gold %s does not fix gold type %s", s.ExposedGold.Name(), s.GoldType.Name())
	}
	for seat := int32(0); seat < mahjong.NumSeats; seat++ {
		hand := s.Hands[seat]
		want := mahjong.TileCountInitNormal
		if seat == s.Dealer {
			want = mahjong.TileCountInitDealer
		}
		if len(hand.Concealed) != want {
			t.Errorf("seat %d holds %d tiles, want %d", seat, len(hand.Concealed), want)
		}
		if hand.HasBonusInHand() {
			t.Errorf("seat %d still holds bonus tiles after exposure", seat)
		}
	}
	if err := s.CheckConservation(); err != nil {
		t.Fatal(err)
	}

	// a second start is rejected without mutation
	if _, err := m.Start(ctx, s.ID); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("double start: %v", err)
	}
}

func Test_StaleCallTimerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	defer mem.Close()
	conf := DefaultConfig()
	m := NewMachine(mem, conf)

	s := fixture(dots(5), [mahjong.NumSeats][]mahjong.Tile{
		0: {dots(1), char(7)},
		1: {bamboo(9)},
		2: {dots(1), dots(1)},
		3: {char(2)},
	})
	mustNoErr(t, s.discard(0, dots(1), conf))
	if s.Phase != PhaseCalling {
		t.Fatal("fixture should open calling")
	}
	armedSeq := s.PhaseSeq
	seedFixture(t, mem, s)

	out, err := m.OnCallTimeout(ctx, s.ID, armedSeq)
	mustNoErr(t, err)
	if out.Phase != PhasePlaying || out.Current != 1 || out.Pending != nil {
		t.Fatalf("timeout should auto-pass and advance: %s current=%d", out.Phase, out.Current)
	}
	resolvedSeq := out.PhaseSeq

	// the same timer firing again must be a silent no-op
	out2, err := m.OnCallTimeout(ctx, s.ID, armedSeq)
	mustNoErr(t, err)
	if out2.PhaseSeq != resolvedSeq || out2.Phase != PhasePlaying || out2.Current != 1 {
		t.Fatalf("stale timer mutated state: %+v", out2.Phase)
	}
	if len(out2.Hands[2].Melds) != 0 {
		t.Fatal("auto-pass must not execute the pung")
	}
}

func Test_TurnTimeoutAutoPlays(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	defer mem.Close()
	conf := DefaultConfig()
	m := NewMachine(mem, conf)

	s := fixture(dots(5), [mahjong.NumSeats][]mahjong.Tile{
		0: {dots(1), dots(1), char(7)},
		1: {bamboo(9)},
		2: {char(3)},
		3: {char(2)},
	})
	seedFixture(t, mem, s)

	out, err := m.OnTurnTimeout(ctx, s.ID, s.PhaseSeq)
	mustNoErr(t, err)
	if len(out.DiscardPile) != 1 {
		t.Fatalf("auto-play should discard exactly one tile, pile=%v", out.DiscardPile)
	}
	if out.DiscardPile[0].SameType(dots(1)) {
		t.Fatal("auto-discard must protect the pair")
	}
	if err := out.CheckConservation(); err != nil {
		t.Fatal(err)
	}
}

func Test_ConservationBreachAbortsRound(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	defer mem.Close()
	conf := DefaultConfig()
	m := NewMachine(mem, conf)

	s := fixture(dots(5), [mahjong.NumSeats][]mahjong.Tile{
		0: {dots(1), char(7)},
		1: {bamboo(9)},
		2: {char(3)},
		3: {char(2)},
	})
	s.Wall = s.Wall[:len(s.Wall)-1] // lose a tile
	seedFixture(t, mem, s)

	out, err := m.Discard(ctx, s.ID, 0, dots(1))
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected the invariant failure, got %v", err)
	}
	if out == nil || out.Phase != PhaseEnded || out.EndReason != EndAborted {
		t.Fatal("a conservation breach must abort the round")
	}
}

// Test_AutoPlayedRound drives a whole round with nothing but timer
// expiries; whatever happens, the invariants must hold at the end.
func Test_AutoPlayedRound(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	defer mem.Close()
	m := NewMachine(mem, DefaultConfig())

	s, err := m.Create(ctx, 1, 0)
	mustNoErr(t, err)
	id := s.ID
	s, err = m.Start(ctx, id)
	mustNoErr(t, err)

	for i := 0; i < 1000 && s.Phase != PhaseEnded; i++ {
		switch s.Phase {
		case PhasePlaying:
			s, err = m.OnTurnTimeout(ctx, id, s.PhaseSeq)
		case PhaseCalling:
			s, err = m.OnCallTimeout(ctx, id, s.PhaseSeq)
		default:
			t.Fatalf("unexpected phase %s", s.Phase)
		}
		mustNoErr(t, err)
	}
	if s.Phase != PhaseEnded {
		t.Fatal("auto-play did not terminate")
	}
	if s.EndReason != EndWallExhausted && s.EndReason != EndSelfDraw {
		t.Fatalf("unexpected end reason %s", s.EndReason)
	}
	if err := s.CheckConservation(); err != nil {
		t.Fatal(err)
	}
	var sum int64
	for _, v := range s.Net {
		sum += v
	}
	if sum != 0 {
		t.Fatalf("settlement must be zero-sum: %v", s.Net)
	}
}
