// Package session holds the per-round game aggregate and its state
// machine. A Session is mutated only through Machine operations, which
// run inside the store's optimistic transaction; everything in this file
// is the pure state side.
package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/minnan-games/fjmahjong/mahjong"
)

type Phase string

const (
	PhaseWaiting       Phase = "waiting"
	PhaseDealing       Phase = "dealing"
	PhaseBonusExposure Phase = "bonus_exposure"
	PhasePlaying       Phase = "playing"
	PhaseCalling       Phase = "calling"
	PhaseEnded         Phase = "ended"
)

type EndReason string

const (
	EndNone          EndReason = ""
	EndSelfDraw      EndReason = "self_draw"
	EndDiscardWin    EndReason = "discard_win"
	EndWallExhausted EndReason = "wall_exhausted"
	EndAborted       EndReason = "aborted"
)

// CallResponse is one seat's committed answer during the calling phase.
// The discarder's slot holds the sentinel, never a real response.
type CallResponse struct {
	Operate   int32               `json:"operate"`
	Chow      *mahjong.ChowOption `json:"chow,omitempty"`
	Discarder bool                `json:"discarder,omitempty"`
}

// PendingCalls is the fan-in state for one discard.
type PendingCalls struct {
	Discarder int32                `json:"discarder"`
	Tile      mahjong.Tile         `json:"tile"`
	Offers    []*mahjong.Operates  `json:"offers"`
	Chows     []mahjong.ChowOption `json:"chows,omitempty"`
	Responses []*CallResponse      `json:"responses"`
	Deadline  time.Time            `json:"deadline"`
}

func (p *PendingCalls) complete() bool {
	for _, r := range p.Responses {
		if r == nil {
			return false
		}
	}
	return true
}

type Winner struct {
	Seat      int32                   `json:"seat"`
	Tile      mahjong.Tile            `json:"tile"`
	Flags     mahjong.ScoreFlags      `json:"flags"`
	Breakdown *mahjong.ScoreBreakdown `json:"breakdown"`
}

// Session is the single shared aggregate for one round.
type Session struct {
	ID           string                        `json:"id"`
	Phase        Phase                         `json:"phase"`
	PhaseSeq     int64                         `json:"phase_seq"`
	Started      bool                          `json:"started"`
	Wall         []mahjong.Tile                `json:"wall"`
	DeadWall     []mahjong.Tile                `json:"dead_wall"`
	DiscardPile  []mahjong.Tile                `json:"discard_pile"`
	Dealer       int32                         `json:"dealer"`
	Current      int32                         `json:"current"`
	DealerStreak int32                         `json:"dealer_streak"`
	GoldType     mahjong.Tile                  `json:"gold_type"`
	ExposedGold  mahjong.Tile                  `json:"exposed_gold"`
	WinningTile  mahjong.Tile                  `json:"winning_tile"`
	Hands        [mahjong.NumSeats]*mahjong.Hand `json:"hands"`
	TurnDrawn    bool                          `json:"turn_drawn"`
	TurnDeadline time.Time                     `json:"turn_deadline"`
	Pending      *PendingCalls                 `json:"pending,omitempty"`
	History      []mahjong.Action              `json:"history"`
	Winners      []Winner                      `json:"winners,omitempty"`
	Net          []int64                       `json:"net,omitempty"`
	EndReason    EndReason                     `json:"end_reason,omitempty"`
}

func NewSession(id string, dealer, dealerStreak int32) *Session {
	s := &Session{
		ID:           id,
		Phase:        PhaseWaiting,
		Dealer:       dealer,
		Current:      dealer,
		DealerStreak: dealerStreak,
		GoldType:     mahjong.TileNull,
		ExposedGold:  mahjong.TileNull,
		WinningTile:  mahjong.TileNull,
		History:      make([]mahjong.Action, 0),
		Net:          make([]int64, mahjong.NumSeats),
	}
	for i := range s.Hands {
		s.Hands[i] = mahjong.NewHand()
	}
	return s
}

func (s *Session) popWall() mahjong.Tile {
	if len(s.Wall) == 0 {
		return mahjong.TileNull
	}
	t := s.Wall[len(s.Wall)-1]
	s.Wall = s.Wall[:len(s.Wall)-1]
	return t
}

// startRound shuffles, deals, exposes bonus tiles and flips the Gold.
// All of it is engine-driven, so the session lands in playing with the
// dealer holding 17 tiles.
func (s *Session) startRound(rng *rand.Rand, conf Config, manual *mahjong.Manual) error {
	if s.Phase != PhaseWaiting {
		return invalidMove("round already started in phase %s", s.Phase)
	}
	s.Phase = PhaseDealing
	s.Started = true

	deck := mahjong.BuildDeck()
	mahjong.ShuffleDeck(deck, rng)
	scriptedGold := mahjong.TileNull
	if manual != nil && manual.Enabled() {
		if scripted, err := manual.Load(rng); err == nil {
			deck = scripted
			scriptedGold = manual.GoldType()
		}
	}
	s.DeadWall = deck[:conf.DeadWallSize]
	s.Wall = deck[conf.DeadWallSize:]

	for step := int32(0); step < mahjong.NumSeats; step++ {
		seat := mahjong.GetNextSeat(s.Dealer, step)
		for range mahjong.TileCountInitNormal {
			s.Hands[seat].Put(s.popWall())
		}
	}
	s.Hands[s.Dealer].Put(s.popWall())

	s.Phase = PhaseBonusExposure
	for step := int32(0); step < mahjong.NumSeats; step++ {
		seat := mahjong.GetNextSeat(s.Dealer, step)
		hand := s.Hands[seat]
		for hand.HasBonusInHand() {
			n := hand.ExposeBonus()
			for range n {
				tile := s.popWall()
				if tile == mahjong.TileNull {
					s.endRound(EndWallExhausted)
					return nil
				}
				hand.Put(tile)
			}
		}
	}

	// flip for the Gold; bonus tiles go to the pile and the flip repeats
	for {
		tile := s.popWall()
		if tile == mahjong.TileNull {
			s.endRound(EndWallExhausted)
			return nil
		}
		if tile.IsBonus() {
			s.DiscardPile = append(s.DiscardPile, tile)
			continue
		}
		s.ExposedGold = tile
		s.GoldType = tile.Type()
		break
	}
	if scriptedGold != mahjong.TileNull {
		s.GoldType = scriptedGold.Type()
	}

	s.Phase = PhasePlaying
	s.Current = s.Dealer
	s.TurnDrawn = true // the dealer starts with the extra tile
	s.PhaseSeq++
	return nil
}

func (s *Session) requireTurn(seat int32, drawn bool) error {
	if s.Phase != PhasePlaying {
		return invalidMove("phase is %s", s.Phase)
	}
	if seat != s.Current {
		return invalidMove("seat %d acting out of turn (current %d)", seat, s.Current)
	}
	if s.TurnDrawn != drawn {
		if drawn {
			return invalidMove("seat %d must draw first", seat)
		}
		return invalidMove("seat %d already drew this turn", seat)
	}
	return nil
}

// draw pops the next wall tile for the acting seat. An empty wall is the
// draw-game terminal state, not an error.
func (s *Session) draw(seat int32) error {
	if err := s.requireTurn(seat, false); err != nil {
		return err
	}
	tile := s.popWall()
	if tile == mahjong.TileNull {
		s.endRound(EndWallExhausted)
		return nil
	}
	s.Hands[seat].Put(tile)
	s.TurnDrawn = true
	s.addHistory(seat, seat, mahjong.OperateDraw, tile)
	s.PhaseSeq++
	return nil
}

func (s *Session) discard(seat int32, tile mahjong.Tile, conf Config) error {
	if err := s.requireTurn(seat, true); err != nil {
		return err
	}
	hand := s.Hands[seat]
	if !hand.Contains(tile) {
		// clients may send a bare type; pick a held instance of it
		found := mahjong.TileNull
		for _, t := range hand.Concealed {
			if t.SameType(tile) {
				found = t
				break
			}
		}
		if found == mahjong.TileNull {
			return invalidMove("seat %d does not hold %s", seat, tile.Name())
		}
		tile = found
	}
	hand.Discard(tile)
	s.DiscardPile = append(s.DiscardPile, tile)
	s.addHistory(seat, seat, mahjong.OperateDiscard, tile)

	if len(s.Wall) <= conf.ReserveTail || !s.openCalling(seat, tile, conf) {
		s.advanceTurn(mahjong.GetNextSeat(seat, 1))
	}
	return nil
}

// advanceTurn hands play to seat, who has not drawn yet.
func (s *Session) advanceTurn(seat int32) {
	s.Phase = PhasePlaying
	s.Pending = nil
	s.Current = seat
	s.TurnDrawn = false
	s.PhaseSeq++
}

func (s *Session) selfWin(seat int32) error {
	if err := s.requireTurn(seat, true); err != nil {
		return err
	}
	hand := s.Hands[seat]
	threeGolds := mahjong.DefaultHuCore.ThreeGoldsWin(hand.Concealed, s.GoldType)
	if !threeGolds && !mahjong.CanWinSelfDraw(hand, s.GoldType) {
		return invalidMove("seat %d hand does not win", seat)
	}
	flags := mahjong.ScoreFlags{
		SelfDraw:   true,
		ThreeGolds: threeGolds,
		GoldenPair: mahjong.HasGoldPairWin(hand, s.GoldType, mahjong.TileNull),
	}
	s.recordWinner(seat, mahjong.TileNull, flags)
	s.addHistory(seat, seat, mahjong.OperateHu, mahjong.TileNull)
	s.endRound(EndSelfDraw)
	return nil
}

// declareKong plays a concealed kong or a pung upgrade, then draws the
// replacement tile.
func (s *Session) declareKong(seat int32, tileType mahjong.Tile) error {
	if err := s.requireTurn(seat, true); err != nil {
		return err
	}
	if len(s.Wall) == 0 {
		return invalidMove("no replacement tile left for a kong")
	}
	hand := s.Hands[seat]
	meld, ok := hand.ConcealedKong(tileType, seat, s.GoldType)
	if !ok {
		meld, ok = hand.UpgradePungToKong(tileType, s.GoldType)
	}
	if !ok {
		return invalidMove("seat %d cannot kong %s", seat, tileType.Name())
	}
	s.addHistory(seat, meld.From, mahjong.OperateKong, tileType)

	replacement := s.popWall()
	if replacement == mahjong.TileNull {
		s.endRound(EndWallExhausted)
		return nil
	}
	hand.Put(replacement)
	s.addHistory(seat, seat, mahjong.OperateDraw, replacement)
	s.PhaseSeq++
	return nil
}

func (s *Session) abort() {
	if s.Phase == PhaseEnded {
		return
	}
	s.endRound(EndAborted)
}

func (s *Session) endRound(reason EndReason) {
	s.Phase = PhaseEnded
	s.EndReason = reason
	s.Pending = nil
	s.PhaseSeq++
}

func (s *Session) recordWinner(seat int32, tile mahjong.Tile, flags mahjong.ScoreFlags) {
	streak := int32(0)
	if seat == s.Dealer {
		streak = s.DealerStreak
	}
	breakdown := mahjong.Score(s.Hands[seat], s.GoldType, streak, flags)
	s.Winners = append(s.Winners, Winner{Seat: seat, Tile: tile, Flags: flags, Breakdown: breakdown})
	mahjong.AccumulateSettlement(s.Net, mahjong.Settle(seat, breakdown.Total))
}

func (s *Session) addHistory(seat, from, operate int32, tile mahjong.Tile) {
	s.History = append(s.History, mahjong.Action{
		Seat:    seat,
		From:    from,
		Operate: operate,
		Tile:    tile,
		Extra:   mahjong.TileNull,
		Name:    mahjong.OperateNames[operate],
	})
}

// CheckConservation verifies the 128-tile multiset across wall, dead
// wall, pile, the flipped Gold, a claimed winning tile and all hands.
func (s *Session) CheckConservation() error {
	if !s.Started {
		return nil
	}
	all := make([]mahjong.Tile, 0, mahjong.DeckSize)
	all = append(all, s.Wall...)
	all = append(all, s.DeadWall...)
	all = append(all, s.DiscardPile...)
	if s.ExposedGold != mahjong.TileNull {
		all = append(all, s.ExposedGold)
	}
	if s.WinningTile != mahjong.TileNull {
		all = append(all, s.WinningTile)
	}
	for _, h := range s.Hands {
		all = append(all, h.AllTiles()...)
	}
	if len(all) != mahjong.DeckSize {
		return fmt.Errorf("%w: %d tiles in play", ErrInvariant, len(all))
	}
	seen := make(map[mahjong.Tile]bool, len(all))
	for _, t := range all {
		if seen[t] {
			return fmt.Errorf("%w: duplicate tile %s#%d", ErrInvariant, t.Name(), t.Instance())
		}
		seen[t] = true
	}
	for tileType, n := range mahjong.TypeCounts(all) {
		if n != mahjong.SameTileCount {
			return fmt.Errorf("%w: %d copies of %s", ErrInvariant, n, tileType.Name())
		}
	}
	return nil
}
