package session

import (
	"time"

	"github.com/minnan-games/fjmahjong/mahjong"
)

// openCalling computes every seat's legal responses to the discard and,
// when any seat can act, opens the fan-in. Returns false when nobody can
// call so the turn advances directly.
func (s *Session) openCalling(discarder int32, tile mahjong.Tile, conf Config) bool {
	next := mahjong.GetNextSeat(discarder, 1)
	offers := make([]*mahjong.Operates, mahjong.NumSeats)
	responses := make([]*CallResponse, mahjong.NumSeats)
	responses[discarder] = &CallResponse{Discarder: true}

	var chows []mahjong.ChowOption
	anyone := false
	for seat := int32(0); seat < mahjong.NumSeats; seat++ {
		if seat == discarder {
			continue
		}
		opt := mahjong.WaitOperates(s.Hands[seat], tile, s.GoldType, seat, next)
		offers[seat] = opt
		if !opt.Empty() {
			anyone = true
		}
		if seat == next && opt.HasOperate(mahjong.OperateChow) {
			chows = mahjong.ChowOptions(s.Hands[seat], tile, s.GoldType)
		}
	}
	if !anyone {
		return false
	}

	s.Pending = &PendingCalls{
		Discarder: discarder,
		Tile:      tile,
		Offers:    offers,
		Chows:     chows,
		Responses: responses,
		Deadline:  time.Now().Add(conf.CallTimeout),
	}
	s.Phase = PhaseCalling
	s.PhaseSeq++
	return true
}

// respond commits one seat's call response. Exactly one commit per seat
// per calling phase; re-submission and off-menu responses are rejected
// without mutation.
func (s *Session) respond(seat int32, resp CallResponse) error {
	if s.Phase != PhaseCalling || s.Pending == nil {
		return invalidMove("no calling phase open")
	}
	p := s.Pending
	if seat == p.Discarder {
		return invalidMove("discarder cannot respond to its own discard")
	}
	if seat < 0 || seat >= mahjong.NumSeats {
		return invalidMove("bad seat %d", seat)
	}
	if p.Responses[seat] != nil {
		return invalidMove("seat %d already responded", seat)
	}
	if resp.Operate != mahjong.OperatePass && !p.Offers[seat].HasOperate(resp.Operate) {
		return invalidMove("seat %d was not offered %s", seat, mahjong.OperateNames[resp.Operate])
	}
	if resp.Operate == mahjong.OperateChow {
		if resp.Chow == nil || !chowOffered(p.Chows, *resp.Chow) {
			return invalidMove("seat %d chose an unoffered chow placement", seat)
		}
	}
	committed := resp
	p.Responses[seat] = &committed
	s.PhaseSeq++
	if p.complete() {
		s.resolveCalls()
	}
	return nil
}

// fillPasses auto-passes every seat that has not responded. Used by the
// calling-phase timer.
func (s *Session) fillPasses() {
	for seat := range s.Pending.Responses {
		if s.Pending.Responses[seat] == nil {
			s.Pending.Responses[seat] = &CallResponse{Operate: mahjong.OperatePass}
		}
	}
}

// resolveCalls applies the priority order: win beats kong/pung beats
// chow; kong/pung ties go to the first seat after the discarder.
func (s *Session) resolveCalls() {
	p := s.Pending
	discarder := p.Discarder

	winners := make([]int32, 0, 3)
	for step := int32(1); step < mahjong.NumSeats; step++ {
		seat := mahjong.GetNextSeat(discarder, step)
		if r := p.Responses[seat]; r != nil && r.Operate == mahjong.OperateHu {
			winners = append(winners, seat)
		}
	}
	if len(winners) > 0 {
		// every winning caller is paid independently by the table
		s.WinningTile = s.claimDiscard()
		for _, seat := range winners {
			completed := append(append([]mahjong.Tile(nil), s.Hands[seat].Concealed...), p.Tile)
			flags := mahjong.ScoreFlags{
				ThreeGolds:  mahjong.DefaultHuCore.ThreeGoldsWin(completed, s.GoldType),
				RobbingGold: p.Tile.IsGold(s.GoldType),
				GoldenPair:  mahjong.HasGoldPairWin(s.Hands[seat], s.GoldType, p.Tile),
			}
			s.recordWinnerOnDiscard(seat, p.Tile, flags)
			s.addHistory(seat, discarder, mahjong.OperateHu, p.Tile)
		}
		s.endRound(EndDiscardWin)
		return
	}

	for step := int32(1); step < mahjong.NumSeats; step++ {
		seat := mahjong.GetNextSeat(discarder, step)
		r := p.Responses[seat]
		if r == nil {
			continue
		}
		switch r.Operate {
		case mahjong.OperateKong:
			s.executeCallKong(seat)
			return
		case mahjong.OperatePung:
			s.executeCallPung(seat)
			return
		}
	}

	next := mahjong.GetNextSeat(discarder, 1)
	if r := p.Responses[next]; r != nil && r.Operate == mahjong.OperateChow {
		s.executeCallChow(next, *r.Chow)
		return
	}

	s.advanceTurn(next)
}

func (s *Session) claimDiscard() mahjong.Tile {
	tile := s.DiscardPile[len(s.DiscardPile)-1]
	s.DiscardPile = s.DiscardPile[:len(s.DiscardPile)-1]
	return tile
}

func (s *Session) executeCallPung(seat int32) {
	p := s.Pending
	tile := s.claimDiscard()
	if _, ok := s.Hands[seat].Pung(tile, p.Discarder, s.GoldType); !ok {
		// offer validation makes this unreachable; put the tile back
		s.DiscardPile = append(s.DiscardPile, tile)
		s.advanceTurn(mahjong.GetNextSeat(p.Discarder, 1))
		return
	}
	s.addHistory(seat, p.Discarder, mahjong.OperatePung, tile)
	s.Pending = nil
	s.Phase = PhasePlaying
	s.Current = seat
	s.TurnDrawn = true // the claimed tile completes the 17th
	s.PhaseSeq++
}

func (s *Session) executeCallKong(seat int32) {
	p := s.Pending
	tile := s.claimDiscard()
	if _, ok := s.Hands[seat].ExposedKong(tile, p.Discarder, s.GoldType); !ok {
		s.DiscardPile = append(s.DiscardPile, tile)
		s.advanceTurn(mahjong.GetNextSeat(p.Discarder, 1))
		return
	}
	s.addHistory(seat, p.Discarder, mahjong.OperateKong, tile)
	s.Pending = nil
	s.Phase = PhasePlaying
	s.Current = seat

	replacement := s.popWall()
	if replacement == mahjong.TileNull {
		s.endRound(EndWallExhausted)
		return
	}
	s.Hands[seat].Put(replacement)
	s.addHistory(seat, seat, mahjong.OperateDraw, replacement)
	s.TurnDrawn = true
	s.PhaseSeq++
}

func (s *Session) executeCallChow(seat int32, chosen mahjong.ChowOption) {
	p := s.Pending
	tile := s.claimDiscard()
	if _, ok := s.Hands[seat].Chow(tile, chosen.Tiles, p.Discarder, s.GoldType); !ok {
		s.DiscardPile = append(s.DiscardPile, tile)
		s.advanceTurn(mahjong.GetNextSeat(p.Discarder, 1))
		return
	}
	s.addHistory(seat, p.Discarder, mahjong.OperateChow, tile)
	s.Pending = nil
	s.Phase = PhasePlaying
	s.Current = seat
	s.TurnDrawn = true
	s.PhaseSeq++
}

// recordWinnerOnDiscard scores the hand as completed by the claimed tile.
func (s *Session) recordWinnerOnDiscard(seat int32, tile mahjong.Tile, flags mahjong.ScoreFlags) {
	hand := s.Hands[seat]
	completed := &mahjong.Hand{
		Concealed: append(append([]mahjong.Tile(nil), hand.Concealed...), tile),
		Melds:     hand.Melds,
		Bonus:     hand.Bonus,
	}
	streak := int32(0)
	if seat == s.Dealer {
		streak = s.DealerStreak
	}
	breakdown := mahjong.Score(completed, s.GoldType, streak, flags)
	s.Winners = append(s.Winners, Winner{Seat: seat, Tile: tile, Flags: flags, Breakdown: breakdown})
	mahjong.AccumulateSettlement(s.Net, mahjong.Settle(seat, breakdown.Total))
}

func chowOffered(options []mahjong.ChowOption, chosen mahjong.ChowOption) bool {
	for _, o := range options {
		if o.Tiles[0].SameType(chosen.Tiles[0]) && o.Tiles[1].SameType(chosen.Tiles[1]) {
			return true
		}
	}
	return false
}
