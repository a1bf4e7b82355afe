package session

import (
	"context"
	"time"

	"github.com/minnan-games/fjmahjong/mahjong"
)

// Timer expiry handlers. Each carries the PhaseSeq observed when the
// timer was armed; a fire against a session that has moved on is a
// silent no-op, so duplicate or late fires can never double-apply.

// OnCallTimeout auto-passes every seat that has not responded and
// resolves the calling phase.
func (m *Machine) OnCallTimeout(ctx context.Context, id string, phaseSeq int64) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		if s.Phase != PhaseCalling || s.PhaseSeq != phaseSeq || s.Pending == nil {
			return errNoChange
		}
		s.fillPasses()
		s.resolveCalls()
		return nil
	})
}

// OnTurnTimeout plays the seat's turn for it: draw if still owed one,
// win if the hand wins, otherwise discard the least valuable tile while
// keeping pairs and run material intact.
func (m *Machine) OnTurnTimeout(ctx context.Context, id string, phaseSeq int64) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		if s.Phase != PhasePlaying || s.PhaseSeq != phaseSeq {
			return errNoChange
		}
		seat := s.Current
		if !s.TurnDrawn {
			if err := s.draw(seat); err != nil {
				return err
			}
			if s.Phase != PhasePlaying {
				return nil
			}
		}
		hand := s.Hands[seat]
		if mahjong.DefaultHuCore.ThreeGoldsWin(hand.Concealed, s.GoldType) ||
			mahjong.CanWinSelfDraw(hand, s.GoldType) {
			return s.selfWin(seat)
		}
		tile := mahjong.SuggestDiscard(hand, s.GoldType, s.DiscardPile)
		return s.discard(seat, tile, m.conf)
	})
}

// Tick fires whichever deadline has lapsed. The service layer polls this
// from its table loop; the PhaseSeq read here makes a concurrent player
// action win the race cleanly.
func (m *Machine) Tick(ctx context.Context, id string) (*Session, error) {
	s, err := m.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	switch s.Phase {
	case PhaseCalling:
		if s.Pending != nil && now.After(s.Pending.Deadline) {
			return m.OnCallTimeout(ctx, id, s.PhaseSeq)
		}
	case PhasePlaying:
		if !s.TurnDeadline.IsZero() && now.After(s.TurnDeadline) {
			return m.OnTurnTimeout(ctx, id, s.PhaseSeq)
		}
	}
	return s, nil
}
