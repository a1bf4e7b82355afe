// Package bot plays a seat from its redacted session view. Decisions are
// pure functions over the view plus a difficulty profile; the agent never
// sees another seat's concealed tiles.
package bot

import (
	"context"
	"errors"

	"github.com/minnan-games/fjmahjong/mahjong"
	"github.com/minnan-games/fjmahjong/session"
	"github.com/sirupsen/logrus"
)

// Profile tunes how eagerly the bot trades concealed-hand value (the
// self-draw double) for calls.
type Profile struct {
	Name string
	// CallShanten is the estimated distance at or below which a call that
	// improves the hand is worth forfeiting self-draw eligibility.
	CallShanten int
	// DangerLimit is the table danger at which the bot calls anyway to
	// race an opponent who looks close.
	DangerLimit int
}

var (
	Easy   = Profile{Name: "easy", CallShanten: 0, DangerLimit: 99}
	Normal = Profile{Name: "normal", CallShanten: 1, DangerLimit: 4}
	Hard   = Profile{Name: "hard", CallShanten: 2, DangerLimit: 3}
)

type Agent struct {
	seat    int32
	profile Profile
	log     *logrus.Entry
}

func New(seat int32, profile Profile) *Agent {
	return &Agent{
		seat:    seat,
		profile: profile,
		log:     logrus.WithFields(logrus.Fields{"component": "bot", "seat": seat}),
	}
}

// ownHand rebuilds the agent's hand from its view.
func ownHand(v *session.View) *mahjong.Hand {
	own := v.Seats[v.Seat]
	return &mahjong.Hand{
		Concealed: own.Concealed,
		Melds:     own.Melds,
		Bonus:     own.Bonus,
	}
}

// Danger estimates how threatening the table is: exposed melds mean
// committed hands, a short wall means everyone races the last draws.
func Danger(v *session.View) int {
	danger := 0
	for _, sv := range v.Seats {
		if sv.Seat == v.Seat {
			continue
		}
		danger += len(sv.Melds)
	}
	switch {
	case v.WallCount < 16:
		danger += 2
	case v.WallCount < 32:
		danger++
	}
	return danger
}

// Respond picks the calling-phase answer. Win is unconditional; melds
// are taken only when they actually shorten the hand and either the hand
// is close or the table is dangerous.
func Respond(v *session.View, profile Profile) session.CallResponse {
	pass := session.CallResponse{Operate: mahjong.OperatePass}
	if v.Offers == nil || v.Offers.Empty() {
		return pass
	}
	if v.Offers.HasOperate(mahjong.OperateHu) {
		return session.CallResponse{Operate: mahjong.OperateHu}
	}

	hand := ownHand(v)
	before := mahjong.ShantenEstimate(hand, v.GoldType)
	urgent := before <= profile.CallShanten || Danger(v) >= profile.DangerLimit

	if v.Offers.HasOperate(mahjong.OperateKong) && urgent {
		return session.CallResponse{Operate: mahjong.OperateKong}
	}
	if v.Offers.HasOperate(mahjong.OperatePung) && urgent {
		if meldImproves(hand, v, func(h *mahjong.Hand) bool {
			_, ok := h.Pung(v.CallTile, 0, v.GoldType)
			return ok
		}, before) {
			return session.CallResponse{Operate: mahjong.OperatePung}
		}
	}
	if v.Offers.HasOperate(mahjong.OperateChow) && urgent {
		for i := range v.Chows {
			chosen := v.Chows[i]
			if meldImproves(hand, v, func(h *mahjong.Hand) bool {
				_, ok := h.Chow(v.CallTile, chosen.Tiles, 0, v.GoldType)
				return ok
			}, before) {
				return session.CallResponse{Operate: mahjong.OperateChow, Chow: &chosen}
			}
		}
	}
	return pass
}

// meldImproves simulates the call on a copy and compares estimates.
func meldImproves(hand *mahjong.Hand, v *session.View, apply func(*mahjong.Hand) bool, before int) bool {
	clone := &mahjong.Hand{
		Concealed: append([]mahjong.Tile(nil), hand.Concealed...),
		Melds:     append([]mahjong.Meld(nil), hand.Melds...),
		Bonus:     hand.Bonus,
	}
	if !apply(clone) {
		return false
	}
	return mahjong.ShantenEstimate(clone, v.GoldType) < before
}

// ChooseDiscard picks the least valuable tile, preferring types already
// dead in the pile and never a Gold while an alternative exists.
func ChooseDiscard(v *session.View) mahjong.Tile {
	return mahjong.SuggestDiscard(ownHand(v), v.GoldType, v.DiscardPile)
}

// kongTarget finds a self-kong worth playing; any four-of-a-kind is
// free value since the replacement draw keeps the hand size.
func kongTarget(v *session.View) mahjong.Tile {
	hand := ownHand(v)
	if types := mahjong.ConcealedKongTiles(hand, v.GoldType); len(types) > 0 {
		return types[0]
	}
	if types := mahjong.UpgradeKongTiles(hand, v.GoldType); len(types) > 0 {
		return types[0]
	}
	return mahjong.TileNull
}

// Act performs one step for the agent's seat against the machine. A
// rejection of its heuristic choice downgrades to pass and never
// crashes the session.
func (a *Agent) Act(ctx context.Context, m *session.Machine, v *session.View) error {
	switch v.Phase {
	case session.PhaseCalling:
		if v.Offers == nil {
			return nil // responded already, or we are the discarder
		}
		resp := Respond(v, a.profile)
		if _, err := m.RespondToCall(ctx, v.ID, a.seat, resp); err != nil {
			if !errors.Is(err, session.ErrInvalidMove) {
				return err
			}
			a.log.WithError(err).Debug("call rejected, passing")
			if _, err := m.RespondToCall(ctx, v.ID, a.seat, session.CallResponse{Operate: mahjong.OperatePass}); err != nil && !errors.Is(err, session.ErrInvalidMove) {
				return err
			}
		}
		return nil

	case session.PhasePlaying:
		if v.Current != a.seat {
			return nil
		}
		if v.Offers == nil {
			_, err := m.Draw(ctx, v.ID, a.seat)
			return err
		}
		if v.Offers.HasOperate(mahjong.OperateHu) {
			if _, err := m.DeclareWin(ctx, v.ID, a.seat); err == nil || !errors.Is(err, session.ErrInvalidMove) {
				return err
			}
		}
		if v.Offers.HasOperate(mahjong.OperateKong) {
			if target := kongTarget(v); target != mahjong.TileNull {
				if _, err := m.DeclareKong(ctx, v.ID, a.seat, target); err == nil || !errors.Is(err, session.ErrInvalidMove) {
					return err
				}
			}
		}
		_, err := m.Discard(ctx, v.ID, a.seat, ChooseDiscard(v))
		return err
	}
	return nil
}
