package session

import (
	"time"

	"github.com/minnan-games/fjmahjong/mahjong"
)

// SeatView is one seat as another player may see it. Concealed tiles are
// only present on the viewer's own seat.
type SeatView struct {
	Seat           int32          `json:"seat"`
	Concealed      []mahjong.Tile `json:"concealed,omitempty"`
	ConcealedCount int            `json:"concealed_count"`
	Melds          []mahjong.Meld `json:"melds"`
	Bonus          []mahjong.Tile `json:"bonus"`
}

// View is the redacted projection the service layer sends to one seat.
type View struct {
	ID          string               `json:"id"`
	Seat        int32                `json:"seat"`
	Phase       Phase                `json:"phase"`
	PhaseSeq    int64                `json:"phase_seq"`
	Dealer      int32                `json:"dealer"`
	Current     int32                `json:"current"`
	GoldType    mahjong.Tile         `json:"gold_type"`
	ExposedGold mahjong.Tile         `json:"exposed_gold"`
	WallCount   int                  `json:"wall_count"`
	DiscardPile []mahjong.Tile       `json:"discard_pile"`
	Seats       []SeatView           `json:"seats"`
	CallTile    mahjong.Tile         `json:"call_tile"`
	Offers      *mahjong.Operates    `json:"offers,omitempty"`
	Chows       []mahjong.ChowOption `json:"chows,omitempty"`
	Deadline    time.Time            `json:"deadline,omitempty"`
	History     []mahjong.Action     `json:"history"`
	Winners     []Winner             `json:"winners,omitempty"`
	Net         []int64              `json:"net,omitempty"`
	EndReason   EndReason            `json:"end_reason,omitempty"`
}

// View builds the projection for one seat. Another seat's concealed
// tiles are never serialized into it.
func (s *Session) View(seat int32) *View {
	v := &View{
		ID:          s.ID,
		Seat:        seat,
		Phase:       s.Phase,
		PhaseSeq:    s.PhaseSeq,
		Dealer:      s.Dealer,
		Current:     s.Current,
		GoldType:    s.GoldType,
		ExposedGold: s.ExposedGold,
		CallTile:    mahjong.TileNull,
		WallCount:   len(s.Wall),
		DiscardPile: s.DiscardPile,
		Seats:       make([]SeatView, mahjong.NumSeats),
		History:     s.History,
		Winners:     s.Winners,
		Net:         s.Net,
		EndReason:   s.EndReason,
	}
	for i := int32(0); i < mahjong.NumSeats; i++ {
		hand := s.Hands[i]
		sv := SeatView{
			Seat:           i,
			ConcealedCount: len(hand.Concealed),
			Melds:          hand.Melds,
			Bonus:          hand.Bonus,
		}
		if i == seat {
			sv.Concealed = hand.Concealed
		}
		v.Seats[i] = sv
	}

	switch s.Phase {
	case PhaseCalling:
		if s.Pending != nil && seat != s.Pending.Discarder && s.Pending.Responses[seat] == nil {
			v.CallTile = s.Pending.Tile
			v.Offers = s.Pending.Offers[seat]
			if seat == mahjong.GetNextSeat(s.Pending.Discarder, 1) {
				v.Chows = s.Pending.Chows
			}
			v.Deadline = s.Pending.Deadline
		}
	case PhasePlaying:
		if seat == s.Current && s.TurnDrawn {
			v.Offers = mahjong.SelfOperates(s.Hands[seat], s.GoldType, len(s.Wall))
			v.Deadline = s.TurnDeadline
		}
	}
	return v
}
