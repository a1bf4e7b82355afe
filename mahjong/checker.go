package mahjong

import "slices"

// Call evaluation. Calls are literal: Gold tiles neither trigger a call
// nor count toward one, and a discarded Gold can never be claimed.

// CanPung reports two or more non-Gold copies of the discarded type.
func CanPung(hand *Hand, discarded, goldType Tile) bool {
	if discarded.IsGold(goldType) || discarded.IsBonus() {
		return false
	}
	return CountType(hand.Concealed, discarded, goldType) >= 2
}

// CanKong reports three or more non-Gold copies of the discarded type.
func CanKong(hand *Hand, discarded, goldType Tile) bool {
	if discarded.IsGold(goldType) || discarded.IsBonus() {
		return false
	}
	return CountType(hand.Concealed, discarded, goldType) >= 3
}

// ChowOption is one way to complete a run with the discarded tile.
type ChowOption struct {
	Tiles [2]Tile `json:"tiles"`
}

// ChowOptions enumerates the distinct run placements (discard as low,
// middle or high member) the hand can complete. Every option is
// surfaced; the engine never picks one silently. Chow eligibility by
// seat order is the caller's concern.
func ChowOptions(hand *Hand, discarded, goldType Tile) []ChowOption {
	if !discarded.IsSuit() || discarded.IsGold(goldType) {
		return nil
	}
	options := make([]ChowOption, 0, 3)
	for low := -2; low <= 0; low++ {
		a := discarded.NextInRun(low)
		b := discarded.NextInRun(low + 1)
		c := discarded.NextInRun(low + 2)
		if a == TileNull || b == TileNull || c == TileNull {
			continue
		}
		need := make([]Tile, 0, 2)
		for _, t := range []Tile{a, b, c} {
			if t.SameType(discarded) {
				continue
			}
			need = append(need, t)
		}
		if len(need) != 2 {
			continue
		}
		if CountType(hand.Concealed, need[0], goldType) < 1 || CountType(hand.Concealed, need[1], goldType) < 1 {
			continue
		}
		options = append(options, ChowOption{Tiles: [2]Tile{need[0], need[1]}})
	}
	return options
}

// CanChow reports whether any run placement exists.
func CanChow(hand *Hand, discarded, goldType Tile) bool {
	return len(ChowOptions(hand, discarded, goldType)) > 0
}

// ConcealedKongTiles lists types the seat holds four non-Gold copies of.
// Golds and bonus tiles never form a kong.
func ConcealedKongTiles(hand *Hand, goldType Tile) []Tile {
	types := make([]Tile, 0, 1)
	for t, count := range TypeCounts(hand.Concealed) {
		if count == 4 && !t.IsGold(goldType) && !t.IsBonus() {
			types = append(types, t)
		}
	}
	slices.Sort(types)
	return types
}

// UpgradeKongTiles lists exposed-pung types whose fourth copy is in hand.
func UpgradeKongTiles(hand *Hand, goldType Tile) []Tile {
	types := make([]Tile, 0, 1)
	for _, m := range hand.Melds {
		if m.Kind != MeldPung {
			continue
		}
		t := m.CalledTile.Type()
		if t.IsGold(goldType) {
			continue
		}
		if CountType(hand.Concealed, t, goldType) >= 1 {
			types = append(types, t)
		}
	}
	slices.Sort(types)
	return types
}

// CanSelfKong reports any concealed-kong or pung-upgrade opportunity.
func CanSelfKong(hand *Hand, goldType Tile) bool {
	return len(ConcealedKongTiles(hand, goldType)) > 0 || len(UpgradeKongTiles(hand, goldType)) > 0
}

// WaitOperates derives the full response set a seat may submit against a
// discard. nextSeat must be the seat immediately after the discarder;
// only that seat may chow.
func WaitOperates(hand *Hand, discarded, goldType Tile, seat, nextSeat int32) *Operates {
	opt := NewOperates(OperatePass)
	if CanWinOnDiscard(hand, goldType, discarded) && !discarded.IsBonus() {
		opt.AddOperate(OperateHu)
	}
	if CanKong(hand, discarded, goldType) {
		opt.AddOperate(OperateKong)
	}
	if CanPung(hand, discarded, goldType) {
		opt.AddOperate(OperatePung)
	}
	if seat == nextSeat && CanChow(hand, discarded, goldType) {
		opt.AddOperate(OperateChow)
	}
	return opt
}

// SelfOperates derives what the acting seat may do with a full hand.
func SelfOperates(hand *Hand, goldType Tile, wallRest int) *Operates {
	opt := NewOperates(OperateDiscard)
	if CanWinSelfDraw(hand, goldType) {
		opt.AddOperate(OperateHu)
	}
	if wallRest > 0 && CanSelfKong(hand, goldType) {
		opt.AddOperate(OperateKong)
	}
	return opt
}
