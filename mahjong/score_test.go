package mahjong_test

import (
	"testing"

	"github.com/minnan-games/fjmahjong/mahjong"
)

func Test_ScoreBreakdown(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	gold := dots(5)

	hand := mahjong.NewHand()
	hand.Concealed = tiles(nOf(dots(1), 3), nOf(gold, 2))
	hand.Bonus = tiles(nOf(mahjong.MakeTile(mahjong.ColorWind, 0), 2))
	hand.Melds = []mahjong.Meld{
		{Kind: mahjong.MeldConcealedKong, Tiles: nOf(dots(2), 4), CalledTile: mahjong.TileNull},
		{Kind: mahjong.MeldExposedKong, Tiles: nOf(dots(3), 4), CalledTile: dots(3)},
	}

	b := mahjong.Score(hand, gold, 1, mahjong.ScoreFlags{SelfDraw: true, GoldenPair: true})

	// base 1 + bonus 2 + golds 2 + concealed kong 2 + exposed kong 1 + streak 1 = 9
	if b.Multiplier != 2 {
		t.Errorf("self-draw doubles: multiplier = %d", b.Multiplier)
	}
	wantFlat := int64(mahjong.BonusGoldenPair + mahjong.BonusAllOneSuit)
	if b.FlatBonus != wantFlat {
		t.Errorf("flat bonus = %d, want %d", b.FlatBonus, wantFlat)
	}
	if want := int64(9*2) + wantFlat; b.Total != want {
		t.Errorf("total = %d, want %d", b.Total, want)
	}
}

func Test_CleanHand(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	bamboo := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorBamboo, p-1) }

	hand := mahjong.NewHand()
	hand.Concealed = tiles(nOf(dots(1), 3), nOf(bamboo(2), 2))

	b := mahjong.Score(hand, mahjong.TileNull, 0, mahjong.ScoreFlags{})
	if b.FlatBonus != mahjong.BonusCleanHand {
		t.Errorf("no bonus tiles and no kongs should score the clean hand flat bonus, got %d", b.FlatBonus)
	}
	if want := int64(1 + mahjong.BonusCleanHand); b.Total != want {
		t.Errorf("total = %d, want %d", b.Total, want)
	}
}

func Test_SettleZeroSum(t *testing.T) {
	net := make([]int64, mahjong.NumSeats)

	rounds := []struct {
		winner int32
		score  int64
	}{
		{0, 12}, {2, 7}, {2, 31}, {3, 1},
	}
	for _, r := range rounds {
		mahjong.AccumulateSettlement(net, mahjong.Settle(r.winner, r.score))
	}
	// a drawn round settles nothing
	mahjong.AccumulateSettlement(net, make([]int64, mahjong.NumSeats))

	var sum int64
	for _, v := range net {
		sum += v
	}
	if sum != 0 {
		t.Errorf("net positions must sum to zero, got %d (%v)", sum, net)
	}
	if net[0] != 12*3-7-31-1 {
		t.Errorf("seat 0 net = %d", net[0])
	}
}

func Test_MultiWinnerSettlementZeroSum(t *testing.T) {
	// two seats winning the same discard settle independently
	net := make([]int64, mahjong.NumSeats)
	mahjong.AccumulateSettlement(net, mahjong.Settle(1, 10))
	mahjong.AccumulateSettlement(net, mahjong.Settle(3, 4))

	var sum int64
	for _, v := range net {
		sum += v
	}
	if sum != 0 {
		t.Errorf("multi-winner settlement must stay zero-sum, got %d (%v)", sum, net)
	}
	if net[1] != 30-4 || net[3] != 12-10 {
		t.Errorf("unexpected nets: %v", net)
	}
}
