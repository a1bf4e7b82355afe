package mahjong_test

import (
	"strconv"
	"testing"

	"github.com/minnan-games/fjmahjong/mahjong"
)

func tiles(groups ...[]mahjong.Tile) []mahjong.Tile {
	var res []mahjong.Tile
	for _, g := range groups {
		res = append(res, g...)
	}
	return res
}

func nOf(t mahjong.Tile, n int) []mahjong.Tile {
	res := make([]mahjong.Tile, n)
	for i := range res {
		res[i] = mahjong.MakeTileInstance(t.Color(), t.Point(), i%mahjong.SameTileCount)
	}
	return res
}

func Test_CheckHu(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	bamboo := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorBamboo, p-1) }
	char := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorCharacter, p-1) }

	gold := dots(5)
	hc := mahjong.NewHuCore()

	type Case struct {
		tiles      []mahjong.Tile
		goldType   mahjong.Tile
		setsNeeded int
		want       bool
	}

	fiveTriplets := tiles(
		nOf(dots(1), 3), nOf(dots(2), 3), nOf(dots(3), 3),
		nOf(bamboo(1), 3), nOf(bamboo(2), 3), nOf(char(9), 2),
	)

	// same hand with one triplet member swapped for a Gold
	withGold := tiles(
		nOf(dots(1), 3), nOf(dots(2), 3), nOf(dots(3), 3),
		nOf(bamboo(1), 3), nOf(bamboo(2), 2), nOf(gold, 1), nOf(char(9), 2),
	)

	disconnected := tiles(
		nOf(dots(1), 2), nOf(dots(9), 2), nOf(bamboo(4), 2), nOf(char(2), 2),
		nOf(char(7), 2), nOf(mahjong.MakeTile(mahjong.ColorWind, 0), 2),
		nOf(mahjong.MakeTile(mahjong.ColorWind, 2), 2),
		nOf(mahjong.MakeTile(mahjong.ColorDragon, 0), 2), nOf(dots(4), 1),
	)

	runs := tiles(
		nOf(dots(1), 1), nOf(dots(2), 1), nOf(dots(3), 1),
		nOf(dots(4), 1), nOf(dots(5), 1), nOf(dots(6), 1),
		nOf(bamboo(2), 1), nOf(bamboo(3), 1), nOf(bamboo(4), 1),
		nOf(char(5), 1), nOf(char(6), 1), nOf(char(7), 1),
		nOf(bamboo(9), 3), nOf(char(1), 2),
	)

	// Gold fills the middle of a run: 2筒 _ 4筒 with gold as 3筒
	gapRun := tiles(
		nOf(dots(2), 1), nOf(dots(4), 1), nOf(gold, 1),
		nOf(bamboo(1), 3), nOf(bamboo(5), 3), nOf(char(2), 3),
		nOf(char(8), 3), nOf(char(1), 2),
	)

	testCases := []Case{
		{fiveTriplets, char(1), 5, true},
		{fiveTriplets, mahjong.TileNull, 5, true},
		{withGold, gold, 5, true},
		{withGold, char(1), 5, false}, // without wildcard status the lone 5筒 breaks it
		{disconnected, char(1), 5, false},
		{runs, mahjong.TileNull, 5, true},
		{gapRun, gold, 5, true},
		{gapRun, char(1), 5, false},
	}

	for i, tc := range testCases {
		t.Run("case"+strconv.Itoa(i), func(t *testing.T) {
			got := hc.CheckHu(tc.tiles, tc.goldType, tc.setsNeeded)
			if got != tc.want {
				t.Errorf("CheckHu(%s, gold=%v) = %v, want %v", mahjong.TilesName(tc.tiles), tc.goldType, got, tc.want)
			}
		})
	}
}

func Test_ThreeGoldsWin(t *testing.T) {
	gold := mahjong.MakeTile(mahjong.ColorBamboo, 4)
	hand := mahjong.NewHand()
	for _, tile := range nOf(gold, 3) {
		hand.Put(tile)
	}
	for _, tile := range tiles(nOf(mahjong.MakeTile(mahjong.ColorDot, 0), 2), nOf(mahjong.MakeTile(mahjong.ColorDot, 8), 2)) {
		hand.Put(tile)
	}
	if !mahjong.CanWinSelfDraw(hand, gold) {
		t.Error("three Golds must win regardless of decomposition")
	}
	if mahjong.DefaultHuCore.CheckHu(hand.Concealed, gold, mahjong.SetsPerHand) {
		t.Error("the shape itself is not a decomposition win; only the Three-Golds rule applies")
	}
}

func Test_GoldPairQuery(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	char := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorCharacter, p-1) }
	gold := char(5)

	// Two Golds can sit as the pair, or split across sets: the query
	// must prove the pair-of-Golds decomposition exists.
	hand := mahjong.NewHand()
	hand.Concealed = tiles(
		nOf(dots(1), 3), nOf(dots(2), 3), nOf(dots(3), 3),
		nOf(dots(7), 3), nOf(dots(8), 3), nOf(gold, 2),
	)
	if !mahjong.HasGoldPairWin(hand, gold, mahjong.TileNull) {
		t.Error("expected a decomposition with two Golds as the pair")
	}

	// One Gold only: no gold-pair decomposition may be reported.
	hand2 := mahjong.NewHand()
	hand2.Concealed = tiles(
		nOf(dots(1), 3), nOf(dots(2), 3), nOf(dots(3), 3),
		nOf(dots(7), 3), nOf(dots(8), 3), nOf(gold, 1), nOf(char(1), 1),
	)
	if mahjong.HasGoldPairWin(hand2, gold, mahjong.TileNull) {
		t.Error("gold-pair query must fail with a single Gold")
	}
}

func Test_CanWinOnDiscard(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	bamboo := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorBamboo, p-1) }
	char := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorCharacter, p-1) }

	hand := mahjong.NewHand()
	hand.Concealed = tiles(
		nOf(dots(1), 3), nOf(dots(2), 3), nOf(dots(3), 3),
		nOf(bamboo(1), 3), nOf(bamboo(2), 2), nOf(char(9), 2),
	)
	if !mahjong.CanWinOnDiscard(hand, mahjong.TileNull, bamboo(2)) {
		t.Error("discarded 2条 completes the fifth triplet")
	}
	if mahjong.CanWinOnDiscard(hand, mahjong.TileNull, char(3)) {
		t.Error("3万 completes nothing")
	}
}

func Test_CheckHuWithMelds(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	hc := mahjong.NewHuCore()

	// two exposed melds: 3 sets + pair from 11 tiles
	concealed := tiles(
		nOf(dots(1), 3), nOf(dots(4), 3), nOf(dots(6), 3), nOf(dots(9), 2),
	)
	if !hc.CheckHu(concealed, mahjong.TileNull, 3) {
		t.Error("11 tiles with two melds exposed should win")
	}
	if hc.CheckHu(concealed, mahjong.TileNull, 5) {
		t.Error("tile count must match the open set count")
	}
}
