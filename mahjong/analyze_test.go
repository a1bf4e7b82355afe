package mahjong_test

import (
	"testing"

	"github.com/minnan-games/fjmahjong/mahjong"
)

func Test_ShantenEstimate(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	bamboo := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorBamboo, p-1) }
	char := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorCharacter, p-1) }

	winning := mahjong.NewHand()
	winning.Concealed = tiles(
		nOf(dots(1), 3), nOf(dots(2), 3), nOf(dots(3), 3),
		nOf(bamboo(1), 3), nOf(bamboo(2), 3), nOf(char(9), 2),
	)
	if got := mahjong.ShantenEstimate(winning, mahjong.TileNull); got != -1 {
		t.Errorf("winning shape shanten = %d, want -1", got)
	}

	waiting := mahjong.NewHand()
	waiting.Concealed = tiles(
		nOf(dots(1), 3), nOf(dots(2), 3), nOf(dots(3), 3),
		nOf(bamboo(1), 3), nOf(bamboo(2), 2), nOf(char(9), 2),
	)
	if got := mahjong.ShantenEstimate(waiting, mahjong.TileNull); got != 0 {
		t.Errorf("one-away shanten = %d, want 0", got)
	}

	scattered := mahjong.NewHand()
	scattered.Concealed = tiles(
		nOf(dots(1), 1), nOf(dots(4), 1), nOf(dots(7), 1),
		nOf(bamboo(1), 1), nOf(bamboo(4), 1), nOf(bamboo(7), 1),
		nOf(char(1), 1), nOf(char(4), 1), nOf(char(7), 1),
		nOf(dots(9), 1), nOf(bamboo(9), 1), nOf(char(9), 1),
		nOf(dots(2), 1), nOf(bamboo(2), 1), nOf(char(2), 1), nOf(char(5), 1),
	)
	if got := mahjong.ShantenEstimate(scattered, mahjong.TileNull); got <= 3 {
		t.Errorf("a scattered hand must estimate far from winning, got %d", got)
	}
}

func Test_SuggestDiscard(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	char := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorCharacter, p-1) }
	gold := dots(5)

	hand := mahjong.NewHand()
	hand.Concealed = tiles(
		nOf(dots(1), 2),            // pair, protected
		nOf(dots(6), 1), nOf(dots(7), 1), // run material, protected
		nOf(gold, 1),
		nOf(char(3), 1), // isolated
	)
	got := mahjong.SuggestDiscard(hand, gold, nil)
	if !got.SameType(char(3)) {
		t.Errorf("expected the isolated 3万, got %s", got.Name())
	}

	// a Gold must never be auto-discarded even when everything else is grouped
	hand2 := mahjong.NewHand()
	hand2.Concealed = tiles(nOf(dots(1), 3), nOf(gold, 1))
	if got := mahjong.SuggestDiscard(hand2, gold, nil); got.IsGold(gold) {
		t.Error("auto-discard chose a Gold")
	}
}

func Test_AnalyzeGroups(t *testing.T) {
	bamboo := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorBamboo, p-1) }
	g := mahjong.Analyze(tiles(
		nOf(bamboo(1), 3),
		nOf(bamboo(4), 1), nOf(bamboo(5), 1), nOf(bamboo(6), 1),
		nOf(bamboo(8), 2),
		nOf(bamboo(2), 1),
	), mahjong.TileNull)

	if g.Sets != 2 {
		t.Errorf("sets = %d, want 2", g.Sets)
	}
	if len(g.Pairs) != 1 {
		t.Errorf("pairs = %v", g.Pairs)
	}
	if len(g.Isolated) != 1 {
		t.Errorf("isolated = %v", g.Isolated)
	}
}
