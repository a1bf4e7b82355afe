package mahjong_test

import (
	"testing"

	"github.com/minnan-games/fjmahjong/mahjong"
)

func handOf(ts ...mahjong.Tile) *mahjong.Hand {
	h := mahjong.NewHand()
	for _, t := range ts {
		h.Put(t)
	}
	return h
}

func Test_CanPungKong(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	gold := dots(5)

	h := handOf(tiles(nOf(dots(1), 2), nOf(dots(3), 3), nOf(gold, 2))...)

	if !mahjong.CanPung(h, dots(1), gold) {
		t.Error("two literal copies should allow pung")
	}
	if mahjong.CanKong(h, dots(1), gold) {
		t.Error("kong needs three copies")
	}
	if !mahjong.CanKong(h, dots(3), gold) {
		t.Error("three literal copies should allow kong")
	}
	// the discarded tile's type equals goldType: no call of any kind
	if mahjong.CanPung(h, gold, gold) || mahjong.CanKong(h, gold, gold) || mahjong.CanChow(h, gold, gold) {
		t.Error("a discarded Gold can never be called")
	}
}

func Test_ChowOptions(t *testing.T) {
	bamboo := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorBamboo, p-1) }
	gold := mahjong.MakeTile(mahjong.ColorDot, 0)

	h := handOf(bamboo(1), bamboo(2), bamboo(4), bamboo(5), bamboo(6))
	// discard 3条: low (3,4,5), middle (2,3,4), high (1,2,3)
	options := mahjong.ChowOptions(h, bamboo(3), gold)
	if len(options) != 3 {
		t.Fatalf("expected all three run placements, got %d", len(options))
	}

	h2 := handOf(bamboo(1), bamboo(2))
	options = mahjong.ChowOptions(h2, bamboo(3), gold)
	if len(options) != 1 {
		t.Fatalf("expected the single high placement, got %d", len(options))
	}

	// a Gold in hand cannot complete the run
	goldB4 := bamboo(4)
	h3 := handOf(bamboo(5), goldB4)
	if got := mahjong.ChowOptions(h3, bamboo(3), goldB4); len(got) != 0 {
		t.Errorf("gold cannot fill a chow, got %v", got)
	}

	// honors never chow
	wind := mahjong.MakeTile(mahjong.ColorWind, 0)
	if mahjong.CanChow(handOf(wind, wind), wind, gold) {
		t.Error("honor tiles cannot form runs")
	}
}

func Test_WaitOperatesChowSeatRestriction(t *testing.T) {
	bamboo := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorBamboo, p-1) }
	gold := mahjong.MakeTile(mahjong.ColorDot, 8)

	h := handOf(bamboo(1), bamboo(2), bamboo(7), bamboo(8), bamboo(9))
	next := int32(1)

	opt := mahjong.WaitOperates(h, bamboo(3), gold, 1, next)
	if !opt.HasOperate(mahjong.OperateChow) {
		t.Error("next seat should be offered the chow")
	}
	opt = mahjong.WaitOperates(h, bamboo(3), gold, 2, next)
	if opt.HasOperate(mahjong.OperateChow) {
		t.Error("only the seat after the discarder may chow")
	}
}

func Test_SelfKong(t *testing.T) {
	char := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorCharacter, p-1) }
	gold := char(9)

	h := handOf(nOf(char(2), 4)...)
	if got := mahjong.ConcealedKongTiles(h, gold); len(got) != 1 || !got[0].SameType(char(2)) {
		t.Fatalf("expected concealed kong on 2万, got %v", got)
	}

	// four Golds never kong
	hg := handOf(nOf(gold, 4)...)
	if got := mahjong.ConcealedKongTiles(hg, gold); len(got) != 0 {
		t.Error("golds must not form a kong")
	}

	// pung upgrade with the fourth copy in hand
	hu := handOf(char(5))
	hu.Melds = append(hu.Melds, mahjong.Meld{
		Kind:       mahjong.MeldPung,
		Tiles:      nOf(char(5), 3),
		From:       2,
		CalledTile: char(5),
	})
	if got := mahjong.UpgradeKongTiles(hu, gold); len(got) != 1 {
		t.Fatalf("expected upgrade kong on 5万, got %v", got)
	}
	meld, ok := hu.UpgradePungToKong(char(5), gold)
	if !ok || meld.Kind != mahjong.MeldExposedKong || len(meld.Tiles) != 4 {
		t.Fatalf("upgrade failed: %v %v", meld, ok)
	}
	if len(hu.Concealed) != 0 || len(hu.Melds) != 1 {
		t.Error("upgrade must consume the concealed copy and replace the pung")
	}
}

func Test_HandCallsKeepConservation(t *testing.T) {
	dots := func(p int) mahjong.Tile { return mahjong.MakeTile(mahjong.ColorDot, p-1) }
	gold := mahjong.MakeTile(mahjong.ColorCharacter, 0)

	h := handOf(tiles(nOf(dots(1), 2), nOf(dots(7), 3))...)
	before := len(h.AllTiles())

	discarded := mahjong.MakeTileInstance(mahjong.ColorDot, 0, 2)
	meld, ok := h.Pung(discarded, 0, gold)
	if !ok {
		t.Fatal("pung should be legal")
	}
	if len(meld.Tiles) != 3 || meld.CalledTile != discarded {
		t.Fatalf("bad meld: %+v", meld)
	}
	if got := len(h.AllTiles()); got != before+1 {
		t.Errorf("hand should have gained exactly the claimed tile: %d -> %d", before, got)
	}
}
