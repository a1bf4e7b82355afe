package mahjong_test

import (
	"math/rand"
	"testing"

	"github.com/minnan-games/fjmahjong/mahjong"
)

func Test_DeckComposition(t *testing.T) {
	deck := mahjong.BuildDeck()
	if len(deck) != mahjong.DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), mahjong.DeckSize)
	}
	counts := mahjong.TypeCounts(deck)
	// 27 suit + 4 wind + 1 dragon
	if len(counts) != 32 {
		t.Fatalf("type count = %d, want 32", len(counts))
	}
	for tile, n := range counts {
		if n != mahjong.SameTileCount {
			t.Errorf("type %s has %d copies", tile.Name(), n)
		}
	}

	// shuffling must preserve the multiset
	shuffled := mahjong.BuildDeck()
	mahjong.ShuffleDeck(shuffled, rand.New(rand.NewSource(7)))
	seen := make(map[mahjong.Tile]bool, len(shuffled))
	for _, tile := range shuffled {
		if seen[tile] {
			t.Fatalf("duplicate physical tile %v after shuffle", tile)
		}
		seen[tile] = true
	}
	if len(seen) != mahjong.DeckSize {
		t.Fatalf("shuffle lost tiles: %d", len(seen))
	}
}

func Test_TileModel(t *testing.T) {
	tile := mahjong.MakeTileInstance(mahjong.ColorBamboo, 3, 2)
	if tile.Color() != mahjong.ColorBamboo || tile.Point() != 3 || tile.Instance() != 2 {
		t.Fatalf("round trip failed: %v", tile)
	}
	other := mahjong.MakeTileInstance(mahjong.ColorBamboo, 3, 0)
	if !tile.SameType(other) || tile == other {
		t.Error("instances of one type must match by type only")
	}
	if !mahjong.MakeTile(mahjong.ColorWind, 1).IsBonus() {
		t.Error("winds are bonus tiles")
	}
	if mahjong.MakeTile(mahjong.ColorDot, 0).IsBonus() {
		t.Error("suit tiles are not bonus tiles")
	}

	defer func() {
		if recover() == nil {
			t.Error("malformed tile construction must panic")
		}
	}()
	mahjong.MakeTile(mahjong.ColorDragon, 2)
}
