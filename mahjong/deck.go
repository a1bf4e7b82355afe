package mahjong

import "math/rand"

// BuildDeck returns the full 128-tile deck: every type in four instances.
func BuildDeck() []Tile {
	deck := make([]Tile, 0, DeckSize)
	for color := ColorBegin; color < ColorEnd; color++ {
		for point := 0; point < PointCountByColor[color]; point++ {
			for instance := 0; instance < SameTileCount; instance++ {
				deck = append(deck, MakeTileInstance(color, point, instance))
			}
		}
	}
	return deck
}

// ShuffleDeck fills and randomizes in one pass, inserting each tile at a
// random position among those already placed.
func ShuffleDeck(deck []Tile, rng *rand.Rand) {
	for i := 1; i < len(deck); i++ {
		pos := rng.Intn(i + 1)
		deck[i], deck[pos] = deck[pos], deck[i]
	}
}

// TypeCounts tallies a tile list by type.
func TypeCounts(tiles []Tile) map[Tile]int {
	counts := make(map[Tile]int)
	for _, t := range tiles {
		counts[t.Type()]++
	}
	return counts
}
