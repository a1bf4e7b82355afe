package mahjong

import (
	"slices"
)

type MeldKind string

const (
	MeldChow          MeldKind = "chow"
	MeldPung          MeldKind = "pung"
	MeldExposedKong   MeldKind = "exposed_kong"
	MeldConcealedKong MeldKind = "concealed_kong"
)

// Meld is immutable once formed; a pung upgrade records a new kong meld
// in place of the pung.
type Meld struct {
	Kind       MeldKind `json:"kind"`
	Tiles      []Tile   `json:"tiles"`
	From       int32    `json:"from"`
	CalledTile Tile     `json:"called_tile"`
}

func (m Meld) IsKong() bool {
	return m.Kind == MeldExposedKong || m.Kind == MeldConcealedKong
}

// Hand is one seat's tiles. Concealed tiles are private to the seat;
// melds and bonus tiles are public.
type Hand struct {
	Concealed []Tile `json:"concealed"`
	Melds     []Meld `json:"melds"`
	Bonus     []Tile `json:"bonus"`
}

func NewHand() *Hand {
	return &Hand{
		Concealed: make([]Tile, 0, TileCountInitDealer),
		Melds:     make([]Meld, 0),
		Bonus:     make([]Tile, 0),
	}
}

func (h *Hand) Put(tile Tile) {
	h.Concealed = append(h.Concealed, tile)
	slices.Sort(h.Concealed)
}

func (h *Hand) Contains(tile Tile) bool {
	return slices.Contains(h.Concealed, tile)
}

// Discard removes the exact tile; false when the seat does not hold it.
func (h *Hand) Discard(tile Tile) bool {
	i := slices.Index(h.Concealed, tile)
	if i < 0 {
		return false
	}
	h.Concealed = slices.Delete(h.Concealed, i, i+1)
	return true
}

// ExposeBonus moves all wind/dragon tiles out of the concealed hand and
// returns how many replacements must be drawn.
func (h *Hand) ExposeBonus() int {
	moved := 0
	rest := make([]Tile, 0, len(h.Concealed))
	for _, t := range h.Concealed {
		if t.IsBonus() {
			h.Bonus = append(h.Bonus, t)
			moved++
		} else {
			rest = append(rest, t)
		}
	}
	h.Concealed = rest
	return moved
}

func (h *Hand) HasBonusInHand() bool {
	return slices.ContainsFunc(h.Concealed, Tile.IsBonus)
}

// TileBudget is the count a seat's tiles must satisfy before drawing:
// concealed plus three per meld (kongs count as three, the fourth tile
// is replaced by an extra draw).
func (h *Hand) TileBudget() int {
	return len(h.Concealed) + 3*len(h.Melds)
}

func (h *Hand) MeldCount() int {
	return len(h.Melds)
}

func (h *Hand) GoldCount(goldType Tile) int {
	return CountGolds(h.Concealed, goldType)
}

// Pung forms an exposed triplet from two concealed literal matches plus
// the discarded tile.
func (h *Hand) Pung(discarded Tile, from int32, goldType Tile) (Meld, bool) {
	if CountType(h.Concealed, discarded, goldType) < 2 {
		return Meld{}, false
	}
	rest, removed := RemoveTypes(h.Concealed, discarded, goldType, 2)
	h.Concealed = rest
	meld := Meld{
		Kind:       MeldPung,
		Tiles:      append(removed, discarded),
		From:       from,
		CalledTile: discarded,
	}
	h.Melds = append(h.Melds, meld)
	return meld, true
}

// ExposedKong forms a kong from three concealed literal matches plus the
// discarded tile.
func (h *Hand) ExposedKong(discarded Tile, from int32, goldType Tile) (Meld, bool) {
	if CountType(h.Concealed, discarded, goldType) < 3 {
		return Meld{}, false
	}
	rest, removed := RemoveTypes(h.Concealed, discarded, goldType, 3)
	h.Concealed = rest
	meld := Meld{
		Kind:       MeldExposedKong,
		Tiles:      append(removed, discarded),
		From:       from,
		CalledTile: discarded,
	}
	h.Melds = append(h.Melds, meld)
	return meld, true
}

// ConcealedKong removes four concealed copies of the type.
func (h *Hand) ConcealedKong(tileType Tile, seat int32, goldType Tile) (Meld, bool) {
	if CountType(h.Concealed, tileType, goldType) < 4 {
		return Meld{}, false
	}
	rest, removed := RemoveTypes(h.Concealed, tileType, goldType, 4)
	h.Concealed = rest
	meld := Meld{
		Kind:       MeldConcealedKong,
		Tiles:      removed,
		From:       seat,
		CalledTile: TileNull,
	}
	h.Melds = append(h.Melds, meld)
	return meld, true
}

// UpgradePungToKong replaces an exposed pung with a kong using the
// fourth concealed copy. The prior meld is replaced, not mutated.
func (h *Hand) UpgradePungToKong(tileType Tile, goldType Tile) (Meld, bool) {
	idx := -1
	for i, m := range h.Melds {
		if m.Kind == MeldPung && m.CalledTile.SameType(tileType) {
			idx = i
			break
		}
	}
	if idx < 0 || CountType(h.Concealed, tileType, goldType) < 1 {
		return Meld{}, false
	}
	rest, removed := RemoveTypes(h.Concealed, tileType, goldType, 1)
	h.Concealed = rest
	old := h.Melds[idx]
	meld := Meld{
		Kind:       MeldExposedKong,
		Tiles:      append(slices.Clone(old.Tiles), removed...),
		From:       old.From,
		CalledTile: old.CalledTile,
	}
	h.Melds[idx] = meld
	return meld, true
}

// Chow forms a run using the discarded tile and the two concealed tiles
// of the given types. Golds never complete a chow.
func (h *Hand) Chow(discarded Tile, pair [2]Tile, from int32, goldType Tile) (Meld, bool) {
	if !isChowShape(discarded, pair) {
		return Meld{}, false
	}
	for _, t := range pair {
		if t.IsGold(goldType) || CountType(h.Concealed, t, goldType) < 1 {
			return Meld{}, false
		}
	}
	taken := make([]Tile, 0, 2)
	for _, t := range pair {
		rest, removed := RemoveTypes(h.Concealed, t, goldType, 1)
		h.Concealed = rest
		taken = append(taken, removed...)
	}
	tiles := append(taken, discarded)
	slices.SortFunc(tiles, func(a, b Tile) int { return int(a.Type() - b.Type()) })
	meld := Meld{
		Kind:       MeldChow,
		Tiles:      tiles,
		From:       from,
		CalledTile: discarded,
	}
	h.Melds = append(h.Melds, meld)
	return meld, true
}

// AllTiles returns every tile the seat owns, for conservation checks.
func (h *Hand) AllTiles() []Tile {
	tiles := make([]Tile, 0, len(h.Concealed)+len(h.Bonus)+4*len(h.Melds))
	tiles = append(tiles, h.Concealed...)
	tiles = append(tiles, h.Bonus...)
	for _, m := range h.Melds {
		tiles = append(tiles, m.Tiles...)
	}
	return tiles
}

func isChowShape(discarded Tile, pair [2]Tile) bool {
	if !discarded.IsSuit() || !pair[0].IsSuit() || !pair[1].IsSuit() {
		return false
	}
	if discarded.Color() != pair[0].Color() || discarded.Color() != pair[1].Color() {
		return false
	}
	points := []int{discarded.Point(), pair[0].Point(), pair[1].Point()}
	slices.Sort(points)
	return points[1] == points[0]+1 && points[2] == points[1]+1
}
