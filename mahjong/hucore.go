package mahjong

import "slices"

// HuCore proves whether a tile multiset decomposes into sets plus one
// pair under Gold substitution. The search backtracks over a fixed
// counts array indexed by sorted distinct type, so suit runs are tried
// in deterministic order and honors (which cannot form runs) come last.
type HuCore struct{}

var DefaultHuCore = NewHuCore()

func NewHuCore() *HuCore {
	return &HuCore{}
}

// WinQuery narrows the search to decompositions satisfying a predicate.
// The search is re-run with the constraint applied as its first choice;
// inspecting whichever decomposition an unconstrained search happens to
// find first would miss alternatives.
type WinQuery struct {
	// RequireGoldPair demands the pair be two Gold tiles.
	RequireGoldPair bool
}

// ThreeGoldsWin is the instant win: three or more Golds in hand,
// no decomposition required.
func (hc *HuCore) ThreeGoldsWin(tiles []Tile, goldType Tile) bool {
	return CountGolds(tiles, goldType) >= 3
}

// CheckHu reports whether tiles (concealed hand plus any candidate tile,
// Golds included) form setsNeeded sets plus one pair.
func (hc *HuCore) CheckHu(tiles []Tile, goldType Tile, setsNeeded int) bool {
	return hc.CheckHuWhere(tiles, goldType, setsNeeded, WinQuery{})
}

func (hc *HuCore) CheckHuWhere(tiles []Tile, goldType Tile, setsNeeded int, q WinQuery) bool {
	plain := make([]Tile, 0, len(tiles))
	golds := 0
	for _, t := range tiles {
		if t.IsGold(goldType) {
			golds++
		} else {
			plain = append(plain, t)
		}
	}
	if len(plain)+golds != 3*setsNeeded+2 {
		return false
	}
	return hc.CheckBasicHu(plain, golds, setsNeeded, q)
}

// CheckBasicHu runs the decomposition search over non-Gold tiles with a
// wildcard budget. A wildcard substitutes for at most one tile per set
// or pair; three wildcards may also stand alone as a set, and two as
// the pair.
func (hc *HuCore) CheckBasicHu(plain []Tile, golds, setsNeeded int, q WinQuery) bool {
	s := newHuSearch(plain)
	if q.RequireGoldPair {
		if golds < 2 {
			return false
		}
		return s.solve(0, golds-2, setsNeeded, true)
	}
	return s.solve(0, golds, setsNeeded, false)
}

// CanWinOnDiscard checks the hand against a claimed tile. The number of
// sets still needed is fixed by the exposed meld count.
func CanWinOnDiscard(hand *Hand, goldType, candidate Tile) bool {
	tiles := append(slices.Clone(hand.Concealed), candidate)
	if DefaultHuCore.ThreeGoldsWin(tiles, goldType) {
		return true
	}
	return DefaultHuCore.CheckHu(tiles, goldType, SetsPerHand-hand.MeldCount())
}

// CanWinSelfDraw checks the 17-budget hand as drawn.
func CanWinSelfDraw(hand *Hand, goldType Tile) bool {
	if DefaultHuCore.ThreeGoldsWin(hand.Concealed, goldType) {
		return true
	}
	return DefaultHuCore.CheckHu(hand.Concealed, goldType, SetsPerHand-hand.MeldCount())
}

// HasGoldPairWin reports whether some valid decomposition of the winning
// hand uses two Golds as the pair (the Golden Pair bonus).
func HasGoldPairWin(hand *Hand, goldType Tile, extra Tile) bool {
	tiles := slices.Clone(hand.Concealed)
	if extra != TileNull {
		tiles = append(tiles, extra)
	}
	return DefaultHuCore.CheckHuWhere(tiles, goldType, SetsPerHand-hand.MeldCount(), WinQuery{RequireGoldPair: true})
}

type huSearch struct {
	types  []Tile
	counts []int
	index  map[Tile]int
}

func newHuSearch(plain []Tile) *huSearch {
	counts := TypeCounts(plain)
	types := make([]Tile, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	slices.Sort(types)
	s := &huSearch{
		types:  types,
		counts: make([]int, len(types)),
		index:  make(map[Tile]int, len(types)),
	}
	for i, t := range types {
		s.counts[i] = counts[t]
		s.index[t] = i
	}
	return s
}

func (s *huSearch) pos(tileType Tile) int {
	if tileType == TileNull {
		return -1
	}
	i, ok := s.index[tileType]
	if !ok {
		return -1
	}
	return i
}

// solve consumes the first type with tiles remaining; every branch is
// undone before the next is tried.
func (s *huSearch) solve(i, wilds, sets int, pair bool) bool {
	for i < len(s.types) && s.counts[i] == 0 {
		i++
	}
	if i == len(s.types) {
		// Leftover wildcards must exactly cover the open sets and pair.
		need := 3 * sets
		if !pair {
			need += 2
		}
		return wilds == need
	}

	t := s.types[i]
	if !pair {
		if s.counts[i] >= 2 {
			s.counts[i] -= 2
			ok := s.solve(i, wilds, sets, true)
			s.counts[i] += 2
			if ok {
				return true
			}
		}
		if wilds >= 1 {
			s.counts[i]--
			ok := s.solve(i, wilds-1, sets, true)
			s.counts[i]++
			if ok {
				return true
			}
		}
	}

	if sets > 0 {
		if s.counts[i] >= 3 {
			s.counts[i] -= 3
			ok := s.solve(i, wilds, sets-1, pair)
			s.counts[i] += 3
			if ok {
				return true
			}
		}
		if s.counts[i] >= 2 && wilds >= 1 {
			s.counts[i] -= 2
			ok := s.solve(i, wilds-1, sets-1, pair)
			s.counts[i] += 2
			if ok {
				return true
			}
		}
		if t.IsSuit() && s.tryRuns(i, t, wilds, sets, pair) {
			return true
		}
	}
	return false
}

// tryRuns covers every run whose lowest real tile is t: both neighbors
// real, or one of them replaced by a wildcard. Wildcards never supply
// adjacency on their own, so two wildcards in one run are not tried.
func (s *huSearch) tryRuns(i int, t Tile, wilds, sets int, pair bool) bool {
	j1 := s.pos(t.NextInRun(1))
	j2 := s.pos(t.NextInRun(2))
	if j1 >= 0 && j2 >= 0 && s.counts[j1] > 0 && s.counts[j2] > 0 {
		s.counts[i]--
		s.counts[j1]--
		s.counts[j2]--
		ok := s.solve(i, wilds, sets-1, pair)
		s.counts[i]++
		s.counts[j1]++
		s.counts[j2]++
		if ok {
			return true
		}
	}
	if wilds >= 1 {
		for _, j := range []int{j1, j2} {
			if j < 0 || s.counts[j] == 0 {
				continue
			}
			s.counts[i]--
			s.counts[j]--
			ok := s.solve(i, wilds-1, sets-1, pair)
			s.counts[i]++
			s.counts[j]++
			if ok {
				return true
			}
		}
	}
	return false
}
