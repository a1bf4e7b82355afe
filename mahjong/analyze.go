package mahjong

import "slices"

// Hand analysis shared by the bot agent and the turn-timeout auto-play.
// Everything here is heuristic: the shanten value is an estimate of
// distance to a win, not an exact search.

type HandGroups struct {
	Sets     int     // complete triplets/runs found greedily
	Pairs    []Tile  // types held exactly twice (after set extraction)
	Partials [][2]Tile
	Isolated []Tile
	Golds    int
}

// Analyze greedily decomposes the concealed tiles into sets, pairs,
// partial runs and isolated tiles. Golds are pulled out first and
// treated as universal fillers by the shanten estimate.
func Analyze(tiles []Tile, goldType Tile) *HandGroups {
	g := &HandGroups{}
	counts := make(map[Tile]int)
	for _, t := range tiles {
		if t.IsGold(goldType) {
			g.Golds++
			continue
		}
		counts[t.Type()]++
	}
	types := make([]Tile, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	slices.Sort(types)

	// Triplets first, then runs low-to-high.
	for _, t := range types {
		for counts[t] >= 3 {
			counts[t] -= 3
			g.Sets++
		}
	}
	for _, t := range types {
		for counts[t] > 0 {
			n1, n2 := t.NextInRun(1), t.NextInRun(2)
			if n1 == TileNull || n2 == TileNull || counts[n1] == 0 || counts[n2] == 0 {
				break
			}
			counts[t]--
			counts[n1]--
			counts[n2]--
			g.Sets++
		}
	}
	// Leftovers: pairs, adjacent/gapped partials, isolated tiles.
	for _, t := range types {
		if counts[t] >= 2 {
			counts[t] -= 2
			g.Pairs = append(g.Pairs, t)
		}
	}
	for _, t := range types {
		if counts[t] == 0 {
			continue
		}
		matched := false
		for _, step := range []int{1, 2} {
			n := t.NextInRun(step)
			if n != TileNull && counts[n] > 0 {
				counts[t]--
				counts[n]--
				g.Partials = append(g.Partials, [2]Tile{t, n})
				matched = true
				break
			}
		}
		if !matched {
			counts[t]--
			g.Isolated = append(g.Isolated, t)
		}
	}
	return g
}

// ShantenEstimate approximates tiles-to-win for the concealed hand.
// 0 means waiting on one tile; negative values saturate at -1 (winning
// shape already).
func ShantenEstimate(hand *Hand, goldType Tile) int {
	g := Analyze(hand.Concealed, goldType)
	need := SetsPerHand - hand.MeldCount()

	sets := g.Sets
	partials := len(g.Pairs) + len(g.Partials)
	hasPair := len(g.Pairs) > 0
	if hasPair {
		partials-- // one pair is reserved as the eyes
	}
	if sets+partials > need {
		partials = need - sets
		if partials < 0 {
			partials = 0
		}
	}
	shanten := 2*(need-sets) - partials
	if !hasPair {
		shanten++
	}
	shanten -= g.Golds
	if shanten < -1 {
		return -1
	}
	return shanten
}

// discardWeight scores how expendable a concealed tile is; higher means
// a better discard. Golds are never returned by SuggestDiscard.
func discardWeight(tiles []Tile, t, goldType Tile, discardCounts map[Tile]int) int {
	weight := 0
	count := CountType(tiles, t, goldType)
	switch count {
	case 1:
		weight += 6
	case 2:
		weight += 1 // breaking a pair is costly
	default:
		weight -= 4
	}
	if t.IsSuit() {
		for _, step := range []int{-2, -1, 1, 2} {
			n := t.NextInRun(step)
			if n != TileNull && CountType(tiles, n, goldType) > 0 {
				weight -= 2
			}
		}
		// edge ranks connect to fewer runs
		if p := t.Point(); p == 0 || p == PointCountByColor[t.Color()]-1 {
			weight++
		}
	} else {
		weight += 3
	}
	// already discarded twice or more: unlikely to feed a call or win
	if discardCounts[t.Type()] >= 2 {
		weight += 3
	}
	return weight
}

// SuggestDiscard picks the least valuable concealed tile, protecting
// pairs and run material and never giving up a Gold. discards is the
// table discard pile (safety signal); may be nil.
func SuggestDiscard(hand *Hand, goldType Tile, discards []Tile) Tile {
	discardCounts := TypeCounts(discards)
	best := TileNull
	bestWeight := 0
	for _, t := range hand.Concealed {
		if t.IsGold(goldType) {
			continue
		}
		w := discardWeight(hand.Concealed, t, goldType, discardCounts)
		if best == TileNull || w > bestWeight {
			best, bestWeight = t, w
		}
	}
	if best == TileNull && len(hand.Concealed) > 0 {
		// all-Gold hand; forced to give one up
		best = hand.Concealed[len(hand.Concealed)-1]
	}
	return best
}
