package mahjong

// ScoreFlags are the win-condition qualifiers feeding the breakdown.
type ScoreFlags struct {
	SelfDraw    bool `json:"self_draw"`
	ThreeGolds  bool `json:"three_golds"`
	RobbingGold bool `json:"robbing_gold"`
	GoldenPair  bool `json:"golden_pair"`
}

// Post-multiplier bonus values.
const (
	BonusThreeGolds  = 30
	BonusRobbingGold = 10
	BonusGoldenPair  = 5
	BonusCleanHand   = 5
	BonusAllOneSuit  = 10
)

// ScoreBreakdown is the deterministic point composition of one win.
// Subtotal components sum before the multiplier; flat bonuses apply
// after it.
type ScoreBreakdown struct {
	Base           int64 `json:"base"`
	BonusTiles     int64 `json:"bonus_tiles"`
	Golds          int64 `json:"golds"`
	ConcealedKongs int64 `json:"concealed_kongs"`
	ExposedKongs   int64 `json:"exposed_kongs"`
	DealerStreak   int64 `json:"dealer_streak"`
	Multiplier     int64 `json:"multiplier"`
	FlatBonus      int64 `json:"flat_bonus"`
	Total          int64 `json:"total"`
}

// Score computes the breakdown for a completed winning hand.
func Score(hand *Hand, goldType Tile, dealerStreak int32, flags ScoreFlags) *ScoreBreakdown {
	b := &ScoreBreakdown{
		Base:         1,
		BonusTiles:   int64(len(hand.Bonus)),
		Golds:        int64(hand.GoldCount(goldType)),
		DealerStreak: int64(dealerStreak),
		Multiplier:   1,
	}
	kongs := 0
	for _, m := range hand.Melds {
		switch m.Kind {
		case MeldConcealedKong:
			b.ConcealedKongs += 2
			kongs++
		case MeldExposedKong:
			b.ExposedKongs++
			kongs++
		}
	}
	if flags.SelfDraw {
		b.Multiplier = 2
	}
	if flags.ThreeGolds {
		b.FlatBonus += BonusThreeGolds
	}
	if flags.RobbingGold {
		b.FlatBonus += BonusRobbingGold
	}
	if flags.GoldenPair {
		b.FlatBonus += BonusGoldenPair
	}
	if len(hand.Bonus) == 0 && kongs == 0 {
		b.FlatBonus += BonusCleanHand
	}
	if allOneSuit(hand, goldType) {
		b.FlatBonus += BonusAllOneSuit
	}
	subtotal := b.Base + b.BonusTiles + b.Golds + b.ConcealedKongs + b.ExposedKongs + b.DealerStreak
	b.Total = subtotal*b.Multiplier + b.FlatBonus
	return b
}

// allOneSuit ignores Golds and bonus tiles; every other tile, melds
// included, must share one suit color.
func allOneSuit(hand *Hand, goldType Tile) bool {
	suit := ColorUndefined
	check := func(t Tile) bool {
		if t.IsGold(goldType) {
			return true
		}
		if !t.IsSuit() {
			return false
		}
		if suit == ColorUndefined {
			suit = t.Color()
		}
		return t.Color() == suit
	}
	for _, t := range hand.Concealed {
		if !check(t) {
			return false
		}
	}
	for _, m := range hand.Melds {
		for _, t := range m.Tiles {
			if !check(t) {
				return false
			}
		}
	}
	return suit != ColorUndefined
}

// Settle converts one winner's score into the per-seat deltas: the
// winner collects one unit from each other seat. The deltas always sum
// to zero; multi-winner discards settle by applying Settle once per
// winner.
func Settle(winner int32, score int64) []int64 {
	deltas := make([]int64, NumSeats)
	for seat := int32(0); seat < NumSeats; seat++ {
		if seat == winner {
			deltas[seat] = score * int64(NumSeats-1)
		} else {
			deltas[seat] = -score
		}
	}
	return deltas
}

// AccumulateSettlement folds per-round deltas into running net positions.
func AccumulateSettlement(net []int64, deltas []int64) {
	for i := range net {
		net[i] += deltas[i]
	}
}
