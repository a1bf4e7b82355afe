package mahjong

const (
	SeatNull int32 = -1
	SeatAll  int32 = -2
)

const (
	// NumSeats is fixed: Fujian rules are a four-player game.
	NumSeats int32 = 4

	// TileCountInitNormal is the concealed hand size after the deal;
	// the dealer draws one extra.
	TileCountInitNormal = 16
	TileCountInitDealer = 17

	// SetsPerHand is the number of sets a full hand decomposes into when
	// no melds are exposed. Each exposed meld replaces one set.
	SetsPerHand = 5
)

// EColor is the tile family. Suit colors sort below honor colors so the
// decomposer can process runs before honors.
type EColor int

const (
	ColorUndefined EColor = -1
	ColorDot       EColor = iota - 1 // 筒
	ColorBamboo                      // 条
	ColorCharacter                   // 万
	ColorWind                        // 风
	ColorDragon                      // 箭 (single rank in Fujian rules)
	ColorEnd
	ColorBegin = ColorDot
)

// PointCountByColor gives the rank count per color; 9+9+9 suit ranks,
// 4 winds, 1 dragon. With 4 copies each this is the 128-tile deck.
var PointCountByColor = [ColorEnd]int{9, 9, 9, 4, 1}

const (
	SameTileCount = 4
	DeckSize      = 128
)

func IsSuitColor(color EColor) bool {
	return color >= ColorDot && color <= ColorCharacter
}

func IsHonorColor(color EColor) bool {
	return color == ColorWind || color == ColorDragon
}

// GetNextSeat returns the seat `step` places after `seat` in turn order.
func GetNextSeat(seat, step int32) int32 {
	return (seat + step) % NumSeats
}

// Action is one entry of the per-round history.
type Action struct {
	Seat    int32  `json:"seat"`
	From    int32  `json:"from"`
	Operate int32  `json:"operate"`
	Tile    Tile   `json:"tile"`
	Extra   Tile   `json:"extra"`
	Name    string `json:"name,omitempty"`
}

const (
	OperateNone    int32 = -1
	OperatePass    int32 = 0
	OperateChow    int32 = 1 << iota
	OperatePung
	OperateKong
	OperateHu
	OperateDiscard
	OperateDraw
)

var OperateNames = map[int32]string{
	OperatePass:    "Pass",
	OperateChow:    "Chow",
	OperatePung:    "Pung",
	OperateKong:    "Kong",
	OperateHu:      "Win",
	OperateDiscard: "Discard",
	OperateDraw:    "Draw",
}

// Operates is the bitmask of legal responses offered to one seat.
type Operates struct {
	Value    int32 `json:"value"`
	IsMustHu bool  `json:"is_must_hu,omitempty"`
}

func NewOperates(ops ...int32) *Operates {
	o := &Operates{}
	for _, op := range ops {
		o.AddOperate(op)
	}
	return o
}

func (o *Operates) AddOperate(op int32) {
	o.Value |= op
}

func (o *Operates) RemoveOperate(op int32) {
	o.Value &= ^op
}

func (o *Operates) HasOperate(op int32) bool {
	return (o.Value & op) != 0
}

func (o *Operates) Empty() bool {
	return o.Value == 0
}
