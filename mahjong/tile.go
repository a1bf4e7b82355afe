package mahjong

import (
	"fmt"
	"strconv"
	"strings"
)

// Tile is bit-packed as color<<8 | point<<4 | instance. The instance
// nibble (0..3) distinguishes the four physical copies of a type;
// masking it off yields the TileType used for matching and counting.
type Tile int32

const (
	TileNull Tile = -1
	typeMask Tile = ^Tile(0x0F)
)

var TileInf = Tile(int32(ColorEnd) << 8)

func MakeTile(color EColor, point int) Tile {
	return MakeTileInstance(color, point, 0)
}

func MakeTileInstance(color EColor, point, instance int) Tile {
	if color < ColorBegin || color >= ColorEnd || point < 0 || point >= PointCountByColor[color] || instance < 0 || instance >= SameTileCount {
		panic(fmt.Sprintf("mahjong: malformed tile color=%d point=%d instance=%d", color, point, instance))
	}
	return Tile(int32(color)<<8 | int32(point)<<4 | int32(instance))
}

func (t Tile) Color() EColor {
	return EColor((t >> 8) & 0x0F)
}

func (t Tile) Point() int {
	return int((t >> 4) & 0x0F)
}

func (t Tile) Instance() int {
	return int(t & 0x0F)
}

func (t Tile) Info() (EColor, int) {
	return t.Color(), t.Point()
}

// Type strips the instance nibble; exactly four tiles share each type.
func (t Tile) Type() Tile {
	return t & typeMask
}

func (t Tile) SameType(o Tile) bool {
	return t.Type() == o.Type()
}

func (t Tile) IsValid() bool {
	if t < 0 || t >= TileInf {
		return false
	}
	color := t.Color()
	return color >= ColorBegin && color < ColorEnd && t.Point() < PointCountByColor[color]
}

func (t Tile) IsSuit() bool {
	return t.IsValid() && IsSuitColor(t.Color())
}

// IsBonus reports whether the tile is exposed at round start instead of
// being played from hand (winds and the dragon).
func (t Tile) IsBonus() bool {
	return t.IsValid() && IsHonorColor(t.Color())
}

func (t Tile) IsGold(goldType Tile) bool {
	return goldType != TileNull && t.IsValid() && t.Type() == goldType.Type()
}

// NextInRun returns the same-suit tile type `step` ranks above, or
// TileNull when it would leave the suit.
func (t Tile) NextInRun(step int) Tile {
	if !t.IsSuit() {
		return TileNull
	}
	point := t.Point() + step
	if point < 0 || point >= PointCountByColor[t.Color()] {
		return TileNull
	}
	return MakeTile(t.Color(), point)
}

func (t Tile) Name() string {
	c, p := t.Info()
	switch c {
	case ColorDot:
		return strconv.Itoa(p+1) + "筒"
	case ColorBamboo:
		return strconv.Itoa(p+1) + "条"
	case ColorCharacter:
		return strconv.Itoa(p+1) + "万"
	case ColorWind:
		names := []string{"东", "南", "西", "北"}
		return names[p]
	case ColorDragon:
		return "中"
	default:
		return ""
	}
}

func (t Tile) ToInt32() int32 {
	return int32(t)
}

func TilesName(tiles []Tile) string {
	var tileNames []string
	for _, tile := range tiles {
		tileNames = append(tileNames, tile.Name())
	}
	return strings.Join(tileNames, ", ")
}

func TilesInt32(tiles []Tile) []int32 {
	res := make([]int32, len(tiles))
	for i, t := range tiles {
		res[i] = int32(t)
	}
	return res
}

func Int32Tiles(tiles []int32) []Tile {
	res := make([]Tile, len(tiles))
	for i, t := range tiles {
		res[i] = Tile(t)
	}
	return res
}

func makeTiles(t Tile, count int) []Tile {
	res := make([]Tile, count)
	for i := range res {
		res[i] = t
	}
	return res
}

// CountType counts tiles of the same type as `want`, skipping golds when
// a gold type is given (golds never satisfy literal matches).
func CountType(tiles []Tile, want, goldType Tile) int {
	count := 0
	for _, t := range tiles {
		if t.SameType(want) && !t.IsGold(goldType) {
			count++
		}
	}
	return count
}

// CountGolds counts wildcard tiles in the list.
func CountGolds(tiles []Tile, goldType Tile) int {
	count := 0
	for _, t := range tiles {
		if t.IsGold(goldType) {
			count++
		}
	}
	return count
}

// RemoveTiles removes up to `count` tiles of the exact value from the list.
func RemoveTiles(tiles []Tile, tile Tile, count int) []Tile {
	res := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		if count > 0 && t == tile {
			count--
			continue
		}
		res = append(res, t)
	}
	return res
}

// RemoveTypes removes up to `count` tiles matching the type, preferring
// non-gold copies; returns the remainder and the removed tiles.
func RemoveTypes(tiles []Tile, tileType, goldType Tile, count int) ([]Tile, []Tile) {
	removed := make([]Tile, 0, count)
	res := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		if count > 0 && t.SameType(tileType) && !t.IsGold(goldType) {
			removed = append(removed, t)
			count--
			continue
		}
		res = append(res, t)
	}
	return res, removed
}
