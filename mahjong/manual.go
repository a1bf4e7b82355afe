package mahjong

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Manual loads a scripted deal from a yaml file, used to reproduce
// reported hands in debugging and tests. Absent or disabled files fall
// back to a normal shuffle.
type Manual struct {
	vp *viper.Viper
}

func NewManual(name string) *Manual {
	m := &Manual{vp: viper.New()}
	m.vp.SetConfigType("yaml")
	m.vp.SetConfigFile(filepath.Join(".", "initdeal", fmt.Sprintf("%s.yaml", name)))
	if err := m.vp.ReadInConfig(); err != nil {
		return nil
	}
	return m
}

func (m *Manual) Enabled() bool {
	if m == nil {
		return false
	}
	return m.vp.GetBool("enable")
}

// GoldType returns the scripted gold type, or TileNull.
func (m *Manual) GoldType() Tile {
	if m == nil {
		return TileNull
	}
	return nameToTile(m.vp.GetString("gold"))
}

// Load arranges the deck so each scripted seat hand is dealt first and
// the remainder is shuffled. The deal pops from the back of the wall,
// so scripted tiles go to the back in seat order.
func (m *Manual) Load(rng *rand.Rand) ([]Tile, error) {
	names := m.vp.GetStringSlice("hands")
	groups := make([][]Tile, len(names))
	for i := range names {
		groups[i] = namesToTiles(names[i])
	}

	remaining := BuildDeck()
	for _, g := range groups {
		for _, want := range g {
			i := -1
			for k, t := range remaining {
				if t.SameType(want) {
					i = k
					break
				}
			}
			if i < 0 {
				return nil, fmt.Errorf("mahjong: scripted tile %s overflows the deck", want.Name())
			}
			remaining = append(remaining[:i], remaining[i+1:]...)
		}
	}

	ShuffleDeck(remaining, rng)
	deck := remaining
	// Dealing pops TileCountInitNormal per seat from the back; append
	// scripted hands in reverse so seat 0 is served first.
	for i := len(groups) - 1; i >= 0; i-- {
		deck = append(deck, groups[i]...)
	}
	return deck, nil
}

var singleTileMap = map[rune]Tile{
	'东': MakeTile(ColorWind, 0),
	'南': MakeTile(ColorWind, 1),
	'西': MakeTile(ColorWind, 2),
	'北': MakeTile(ColorWind, 3),
	'中': MakeTile(ColorDragon, 0),
}

var lastRuneToColor = map[rune]EColor{
	'筒': ColorDot,
	'条': ColorBamboo,
	'万': ColorCharacter,
}

func namesToTiles(names string) []Tile {
	parts := strings.Split(names, ",")
	res := make([]Tile, 0, len(parts))
	for _, name := range parts {
		if t := nameToTile(strings.TrimSpace(name)); t != TileNull {
			res = append(res, t)
		}
	}
	return res
}

func nameToTile(name string) Tile {
	if name == "" {
		return TileNull
	}
	r, size := utf8.DecodeLastRuneInString(name)
	if color, ok := lastRuneToColor[r]; ok {
		num, err := strconv.Atoi(name[:len(name)-size])
		if err != nil || num < 1 || num > 9 {
			return TileNull
		}
		return MakeTile(color, num-1)
	}
	r, size = utf8.DecodeRuneInString(name)
	if size == len(name) {
		if t, ok := singleTileMap[r]; ok {
			return t
		}
	}
	return TileNull
}
