package session

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries the tunables of one table.
type Config struct {
	// CallTimeout bounds the calling-phase fan-in; expiry auto-passes.
	CallTimeout time.Duration
	// TurnTimeout bounds a seat's whole turn; expiry auto-plays it.
	TurnTimeout time.Duration
	// DeadWallSize tiles are split off the shuffled deck and never drawn.
	DeadWallSize int
	// ReserveTail is the drawable tail in which discards can no longer be
	// called, so every seat keeps one live self-draw.
	ReserveTail int
	// Script names a scripted-deal file under ./initdeal, for debugging.
	Script string
}

func DefaultConfig() Config {
	return Config{
		CallTimeout:  30 * time.Second,
		TurnTimeout:  30 * time.Second,
		DeadWallSize: 8,
		ReserveTail:  4,
	}
}

// LoadConfig reads the session block of a viper config, falling back to
// the defaults for anything unset.
func LoadConfig(v *viper.Viper) Config {
	def := DefaultConfig()
	v.SetDefault("session.call_timeout", def.CallTimeout)
	v.SetDefault("session.turn_timeout", def.TurnTimeout)
	v.SetDefault("session.dead_wall_size", def.DeadWallSize)
	v.SetDefault("session.reserve_tail", def.ReserveTail)
	v.SetDefault("session.script", "")
	return Config{
		CallTimeout:  v.GetDuration("session.call_timeout"),
		TurnTimeout:  v.GetDuration("session.turn_timeout"),
		DeadWallSize: v.GetInt("session.dead_wall_size"),
		ReserveTail:  v.GetInt("session.reserve_tail"),
		Script:       v.GetString("session.script"),
	}
}
