package game

import (
	"math/rand/v2"
	"time"
)

// Rules holds the tunable numbers of a game. Zero values are replaced by the
// defaults when an engine is created.
type Rules struct {
	StartingMoney int `yaml:"starting_money" json:"startingMoney"`
	PassGoBonus   int `yaml:"pass_go_bonus" json:"passGoBonus"`
	JailFine      int `yaml:"jail_fine" json:"jailFine"`
	MinPlayers    int `yaml:"min_players" json:"minPlayers"`
	MaxPlayers    int `yaml:"max_players" json:"maxPlayers"`
}

func DefaultRules() Rules {
	return Rules{
		StartingMoney: 1500,
		PassGoBonus:   200,
		JailFine:      50,
		MinPlayers:    2,
		MaxPlayers:    6,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.StartingMoney <= 0 {
		r.StartingMoney = d.StartingMoney
	}
	if r.PassGoBonus < 0 {
		r.PassGoBonus = d.PassGoBonus
	}
	if r.JailFine <= 0 {
		r.JailFine = d.JailFine
	}
	if r.MinPlayers < 2 {
		r.MinPlayers = d.MinPlayers
	}
	if r.MaxPlayers <= 0 || r.MaxPlayers > len(Palette) {
		r.MaxPlayers = d.MaxPlayers
	}
	if r.MaxPlayers < r.MinPlayers {
		r.MaxPlayers = r.MinPlayers
	}
	return r
}

// Palette is the fixed set of player colours, assigned in join order.
var Palette = []string{"#FF0000", "#00FF00", "#0000FF", "#FFFF00", "#FF00FF", "#00FFFF"}

// Random is the source of every die, shuffle and chaos draw in a game.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
}

type Option func(*Engine)

func WithRandom(r Random) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func defaultRandom() Random {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>17|1))
}
