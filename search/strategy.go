package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/brensch/connect4/game"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Kind names a move-selection strategy.
type Kind string

const (
	KindMinimax Kind = "minimax"
	KindGreedy  Kind = "greedy"
)

// MoveStrategy chooses a column for piece on b.
type MoveStrategy interface {
	Name() string
	Choose(b game.Board, piece game.Cell) (Result, error)
}

// Minimax searches Depth plies with alpha-beta pruning.
type Minimax struct {
	Depth    int
	TieBreak TieBreaker
}

func (m Minimax) Name() string { return fmt.Sprintf("%s/%d", KindMinimax, m.Depth) }

func (m Minimax) Choose(b game.Board, piece game.Cell) (Result, error) {
	return NewSearcher(piece).ChooseMove(b, m.Depth, m.TieBreak)
}

// Greedy looks one ply ahead and ignores the opponent's reply.
type Greedy struct {
	TieBreak TieBreaker
}

func (Greedy) Name() string { return string(KindGreedy) }

func (g Greedy) Choose(b game.Board, piece game.Cell) (Result, error) {
	return GreedyMove(b, piece, g.TieBreak)
}

// Config selects and tunes a MoveStrategy.
type Config struct {
	Strategy Kind   `json:"strategy,omitempty"`
	Depth    int    `json:"depth,omitempty"`
	TieBreak string `json:"tie_break,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
}

// DefaultConfig is minimax at DefaultDepth, lowest column on ties.
func DefaultConfig() Config {
	return Config{
		Strategy: KindMinimax,
		Depth:    DefaultDepth,
		TieBreak: "first",
	}
}

// Merge fills zero fields of c from def.
func (c Config) Merge(def Config) Config {
	if c.Strategy == "" {
		c.Strategy = def.Strategy
	}
	if c.Depth == 0 {
		c.Depth = def.Depth
	}
	if c.TieBreak == "" {
		c.TieBreak = def.TieBreak
	}
	if c.Seed == 0 {
		c.Seed = def.Seed
	}
	return c
}

// Build constructs the configured strategy.
func (c Config) Build() (MoveStrategy, error) {
	tb, err := ParseTieBreak(c.TieBreak, c.Seed)
	if err != nil {
		return nil, err
	}
	switch c.Strategy {
	case KindMinimax, "":
		if c.Depth <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrDepthNonPositive, c.Depth)
		}
		return Minimax{Depth: c.Depth, TieBreak: tb}, nil
	case KindGreedy:
		return Greedy{TieBreak: tb}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, c.Strategy)
}

// ParseStrategy builds a strategy from a short form such as "minimax",
// "minimax:7" or "greedy", using tieBreak and seed for ties.
func ParseStrategy(spec, tieBreak string, seed int64) (MoveStrategy, error) {
	cfg := Config{TieBreak: tieBreak, Seed: seed}
	kind, depth, hasDepth := strings.Cut(spec, ":")
	cfg.Strategy = Kind(kind)
	if hasDepth {
		d, err := strconv.Atoi(depth)
		if err != nil {
			return nil, fmt.Errorf("parse depth in %q: %w", spec, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrDepthNonPositive, spec)
		}
		cfg.Depth = d
	}
	return cfg.Merge(DefaultConfig()).Build()
}
