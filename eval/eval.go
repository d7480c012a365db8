// Package eval scores Connect Four positions by scanning every four-cell
// window on the board.
package eval

import (
	"github.com/brensch/connect4/game"
)

const (
	FourScore    = 100
	ThreeScore   = 5
	TwoScore     = 2
	BlockPenalty = 100
)

// MaxAbsScore bounds |ScorePosition| for any board.
const MaxAbsScore = 69 * FourScore

// ScoreWindow scores a single window for piece. Each window contributes one
// offensive term (four, open three or open two) plus the penalty when the
// opponent has an open three. The counts are exact, so at most one of the
// two ever applies.
func ScoreWindow(w [game.WinLength]game.Cell, piece game.Cell) int {
	opp := piece.Opponent()
	var mine, theirs, empty int
	for _, c := range w {
		switch c {
		case piece:
			mine++
		case opp:
			theirs++
		default:
			empty++
		}
	}

	score := 0
	switch {
	case mine == 4:
		score += FourScore
	case mine == 3 && empty == 1:
		score += ThreeScore
	case mine == 2 && empty == 2:
		score += TwoScore
	}
	if theirs == 3 && empty == 1 {
		score -= BlockPenalty
	}
	return score
}

// ScorePosition sums ScoreWindow over all windows of b.
func ScorePosition(b *game.Board, piece game.Cell) int {
	score := 0
	for _, w := range game.Windows {
		score += ScoreWindow(b.Window(w), piece)
	}
	return score
}

// Breakdown is ScorePosition split by orientation, for debugging.
func Breakdown(b *game.Board, piece game.Cell) map[game.Orientation]int {
	out := make(map[game.Orientation]int, 4)
	for _, w := range game.Windows {
		out[w.Orientation] += ScoreWindow(b.Window(w), piece)
	}
	return out
}
