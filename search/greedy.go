package search

import (
	"github.com/brensch/connect4/eval"
	"github.com/brensch/connect4/game"
)

// GreedyMove scores each legal drop for piece one ply deep, without
// modelling any reply, and returns the highest scoring column. Ties go to
// tb (FirstTie when nil).
func GreedyMove(b game.Board, piece game.Cell, tb TieBreaker) (Result, error) {
	if err := checkPlayable(&b); err != nil {
		return Result{Column: NoColumn}, err
	}
	if tb == nil {
		tb = FirstTie{}
	}

	best := negInf
	ties := make([]int, 0, game.Cols)
	for _, c := range b.LegalColumns() {
		next := b.Next(c, piece)
		v := int64(eval.ScorePosition(&next, piece))
		switch {
		case v > best:
			best = v
			ties = append(ties[:0], c)
		case v == best:
			ties = append(ties, c)
		}
	}
	return Result{Column: tb.Pick(ties), Value: best}, nil
}

// BestMoveGreedy is GreedyMove with ties resolved toward the lowest column.
func BestMoveGreedy(b game.Board, piece game.Cell) (int, error) {
	res, err := GreedyMove(b, piece, FirstTie{})
	if err != nil {
		return NoColumn, err
	}
	return res.Column, nil
}
