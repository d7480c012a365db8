// Package search picks moves for the automated side.
//
// Searcher implements depth-limited minimax with alpha-beta pruning. Every
// explored branch gets its own copy of the board (game.Board.Next), so the
// recursion never undoes moves and sibling branches never share state. The
// price is one 42-byte board copy per node.
package search

import (
	"errors"
	"math"

	"github.com/brensch/connect4/eval"
	"github.com/brensch/connect4/game"
	"github.com/brensch/connect4/rules"
)

// Large is the value of a won position. It dominates any heuristic score.
const Large int64 = 100_000_000_000_000

// NoColumn marks a Result produced at a leaf.
const NoColumn = -1

// DefaultDepth is the search depth used when none is configured.
const DefaultDepth = 5

const (
	negInf int64 = math.MinInt64
	posInf int64 = math.MaxInt64
)

var (
	ErrNoLegalMoves     = errors.New("no legal moves")
	ErrDepthNonPositive = errors.New("search depth must be positive")
	ErrGameOver         = errors.New("game is already won")
)

// Result is a chosen column and its minimax value from the maximizer's point
// of view. Column is NoColumn for leaves.
type Result struct {
	Column int
	Value  int64
}

// Searcher runs minimax for one maximizing piece. It is not safe for
// concurrent use; create one per goroutine.
type Searcher struct {
	// Me is the maximizing piece. The zero value means SystemPiece.
	Me game.Cell
	// Prune enables alpha-beta cutoffs. With Prune false every node is
	// expanded, which is only useful for checking the pruned search.
	Prune bool
	// Nodes counts Search calls since the Searcher was created.
	Nodes int64
}

// NewSearcher returns a pruning searcher that maximizes for me.
func NewSearcher(me game.Cell) *Searcher {
	return &Searcher{Me: me, Prune: true}
}

func (s *Searcher) me() game.Cell {
	if s.Me.IsPiece() {
		return s.Me
	}
	return game.SystemPiece
}

// Search returns the minimax value of b searched depth plies deep, and the
// column achieving it. The first column (in ascending order) reaching the
// best value wins ties. alpha and beta are the usual bounds; pass
// math.MinInt64 and math.MaxInt64 for an open window.
func (s *Searcher) Search(b game.Board, depth int, alpha, beta int64, maximizing bool) Result {
	s.Nodes++
	me := s.me()
	opp := me.Opponent()
	cols := b.LegalColumns()

	switch {
	case rules.HasFour(&b, me):
		return Result{Column: NoColumn, Value: Large}
	case rules.HasFour(&b, opp):
		return Result{Column: NoColumn, Value: -Large}
	case len(cols) == 0:
		return Result{Column: NoColumn, Value: 0}
	case depth <= 0:
		return Result{Column: NoColumn, Value: int64(eval.ScorePosition(&b, me))}
	}

	if maximizing {
		best := Result{Column: cols[0], Value: negInf}
		for _, c := range cols {
			v := s.Search(b.Next(c, me), depth-1, alpha, beta, false).Value
			if v > best.Value {
				best = Result{Column: c, Value: v}
			}
			if !s.Prune {
				continue
			}
			alpha = max(alpha, best.Value)
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := Result{Column: cols[0], Value: posInf}
	for _, c := range cols {
		v := s.Search(b.Next(c, opp), depth-1, alpha, beta, true).Value
		if v < best.Value {
			best = Result{Column: c, Value: v}
		}
		if !s.Prune {
			continue
		}
		beta = min(beta, best.Value)
		if alpha >= beta {
			break
		}
	}
	return best
}

// checkPlayable reports why no move can be chosen on b, if any.
func checkPlayable(b *game.Board) error {
	if _, won := rules.Winner(b); won {
		return ErrGameOver
	}
	if b.Full() {
		return ErrNoLegalMoves
	}
	return nil
}

// ChooseMove searches depth plies for s.Me and returns the best column.
//
// Unlike Search it collects every root column that reaches the best value
// and lets tb pick among them. Root children are searched with alpha one
// below the best value so far, which keeps tied values exact under pruning.
// A nil tb means FirstTie, which always agrees with Search.
func (s *Searcher) ChooseMove(b game.Board, depth int, tb TieBreaker) (Result, error) {
	if depth <= 0 {
		return Result{Column: NoColumn}, ErrDepthNonPositive
	}
	if err := checkPlayable(&b); err != nil {
		return Result{Column: NoColumn}, err
	}
	if tb == nil {
		tb = FirstTie{}
	}

	me := s.me()
	best := negInf
	ties := make([]int, 0, game.Cols)
	alpha := negInf
	for _, c := range b.LegalColumns() {
		v := s.Search(b.Next(c, me), depth-1, alpha, posInf, false).Value
		switch {
		case v > best:
			best = v
			ties = append(ties[:0], c)
		case v == best:
			ties = append(ties, c)
		}
		if s.Prune && best > negInf {
			alpha = best - 1
		}
	}
	return Result{Column: tb.Pick(ties), Value: best}, nil
}

// ChooseMove is the entry point for the automated side: a pruned search for
// piece, depth plies deep, resolving ties toward the lowest column.
func ChooseMove(b game.Board, depth int, piece game.Cell) (int, error) {
	res, err := NewSearcher(piece).ChooseMove(b, depth, FirstTie{})
	if err != nil {
		return NoColumn, err
	}
	return res.Column, nil
}
