// Package rules decides when a Connect Four game is over.
package rules

import (
	"github.com/brensch/connect4/game"
)

// Outcome of a position.
type Outcome uint8

const (
	Ongoing Outcome = iota
	PlayerWins
	SystemWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case PlayerWins:
		return "player"
	case SystemWins:
		return "system"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// HasFour reports whether piece occupies all cells of some horizontal,
// vertical or diagonal window.
func HasFour(b *game.Board, piece game.Cell) bool {
	if !piece.IsPiece() {
		return false
	}
	// Horizontal.
	for r := 0; r < game.Rows; r++ {
		for c := 0; c <= game.Cols-game.WinLength; c++ {
			if b[r][c] == piece && b[r][c+1] == piece && b[r][c+2] == piece && b[r][c+3] == piece {
				return true
			}
		}
	}
	// Vertical.
	for c := 0; c < game.Cols; c++ {
		for r := 0; r <= game.Rows-game.WinLength; r++ {
			if b[r][c] == piece && b[r+1][c] == piece && b[r+2][c] == piece && b[r+3][c] == piece {
				return true
			}
		}
	}
	// Rising diagonal.
	for c := 0; c <= game.Cols-game.WinLength; c++ {
		for r := 0; r <= game.Rows-game.WinLength; r++ {
			if b[r][c] == piece && b[r+1][c+1] == piece && b[r+2][c+2] == piece && b[r+3][c+3] == piece {
				return true
			}
		}
	}
	// Falling diagonal.
	for c := 0; c <= game.Cols-game.WinLength; c++ {
		for r := game.WinLength - 1; r < game.Rows; r++ {
			if b[r][c] == piece && b[r-1][c+1] == piece && b[r-2][c+2] == piece && b[r-3][c+3] == piece {
				return true
			}
		}
	}
	return false
}

// IsTerminal reports whether either side has four in a row or the board
// has no legal column left.
func IsTerminal(b *game.Board) bool {
	return HasFour(b, game.SystemPiece) || HasFour(b, game.PlayerPiece) || b.Full()
}

// Winner returns the piece with four in a row, if any. On a board where both
// sides have four (unreachable in play) SystemPiece is reported, matching
// the order search checks them in.
func Winner(b *game.Board) (game.Cell, bool) {
	if HasFour(b, game.SystemPiece) {
		return game.SystemPiece, true
	}
	if HasFour(b, game.PlayerPiece) {
		return game.PlayerPiece, true
	}
	return game.Empty, false
}

// Result classifies b.
func Result(b *game.Board) Outcome {
	if w, ok := Winner(b); ok {
		if w == game.SystemPiece {
			return SystemWins
		}
		return PlayerWins
	}
	if b.Full() {
		return Draw
	}
	return Ongoing
}

// WinningColumns lists the legal columns where dropping piece completes four
// in a row, in ascending order.
func WinningColumns(b *game.Board, piece game.Cell) []int {
	var cols []int
	for _, c := range b.LegalColumns() {
		next := b.Next(c, piece)
		if HasFour(&next, piece) {
			cols = append(cols, c)
		}
	}
	return cols
}
