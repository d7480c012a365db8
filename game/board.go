// Package game defines the Connect Four board and its placement rules.
//
// Board is a fixed-size array so plain assignment produces an independent
// copy. Search code relies on that: every explored branch owns its own board
// and no move is ever undone in place.
package game

import (
	"errors"
	"fmt"
)

const (
	Rows      = 6
	Cols      = 7
	WinLength = 4
)

var (
	// ErrInvalidColumn is returned when a column is out of range or full, or
	// when a placement row is not the column's landing row.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrInvalidPiece is returned when asked to place Empty.
	ErrInvalidPiece = errors.New("invalid piece")
)

// Cell is the content of one board square.
type Cell uint8

const (
	Empty Cell = iota
	PlayerPiece
	SystemPiece
)

// Opponent returns the other player's piece. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerPiece:
		return SystemPiece
	case SystemPiece:
		return PlayerPiece
	default:
		return Empty
	}
}

func (c Cell) IsPiece() bool {
	return c == PlayerPiece || c == SystemPiece
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case PlayerPiece:
		return "player"
	case SystemPiece:
		return "system"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// ParseCell accepts the names produced by Cell.String.
func ParseCell(s string) (Cell, error) {
	switch s {
	case "empty":
		return Empty, nil
	case "player":
		return PlayerPiece, nil
	case "system":
		return SystemPiece, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrInvalidPiece, s)
}

// Board is indexed [row][col] with row 0 at the bottom.
type Board [Rows][Cols]Cell

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// IsValidColumn reports whether col is in range and its top cell is empty.
func (b *Board) IsValidColumn(col int) bool {
	if col < 0 || col >= Cols {
		return false
	}
	return b[Rows-1][col] == Empty
}

// LowestEmptyRow returns the row a piece dropped into col would land on.
func (b *Board) LowestEmptyRow(col int) (int, error) {
	if !b.IsValidColumn(col) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return b.lowestEmptyRow(col), nil
}

func (b *Board) lowestEmptyRow(col int) int {
	for r := 0; r < Rows; r++ {
		if b[r][col] == Empty {
			return r
		}
	}
	return -1
}

// place writes piece without any checks. row must be the landing row of a
// legal column.
func (b *Board) place(row, col int, piece Cell) {
	b[row][col] = piece
}

// Place sets (row, col) to piece after checking that row is exactly where a
// drop into col would land.
func (b *Board) Place(row, col int, piece Cell) error {
	if !piece.IsPiece() {
		return fmt.Errorf("%w: %s", ErrInvalidPiece, piece)
	}
	want, err := b.LowestEmptyRow(col)
	if err != nil {
		return err
	}
	if row != want {
		return fmt.Errorf("%w: column %d lands on row %d, not %d", ErrInvalidColumn, col, want, row)
	}
	b.place(row, col, piece)
	return nil
}

// Drop places piece in the lowest empty row of col and returns that row.
func (b *Board) Drop(col int, piece Cell) (int, error) {
	if !piece.IsPiece() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPiece, piece)
	}
	row, err := b.LowestEmptyRow(col)
	if err != nil {
		return 0, err
	}
	b.place(row, col, piece)
	return row, nil
}

// Next returns a copy of b with piece dropped into col. It is the search hot
// path and does not validate; col must be one of LegalColumns. Next panics on
// a full column rather than overwriting a cell.
func (b Board) Next(col int, piece Cell) Board {
	row := b.lowestEmptyRow(col)
	if row < 0 {
		panic(fmt.Sprintf("game: Next on full column %d", col))
	}
	b.place(row, col, piece)
	return b
}

// LegalColumns lists playable columns in ascending order. Search iterates
// in this order, so it also fixes tie-breaking.
func (b *Board) LegalColumns() []int {
	cols := make([]int, 0, Cols)
	for c := 0; c < Cols; c++ {
		if b[Rows-1][c] == Empty {
			cols = append(cols, c)
		}
	}
	return cols
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b[r][c] != Empty {
				n++
			}
		}
	}
	return n
}

// Full reports whether no column can accept a piece.
func (b *Board) Full() bool {
	for c := 0; c < Cols; c++ {
		if b[Rows-1][c] == Empty {
			return false
		}
	}
	return true
}

// Swapped returns b with every PlayerPiece and SystemPiece exchanged.
func (b Board) Swapped() Board {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			b[r][c] = b[r][c].Opponent()
		}
	}
	return b
}

// Mirrored returns b reflected left to right.
func (b Board) Mirrored() Board {
	var out Board
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			out[r][Cols-1-c] = b[r][c]
		}
	}
	return out
}
