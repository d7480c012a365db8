package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedBoard is returned by ParseBoard for text that is not a
// reachable board layout.
var ErrMalformedBoard = errors.New("malformed board")

const (
	emptyRune  = '.'
	playerRune = 'X'
	systemRune = 'O'
)

func (c Cell) rune() byte {
	switch c {
	case PlayerPiece:
		return playerRune
	case SystemPiece:
		return systemRune
	default:
		return emptyRune
	}
}

// String draws the board top row first, one line per row.
func (b Board) String() string {
	return b.format('\n') + "\n"
}

func (b Board) format(sep byte) string {
	var sb strings.Builder
	sb.Grow(Rows * (Cols + 1))
	for r := Rows - 1; r >= 0; r-- {
		for c := 0; c < Cols; c++ {
			sb.WriteByte(b[r][c].rune())
		}
		if r > 0 {
			sb.WriteByte(sep)
		}
	}
	return sb.String()
}

// MarshalText encodes the board as its rows, top first, joined by '/'.
func (b Board) MarshalText() ([]byte, error) {
	return []byte(b.format('/')), nil
}

func (b *Board) UnmarshalText(text []byte) error {
	parsed, err := ParseBoard(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBoard reads the layout produced by String or MarshalText. Rows are
// separated by newlines or '/', spaces are ignored, and the top row comes
// first. '.' is empty, 'X' the player and 'O' the system.
func ParseBoard(s string) (Board, error) {
	var b Board
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '/' })
	rows := make([]string, 0, Rows)
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), "")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) != Rows {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrMalformedBoard, Rows, len(rows))
	}
	for i, line := range rows {
		if len(line) != Cols {
			return b, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedBoard, i, len(line), Cols)
		}
		r := Rows - 1 - i
		for c := 0; c < Cols; c++ {
			switch line[c] {
			case emptyRune:
				b[r][c] = Empty
			case playerRune, 'x':
				b[r][c] = PlayerPiece
			case systemRune, 'o':
				b[r][c] = SystemPiece
			default:
				return b, fmt.Errorf("%w: unexpected %q at row %d col %d", ErrMalformedBoard, line[c], r, c)
			}
		}
	}
	if err := b.checkGravity(); err != nil {
		return b, err
	}
	return b, nil
}

func (b *Board) checkGravity() error {
	for c := 0; c < Cols; c++ {
		for r := 1; r < Rows; r++ {
			if b[r][c] != Empty && b[r-1][c] == Empty {
				return fmt.Errorf("%w: floating piece at row %d col %d", ErrMalformedBoard, r, c)
			}
		}
	}
	return nil
}

// MustParseBoard is ParseBoard for fixtures; it panics on error.
func MustParseBoard(s string) Board {
	b, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}
	return b
}
