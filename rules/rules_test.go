package rules

import (
	"testing"

	"github.com/brensch/connect4/game"
)

func logBoard(t *testing.T, name string, b game.Board) {
	t.Helper()
	t.Logf("=== %s ===\n%s", name, b)
}

func TestHasFour_Orientations(t *testing.T) {
	cases := []struct {
		name  string
		board string
		piece game.Cell
		want  bool
	}{
		{
			name:  "horizontal right edge",
			piece: game.PlayerPiece,
			want:  true,
			board: `
.......
.......
.......
.......
.......
OOOXXXX`,
		},
		{
			name:  "horizontal three",
			piece: game.PlayerPiece,
			want:  false,
			board: `
.......
.......
.......
.......
.......
OO.XXXO`,
		},
		{
			name:  "horizontal top row",
			piece: game.SystemPiece,
			want:  true,
			board: `
OOOOX..
XXXOO..
OOOXX..
XXXOO..
OOOXX..
XXXOO..`,
		},
		{
			name:  "vertical top of column",
			piece: game.SystemPiece,
			want:  true,
			board: `
......O
......O
......O
......O
......X
......X`,
		},
		{
			name:  "vertical three",
			piece: game.SystemPiece,
			want:  false,
			board: `
.......
......X
......O
......O
......O
......X`,
		},
		{
			name:  "rising diagonal",
			piece: game.PlayerPiece,
			want:  true,
			board: `
.......
.......
...X...
..XO...
.XOO...
XOOX...`,
		},
		{
			name:  "rising diagonal three",
			piece: game.PlayerPiece,
			want:  false,
			board: `
.......
.......
...O...
..XO...
.XOO...
XOOX...`,
		},
		{
			name:  "rising diagonal top right corner",
			piece: game.SystemPiece,
			want:  true,
			board: `
...XXXO
...OXOX
...XOXO
...OXOX
...XXOX
...OOXO`,
		},
		{
			name:  "falling diagonal",
			piece: game.SystemPiece,
			want:  true,
			board: `
.......
.......
...O...
...XO..
...XXO.
...XXXO`,
		},
		{
			name:  "falling diagonal three",
			piece: game.SystemPiece,
			want:  false,
			board: `
.......
.......
...X...
...XO..
...XXO.
...XXXO`,
		},
		{
			name:  "falling diagonal from top left",
			piece: game.PlayerPiece,
			want:  true,
			board: `
X......
OX.....
XOX....
OXOX...
XOOO...
OXXO...`,
		},
		{
			name:  "empty board",
			piece: game.PlayerPiece,
			want:  false,
			board: `
.......
.......
.......
.......
.......
.......`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := game.MustParseBoard(tc.board)
			if got := HasFour(&b, tc.piece); got != tc.want {
				logBoard(t, tc.name, b)
				t.Fatalf("HasFour(%s) = %v, want %v", tc.piece, got, tc.want)
			}
		})
	}
}

func TestHasFour_EmptyNeverWins(t *testing.T) {
	b := game.NewBoard()
	if HasFour(&b, game.Empty) {
		t.Fatalf("empty cells counted as four in a row")
	}
}

func TestHasFour_CompletingRow(t *testing.T) {
	b := game.NewBoard()
	for c := 0; c < 3; c++ {
		if err := b.Place(0, c, game.PlayerPiece); err != nil {
			t.Fatal(err)
		}
	}
	if HasFour(&b, game.PlayerPiece) {
		t.Fatalf("three in a row reported as four")
	}
	if err := b.Place(0, 3, game.PlayerPiece); err != nil {
		t.Fatal(err)
	}
	if !HasFour(&b, game.PlayerPiece) {
		logBoard(t, "after completing row", b)
		t.Fatalf("four in a row not detected")
	}
	if HasFour(&b, game.SystemPiece) {
		t.Fatalf("system credited with player's row")
	}
}

func TestIsTerminal(t *testing.T) {
	open := game.MustParseBoard(`
.......
.......
.......
.......
.......
XXXO...`)
	if IsTerminal(&open) {
		t.Fatalf("open board reported terminal")
	}
	if Result(&open) != Ongoing {
		t.Fatalf("Result = %s", Result(&open))
	}

	// Full board with no four in a row: a draw.
	draw := game.MustParseBoard(`
XXOXXOX
OOXOOXO
XXOXXOX
OOXOOXO
XXOXXOX
OOXOOXO`)
	if HasFour(&draw, game.PlayerPiece) || HasFour(&draw, game.SystemPiece) {
		logBoard(t, "draw", draw)
		t.Fatalf("draw fixture has a winner")
	}
	if !IsTerminal(&draw) {
		t.Fatalf("full board not terminal")
	}
	if Result(&draw) != Draw {
		t.Fatalf("Result = %s, want draw", Result(&draw))
	}

	won := game.MustParseBoard(`
.......
.......
O......
O......
O..X...
OXXX...`)
	if !IsTerminal(&won) {
		t.Fatalf("won board not terminal")
	}
	if w, ok := Winner(&won); !ok || w != game.SystemPiece {
		t.Fatalf("Winner = %s, %v", w, ok)
	}
	if Result(&won) != SystemWins {
		t.Fatalf("Result = %s", Result(&won))
	}
}

func TestWinningColumns(t *testing.T) {
	b := game.MustParseBoard(`
.......
.......
.......
.......
......O
XXX...O`)
	got := WinningColumns(&b, game.PlayerPiece)
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("WinningColumns(player) = %v, want [3]", got)
	}
	if got := WinningColumns(&b, game.SystemPiece); len(got) != 0 {
		t.Fatalf("WinningColumns(system) = %v, want none", got)
	}
}

// Exhaustively compare HasFour against the window table on random boards.
func TestHasFour_MatchesWindowScan(t *testing.T) {
	seed := uint64(0x5eed)
	next := func() uint64 {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return seed
	}
	for i := 0; i < 500; i++ {
		b := game.NewBoard()
		piece := game.PlayerPiece
		plies := int(next() % 30)
		for p := 0; p < plies; p++ {
			cols := b.LegalColumns()
			b = b.Next(cols[next()%uint64(len(cols))], piece)
			piece = piece.Opponent()
		}
		for _, pc := range []game.Cell{game.PlayerPiece, game.SystemPiece} {
			want := false
			for _, w := range game.Windows {
				cells := b.Window(w)
				if cells[0] == pc && cells[1] == pc && cells[2] == pc && cells[3] == pc {
					want = true
					break
				}
			}
			if got := HasFour(&b, pc); got != want {
				logBoard(t, "mismatch", b)
				t.Fatalf("HasFour(%s) = %v, window scan = %v", pc, got, want)
			}
		}
	}
}
