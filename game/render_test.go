package game

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseBoard_RoundTrip(t *testing.T) {
	text := ".......\n.......\n.......\n...O...\n..XO...\nXXOX...\n"
	b, err := ParseBoard(text)
	if err != nil {
		t.Fatal(err)
	}
	if b[0][0] != PlayerPiece || b[0][2] != SystemPiece || b[2][3] != SystemPiece {
		t.Fatalf("cells parsed into wrong rows:\n%s", b)
	}
	if got := b.String(); got != text {
		t.Fatalf("String() = %q, want %q", got, text)
	}
}

func TestParseBoard_SlashAndSpaces(t *testing.T) {
	b, err := ParseBoard("./. . . . . . ./......./......./......./.......")
	if err == nil {
		t.Fatalf("expected error for short first row, got\n%s", b)
	}
	b, err = ParseBoard("......./......./......./......./......./X . . . . . O")
	if err != nil {
		t.Fatal(err)
	}
	if b[0][0] != PlayerPiece || b[0][6] != SystemPiece {
		t.Fatalf("unexpected board:\n%s", b)
	}
}

func TestParseBoard_Errors(t *testing.T) {
	cases := map[string]string{
		"too few rows": ".......\n.......",
		"bad rune":     "......./......./......./......./......./..Z....",
		"floating":     "......./......./......./......./...X.../.......",
		"wide row":     "......../......./......./......./......./.......",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseBoard(in); !errors.Is(err, ErrMalformedBoard) {
				t.Fatalf("expected ErrMalformedBoard, got %v", err)
			}
		})
	}
}

func TestBoard_JSON(t *testing.T) {
	b := NewBoard()
	b = b.Next(3, SystemPiece).Next(3, PlayerPiece)

	data, err := json.Marshal(struct {
		Board Board `json:"board"`
	}{b})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"board":"......./......./......./......./...X.../...O..."}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}

	var decoded struct {
		Board Board `json:"board"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Board != b {
		t.Fatalf("decoded board differs:\n%s", decoded.Board)
	}
}

func TestWindows_Count(t *testing.T) {
	counts := map[Orientation]int{}
	for _, w := range Windows {
		counts[w.Orientation]++
		for _, p := range w.Cells {
			if p.Row < 0 || p.Row >= Rows || p.Col < 0 || p.Col >= Cols {
				t.Fatalf("%s window out of bounds: %v", w.Orientation, w.Cells)
			}
		}
	}
	want := map[Orientation]int{Horizontal: 24, Vertical: 21, DiagonalUp: 12, DiagonalDown: 12}
	for o, n := range want {
		if counts[o] != n {
			t.Errorf("%s: got %d windows, want %d", o, counts[o], n)
		}
	}
	if len(Windows) != 69 {
		t.Errorf("total windows = %d", len(Windows))
	}
}
