package search

import (
	"errors"
	"math"
	"testing"

	"github.com/brensch/connect4/eval"
	"github.com/brensch/connect4/game"
)

func TestGreedyMove(t *testing.T) {
	// Dropping at 3 completes the player's row.
	b := game.MustParseBoard(`
.......
.......
.......
.......
.......
XXX.OO.`)
	res, err := GreedyMove(b, game.PlayerPiece, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Column != 3 {
		t.Fatalf("greedy chose %d (value %d), want 3", res.Column, res.Value)
	}

	for _, c := range b.LegalColumns() {
		next := b.Next(c, game.PlayerPiece)
		if v := int64(eval.ScorePosition(&next, game.PlayerPiece)); v > res.Value {
			t.Fatalf("column %d scores %d, above chosen %d", c, v, res.Value)
		}
	}

	col, err := BestMoveGreedy(b, game.PlayerPiece)
	if err != nil || col != 3 {
		t.Fatalf("BestMoveGreedy = %d, %v", col, err)
	}
}

func TestGreedyMove_Ties(t *testing.T) {
	b := game.NewBoard()
	first, _ := GreedyMove(b, game.SystemPiece, FirstTie{})
	last, _ := GreedyMove(b, game.SystemPiece, LastTie{})
	if first.Column != 0 || last.Column != game.Cols-1 {
		t.Fatalf("first=%d last=%d", first.Column, last.Column)
	}
}

// Depth-one minimax and greedy agree whenever no single drop wins, since
// both score the board right after the drop.
func TestGreedyMatchesDepthOneMinimax(t *testing.T) {
	b := game.MustParseBoard(`
.......
.......
.......
...X...
..OO...
.XXO.X.`)
	greedy, err := GreedyMove(b, game.SystemPiece, nil)
	if err != nil {
		t.Fatal(err)
	}
	minimax, err := NewSearcher(game.SystemPiece).ChooseMove(b, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if greedy != minimax {
		t.Fatalf("greedy %+v, minimax depth 1 %+v", greedy, minimax)
	}
}

func TestTieBreakers(t *testing.T) {
	cols := []int{1, 4, 6}
	if got := (FirstTie{}).Pick(cols); got != 1 {
		t.Fatalf("first = %d", got)
	}
	if got := (LastTie{}).Pick(cols); got != 6 {
		t.Fatalf("last = %d", got)
	}

	a, c := NewRandomTie(5), NewRandomTie(5)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		x, y := a.Pick(cols), c.Pick(cols)
		if x != y {
			t.Fatalf("same seed diverged at %d: %d vs %d", i, x, y)
		}
		seen[x] = true
	}
	if len(seen) != len(cols) {
		t.Fatalf("random tie never picked some columns: %v", seen)
	}
	if got := a.Pick([]int{3}); got != 3 {
		t.Fatalf("single candidate = %d", got)
	}
}

func TestParseTieBreak(t *testing.T) {
	for _, name := range []string{"", "first", "last", "random"} {
		if _, err := ParseTieBreak(name, 1); err != nil {
			t.Errorf("%q: %v", name, err)
		}
	}
	if _, err := ParseTieBreak("coin", 1); !errors.Is(err, ErrUnknownTieBreak) {
		t.Fatalf("expected ErrUnknownTieBreak, got %v", err)
	}
}

func TestConfigBuild(t *testing.T) {
	s, err := DefaultConfig().Build()
	if err != nil {
		t.Fatal(err)
	}
	m, ok := s.(Minimax)
	if !ok || m.Depth != DefaultDepth {
		t.Fatalf("default strategy = %#v", s)
	}
	if s.Name() != "minimax/5" {
		t.Fatalf("name = %q", s.Name())
	}

	g, err := Config{Strategy: KindGreedy}.Merge(DefaultConfig()).Build()
	if err != nil {
		t.Fatal(err)
	}
	if g.Name() != "greedy" {
		t.Fatalf("name = %q", g.Name())
	}

	if _, err := (Config{Strategy: KindMinimax, Depth: -1}).Build(); !errors.Is(err, ErrDepthNonPositive) {
		t.Fatalf("negative depth: %v", err)
	}
	if _, err := (Config{Strategy: "mcts", Depth: 3}).Build(); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("unknown strategy: %v", err)
	}
	if _, err := (Config{Strategy: KindGreedy, TieBreak: "coin"}).Build(); !errors.Is(err, ErrUnknownTieBreak) {
		t.Fatalf("unknown tie break: %v", err)
	}
}

func TestConfigMerge(t *testing.T) {
	got := Config{Depth: 3}.Merge(Config{Strategy: KindGreedy, Depth: 7, TieBreak: "last", Seed: 4})
	want := Config{Strategy: KindGreedy, Depth: 3, TieBreak: "last", Seed: 4}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in      string
		name    string
		wantErr error
	}{
		{in: "minimax", name: "minimax/5"},
		{in: "minimax:2", name: "minimax/2"},
		{in: "greedy", name: "greedy"},
		{in: "minimax:0", wantErr: ErrDepthNonPositive},
		{in: "random", wantErr: ErrUnknownStrategy},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			s, err := ParseStrategy(tc.in, "first", 0)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s.Name() != tc.name {
				t.Fatalf("name = %q, want %q", s.Name(), tc.name)
			}
		})
	}
	if _, err := ParseStrategy("minimax:x", "first", 0); err == nil {
		t.Fatalf("expected error for bad depth")
	}
}

func TestStrategies_ChooseLegalColumns(t *testing.T) {
	b := game.MustParseBoard(`
X......
O......
X......
O......
X......
O......`)
	for _, s := range []MoveStrategy{Minimax{Depth: 3}, Greedy{}} {
		res, err := s.Choose(b, game.SystemPiece)
		if err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
		if !b.IsValidColumn(res.Column) {
			t.Fatalf("%s chose full column %d", s.Name(), res.Column)
		}
		if res.Value == math.MinInt64 {
			t.Fatalf("%s returned no value", s.Name())
		}
	}
}
