package selfplay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/brensch/connect4/search"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestArena_Run(t *testing.T) {
	arena := &Arena{
		A:            search.Minimax{Depth: 2},
		B:            search.Greedy{},
		Games:        6,
		Workers:      3,
		OpeningPlies: 4,
		Seed:         11,
		Logger:       quietLogger(),
	}

	var mu sync.Mutex
	indices := map[int]bool{}
	snap, err := arena.Run(context.Background(), nil, func(r ArenaResult) {
		mu.Lock()
		defer mu.Unlock()
		indices[r.Index] = true
		if r.AFirst != (r.Index%2 == 0) {
			t.Errorf("game %d: AFirst=%v", r.Index, r.AFirst)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Games != 6 || len(indices) != 6 {
		t.Fatalf("played %d games, callbacks for %d", snap.Games, len(indices))
	}
	if snap.AWins+snap.BWins+snap.Draws != snap.Games {
		t.Fatalf("tally does not add up: %+v", snap)
	}
	if snap.Plies == 0 || snap.Errors != 0 {
		t.Fatalf("unexpected tally %+v", snap)
	}
	t.Logf("tally: %+v", snap)

	// Same seed and deterministic tie breaks give the same tally.
	again, err := arena.Run(context.Background(), &Tally{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again != snap {
		t.Fatalf("rerun differs: %+v vs %+v", again, snap)
	}
}

func TestArena_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	arena := &Arena{
		A:       search.Greedy{},
		B:       search.Greedy{},
		Games:   100,
		Workers: 2,
		Logger:  quietLogger(),
	}
	snap, err := arena.Run(ctx, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if snap.Games >= 100 {
		t.Fatalf("cancelled arena played every game")
	}
}

func TestArena_NeedsStrategies(t *testing.T) {
	if _, err := (&Arena{Games: 1}).Run(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error without strategies")
	}
}
