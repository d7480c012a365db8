package selfplay

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brensch/connect4/game"
	"github.com/brensch/connect4/search"
)

// Arena plays strategy A against strategy B over many games on a pool of
// workers. A always holds SystemPiece and B PlayerPiece; the side that moves
// first alternates from game to game, and each consecutive pair of games
// shares one random opening so neither side gets the better start.
type Arena struct {
	A search.MoveStrategy
	B search.MoveStrategy

	Games   int
	Workers int
	// OpeningPlies random moves are played before the strategies take over.
	OpeningPlies int
	Seed         int64
	Trace        bool
	Logger       *slog.Logger
}

// ArenaResult is one finished arena game.
type ArenaResult struct {
	Index    int
	WorkerID int
	AFirst   bool
	Result   GameResult
	Elapsed  time.Duration
}

// Tally counts arena outcomes. Fields are updated atomically while the arena
// runs; use Snapshot to read them.
type Tally struct {
	Games  atomic.Int64
	AWins  atomic.Int64
	BWins  atomic.Int64
	Draws  atomic.Int64
	Plies  atomic.Int64
	Errors atomic.Int64
}

type TallySnapshot struct {
	Games  int64
	AWins  int64
	BWins  int64
	Draws  int64
	Plies  int64
	Errors int64
}

func (t *Tally) Snapshot() TallySnapshot {
	return TallySnapshot{
		Games:  t.Games.Load(),
		AWins:  t.AWins.Load(),
		BWins:  t.BWins.Load(),
		Draws:  t.Draws.Load(),
		Plies:  t.Plies.Load(),
		Errors: t.Errors.Load(),
	}
}

func (t *Tally) record(res GameResult) {
	t.Games.Add(1)
	t.Plies.Add(int64(res.Plies()))
	switch res.Winner {
	case game.SystemPiece:
		t.AWins.Add(1)
	case game.PlayerPiece:
		t.BWins.Add(1)
	default:
		t.Draws.Add(1)
	}
}

type arenaTask struct {
	index int
}

// Run plays all games and returns the final tally. onResult, if set, is
// called from worker goroutines for each finished game and must be safe for
// concurrent use. Run stops handing out games once ctx is done.
func (a *Arena) Run(ctx context.Context, tally *Tally, onResult func(ArenaResult)) (TallySnapshot, error) {
	if a.A == nil || a.B == nil {
		return TallySnapshot{}, fmt.Errorf("arena needs two strategies")
	}
	if tally == nil {
		tally = &Tally{}
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := a.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if a.Games > 0 && workers > a.Games {
		workers = a.Games
	}

	tasks := make(chan arenaTask)
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for task := range tasks {
				start := time.Now()
				res, aFirst, err := a.playOne(ctx, task.index, logger)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					tally.Errors.Add(1)
					errOnce.Do(func() { firstErr = err })
					logger.Error("arena game failed", slog.Int("game", task.index), slog.Any("err", err))
					continue
				}
				tally.record(res)
				if onResult != nil {
					onResult(ArenaResult{
						Index:    task.index,
						WorkerID: workerID,
						AFirst:   aFirst,
						Result:   res,
						Elapsed:  time.Since(start),
					})
				}
			}
		}(w)
	}

	logger.Info("arena started",
		slog.String("a", a.A.Name()),
		slog.String("b", a.B.Name()),
		slog.Int("games", a.Games),
		slog.Int("workers", workers),
	)

feed:
	for i := 0; i < a.Games; i++ {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- arenaTask{index: i}:
		}
	}
	close(tasks)
	wg.Wait()

	snap := tally.Snapshot()
	logger.Info("arena finished",
		slog.Int64("games", snap.Games),
		slog.Int64("a_wins", snap.AWins),
		slog.Int64("b_wins", snap.BWins),
		slog.Int64("draws", snap.Draws),
	)
	if err := ctx.Err(); err != nil {
		return snap, err
	}
	return snap, firstErr
}

func (a *Arena) playOne(ctx context.Context, index int, logger *slog.Logger) (GameResult, bool, error) {
	aFirst := index%2 == 0
	first := game.PlayerPiece
	if aFirst {
		first = game.SystemPiece
	}

	var opening game.Board
	toMove := first
	if a.OpeningPlies > 0 {
		rng := rand.New(rand.NewSource(a.Seed + int64(index/2)))
		opening, toMove = RandomOpening(rng, a.OpeningPlies, first)
	}

	res, err := PlayGame(ctx, Players{System: a.A, Player: a.B}, PlayOptions{
		GameID:     fmt.Sprintf("arena_%d", index),
		Opening:    opening,
		FirstPiece: toMove,
		Trace:      a.Trace,
		Logger:     logger,
	})
	return res, aFirst, err
}
