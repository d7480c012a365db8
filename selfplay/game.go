// Package selfplay plays complete games between two move strategies.
//
// It is the turn loop that sits around the search: ask the side to move for
// a column, apply it with the validating Drop, and stop once the position is
// terminal. Nothing is persisted; results live only in memory.
package selfplay

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/brensch/connect4/game"
	"github.com/brensch/connect4/rules"
	"github.com/brensch/connect4/search"
)

// Players maps each piece to the strategy that moves it.
type Players struct {
	System search.MoveStrategy
	Player search.MoveStrategy
}

func (p Players) For(piece game.Cell) search.MoveStrategy {
	if piece == game.SystemPiece {
		return p.System
	}
	return p.Player
}

// GameResult is the outcome of one finished game.
type GameResult struct {
	GameID  string
	Outcome rules.Outcome
	// Winner is Empty for a draw.
	Winner     game.Cell
	FirstPiece game.Cell
	Opening    game.Board
	Moves      []int
	Final      game.Board
}

// Plies is the number of moves played after the opening.
func (r GameResult) Plies() int { return len(r.Moves) }

type PlayOptions struct {
	GameID string
	// Opening is the starting position. The zero board is an empty start.
	Opening game.Board
	// FirstPiece moves first from Opening. Zero means PlayerPiece.
	FirstPiece game.Cell
	// OnMove is called after every applied move.
	OnMove func(piece game.Cell, col int, b game.Board)
	// Trace logs each position at debug level.
	Trace  bool
	Logger *slog.Logger
}

// PlayGame alternates the two strategies until the game ends. It checks ctx
// between moves; a cancelled game returns ctx.Err() and the partial result.
func PlayGame(ctx context.Context, players Players, opts PlayOptions) (GameResult, error) {
	if players.System == nil || players.Player == nil {
		return GameResult{}, fmt.Errorf("both players need a strategy")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	turn := opts.FirstPiece
	if !turn.IsPiece() {
		turn = game.PlayerPiece
	}

	b := opts.Opening
	res := GameResult{
		GameID:     opts.GameID,
		FirstPiece: turn,
		Opening:    opts.Opening,
		Moves:      make([]int, 0, game.Rows*game.Cols),
	}

	for !rules.IsTerminal(&b) {
		if ctx != nil {
			select {
			case <-ctx.Done():
				res.Final = b
				return res, ctx.Err()
			default:
			}
		}

		strategy := players.For(turn)
		choice, err := strategy.Choose(b, turn)
		if err != nil {
			res.Final = b
			return res, fmt.Errorf("%s (%s) on ply %d: %w", strategy.Name(), turn, len(res.Moves), err)
		}
		if _, err := b.Drop(choice.Column, turn); err != nil {
			res.Final = b
			return res, fmt.Errorf("%s (%s) played column %d: %w", strategy.Name(), turn, choice.Column, err)
		}
		res.Moves = append(res.Moves, choice.Column)

		if opts.Trace {
			logger.Debug("move",
				slog.String("game_id", opts.GameID),
				slog.String("piece", turn.String()),
				slog.String("strategy", strategy.Name()),
				slog.Int("column", choice.Column),
				slog.Int64("value", choice.Value),
				slog.Any("board", b),
			)
		}
		if opts.OnMove != nil {
			opts.OnMove(turn, choice.Column, b)
		}
		turn = turn.Opponent()
	}

	res.Final = b
	res.Outcome = rules.Result(&b)
	res.Winner, _ = rules.Winner(&b)
	return res, nil
}

// RandomOpening plays up to plies random legal moves starting with first,
// skipping any move that would end the game. It returns the board and the
// piece to move next.
func RandomOpening(rng *rand.Rand, plies int, first game.Cell) (game.Board, game.Cell) {
	b := game.NewBoard()
	turn := first
	if !turn.IsPiece() {
		turn = game.PlayerPiece
	}
	for i := 0; i < plies; i++ {
		cols := b.LegalColumns()
		rng.Shuffle(len(cols), func(i, j int) { cols[i], cols[j] = cols[j], cols[i] })
		placed := false
		for _, c := range cols {
			next := b.Next(c, turn)
			if rules.IsTerminal(&next) {
				continue
			}
			b = next
			placed = true
			break
		}
		if !placed {
			break
		}
		turn = turn.Opponent()
	}
	return b, turn
}
