// Package server exposes the move search over HTTP and WebSocket.
//
// The server keeps no game state: every request carries the full board and
// the piece to move, and gets back the recommended column.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/brensch/connect4/game"
	"github.com/brensch/connect4/rules"
	"github.com/brensch/connect4/search"
)

// DefaultMaxDepth bounds the search depth a client may request.
const DefaultMaxDepth = 8

// MoveRequest asks for a move for Piece on Board. Board uses the
// game.ParseBoard format; Piece is "system" or "player" and defaults to
// "system". Zero Config fields fall back to the server default.
type MoveRequest struct {
	Board  string         `json:"board"`
	Piece  string         `json:"piece,omitempty"`
	Config *search.Config `json:"config,omitempty"`
}

type MoveResponse struct {
	Column    int     `json:"column"`
	Row       int     `json:"row"`
	Value     int64   `json:"value"`
	Strategy  string  `json:"strategy"`
	Outcome   string  `json:"outcome"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type InfoResponse struct {
	Name     string        `json:"name"`
	Rows     int           `json:"rows"`
	Cols     int           `json:"cols"`
	Default  search.Config `json:"default"`
	MaxDepth int           `json:"max_depth"`
	Requests int64         `json:"requests"`
	Uptime   string        `json:"uptime"`
}

// badRequest marks errors caused by the request body itself.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

type Options struct {
	Default  search.Config
	MaxDepth int
	Logger   *slog.Logger
}

type Server struct {
	def      search.Config
	maxDepth int
	logger   *slog.Logger
	started  time.Time
	requests atomic.Int64
}

func New(opts Options) *Server {
	def := opts.Default.Merge(search.DefaultConfig())
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		def:      def,
		maxDepth: maxDepth,
		logger:   logger,
		started:  time.Now(),
	}
}

// Handler returns the routes:
//
//	GET  /         server info
//	GET  /healthz  liveness
//	POST /move     one MoveRequest, one MoveResponse
//	GET  /ws       websocket; each text message is a MoveRequest
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /move", s.handleMove)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:     "connect4",
		Rows:     game.Rows,
		Cols:     game.Cols,
		Default:  s.def,
		MaxDepth: s.maxDepth,
		Requests: s.requests.Load(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	resp, err := s.Recommend(req)
	if err != nil {
		s.logger.Warn("move rejected", slog.String("board", req.Board), slog.Any("err", err))
		writeJSON(w, StatusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Recommend runs the configured strategy on the request's board.
func (s *Server) Recommend(req MoveRequest) (MoveResponse, error) {
	start := time.Now()
	s.requests.Add(1)

	b, err := game.ParseBoard(req.Board)
	if err != nil {
		return MoveResponse{}, badRequest{err}
	}
	piece := game.SystemPiece
	if req.Piece != "" {
		piece, err = game.ParseCell(req.Piece)
		if err != nil {
			return MoveResponse{}, badRequest{err}
		}
		if !piece.IsPiece() {
			return MoveResponse{}, badRequest{fmt.Errorf("%w: %s", game.ErrInvalidPiece, piece)}
		}
	}

	cfg := s.def
	if req.Config != nil {
		cfg = req.Config.Merge(s.def)
	}
	if cfg.Depth > s.maxDepth {
		s.logger.Debug("depth capped", slog.Int("requested", cfg.Depth), slog.Int("max", s.maxDepth))
		cfg.Depth = s.maxDepth
	}
	strategy, err := cfg.Build()
	if err != nil {
		return MoveResponse{}, badRequest{err}
	}

	choice, err := strategy.Choose(b, piece)
	if err != nil {
		return MoveResponse{}, err
	}
	row, err := b.Drop(choice.Column, piece)
	if err != nil {
		return MoveResponse{}, fmt.Errorf("strategy %s chose column %d: %w", strategy.Name(), choice.Column, err)
	}

	elapsed := time.Since(start)
	s.logger.Info("move",
		slog.String("strategy", strategy.Name()),
		slog.String("piece", piece.String()),
		slog.Int("column", choice.Column),
		slog.Int64("value", choice.Value),
		slog.Duration("elapsed", elapsed),
	)
	return MoveResponse{
		Column:    choice.Column,
		Row:       row,
		Value:     choice.Value,
		Strategy:  strategy.Name(),
		Outcome:   rules.Result(&b).String(),
		ElapsedMs: float64(elapsed.Microseconds()) / 1000,
	}, nil
}

// StatusFor maps a Recommend error to an HTTP status.
func StatusFor(err error) int {
	var br badRequest
	switch {
	case errors.Is(err, search.ErrNoLegalMoves), errors.Is(err, search.ErrGameOver):
		return http.StatusConflict
	case errors.As(err, &br),
		errors.Is(err, search.ErrDepthNonPositive),
		errors.Is(err, search.ErrUnknownStrategy),
		errors.Is(err, search.ErrUnknownTieBreak):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
