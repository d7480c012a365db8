// Command c4server serves move recommendations over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brensch/connect4/logging"
	"github.com/brensch/connect4/search"
	"github.com/brensch/connect4/server"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	listen := fs.String("listen", ":8080", "HTTP listen address")
	strategy := fs.String("strategy", string(search.KindMinimax), "Default strategy: minimax or greedy")
	depth := fs.Int("depth", search.DefaultDepth, "Default minimax depth")
	maxDepth := fs.Int("max-depth", server.DefaultMaxDepth, "Largest depth a request may ask for")
	tieBreak := fs.String("tie-break", "first", "Tie break between equal columns: first, last or random")
	seed := fs.Int64("seed", 0, "Seed for random tie breaks (0 = time based)")
	logFormat := fs.String("log-format", logging.FormatPretty, "Log format: pretty, json or text")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn or error")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	logger, err := logging.New(os.Stderr, logging.Options{Format: *logFormat, Level: level})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	def := search.Config{
		Strategy: search.Kind(*strategy),
		Depth:    *depth,
		TieBreak: *tieBreak,
		Seed:     *seed,
	}
	if _, err := def.Build(); err != nil {
		log.Fatalf("default strategy: %v", err)
	}

	s := server.New(server.Options{Default: def, MaxDepth: *maxDepth, Logger: logger})
	srv := &http.Server{
		Addr:              *listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", slog.Any("err", err))
		}
	}()

	logger.Info("connect4 server listening",
		slog.String("addr", *listen),
		slog.String("strategy", *strategy),
		slog.Int("depth", *depth),
		slog.Int("max_depth", *maxDepth),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	logger.Info("server stopped")
}
