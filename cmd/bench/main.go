// Command bench measures what alpha-beta pruning saves.
//
// It searches random positions at several depths twice, once pruned and once
// expanding every node, checks that both searches agree, and writes one row
// per search to a parquet file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/brensch/connect4/game"
	"github.com/brensch/connect4/logging"
	"github.com/brensch/connect4/search"
	"github.com/brensch/connect4/selfplay"
	"github.com/brensch/connect4/store"
)

func main() {
	positions := flag.Int("positions", 50, "Number of random positions to search")
	depthList := flag.String("depths", "1,2,3,4,5,6", "Comma separated search depths")
	minPlies := flag.Int("min-plies", 0, "Fewest random plies in a position")
	maxPlies := flag.Int("max-plies", 16, "Most random plies in a position")
	seed := flag.Int64("seed", 1, "Position generator seed")
	outDir := flag.String("out-dir", "data/bench", "Output directory for bench parquet files")
	summarize := flag.String("summarize", "", "Print the summary of an existing bench parquet file and exit")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	logger, err := logging.New(os.Stderr, logging.Options{Format: logging.FormatText, Level: level})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	if *summarize != "" {
		rows, err := store.ReadBenchParquet(*summarize)
		if err != nil {
			log.Fatalf("read %s: %v", *summarize, err)
		}
		printSummary(rows)
		return
	}

	depths, err := parseDepths(*depthList)
	if err != nil {
		log.Fatalf("depths: %v", err)
	}
	if *maxPlies < *minPlies {
		log.Fatalf("max-plies %d < min-plies %d", *maxPlies, *minPlies)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := store.NewBenchWriter(*outDir)
	if err != nil {
		log.Fatalf("bench writer: %v", err)
	}

	runID := fmt.Sprintf("bench_%d", time.Now().Unix())
	rng := rand.New(rand.NewSource(*seed))
	var all []store.BenchRow
	disagreements := 0

	for i := 0; i < *positions; i++ {
		if ctx.Err() != nil {
			logger.Warn("interrupted", slog.Int("positions_done", i))
			break
		}
		plies := *minPlies + rng.Intn(*maxPlies-*minPlies+1)
		b, toMove := selfplay.RandomOpening(rng, plies, game.PlayerPiece)

		rows := benchPosition(runID, b, toMove, depths)
		for _, r := range rows {
			if !r.Agree {
				disagreements++
				logger.Error("pruned and full search disagree",
					slog.String("position", r.Position),
					slog.Int("depth", int(r.Depth)),
				)
			}
		}
		if err := w.WriteRows(rows); err != nil {
			log.Fatalf("write rows: %v", err)
		}
		all = append(all, rows...)
		logger.Debug("position done", slog.Int("index", i), slog.Any("board", b))
	}

	outPath, n, err := w.Finalize()
	if err != nil {
		log.Fatalf("finalize: %v", err)
	}
	logger.Info("bench written", slog.String("path", outPath), slog.Int("rows", n), slog.Int("disagreements", disagreements))
	printSummary(all)
	if disagreements > 0 {
		os.Exit(1)
	}
}

func parseDepths(s string) ([]int, error) {
	var depths []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad depth %q: %w", part, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: %d", search.ErrDepthNonPositive, d)
		}
		depths = append(depths, d)
	}
	if len(depths) == 0 {
		return nil, fmt.Errorf("no depths given")
	}
	return depths, nil
}

// benchPosition searches b at every depth with and without pruning.
func benchPosition(runID string, b game.Board, toMove game.Cell, depths []int) []store.BenchRow {
	pos, _ := b.MarshalText()
	rows := make([]store.BenchRow, 0, 2*len(depths))
	for _, d := range depths {
		pruned := search.NewSearcher(toMove)
		start := time.Now()
		pr, perr := pruned.ChooseMove(b, d, nil)
		prunedTime := time.Since(start)

		full := &search.Searcher{Me: toMove}
		start = time.Now()
		fr, ferr := full.ChooseMove(b, d, nil)
		fullTime := time.Since(start)

		agree := pr == fr && (perr == nil) == (ferr == nil)
		base := store.BenchRow{
			RunID:    runID,
			Position: string(pos),
			Piece:    toMove.String(),
			Depth:    int32(d),
			Agree:    agree,
		}

		p := base
		p.Pruned = true
		p.Column = int32(pr.Column)
		p.Value = pr.Value
		p.Nodes = pruned.Nodes
		p.ElapsedMicros = prunedTime.Microseconds()

		f := base
		f.Column = int32(fr.Column)
		f.Value = fr.Value
		f.Nodes = full.Nodes
		f.ElapsedMicros = fullTime.Microseconds()

		rows = append(rows, p, f)
	}
	return rows
}

type depthStats struct {
	searches    int
	prunedNodes int64
	fullNodes   int64
	prunedMicro int64
	fullMicro   int64
	disagree    int
}

func printSummary(rows []store.BenchRow) {
	byDepth := map[int32]*depthStats{}
	for _, r := range rows {
		st := byDepth[r.Depth]
		if st == nil {
			st = &depthStats{}
			byDepth[r.Depth] = st
		}
		if r.Pruned {
			st.searches++
			st.prunedNodes += r.Nodes
			st.prunedMicro += r.ElapsedMicros
			if !r.Agree {
				st.disagree++
			}
		} else {
			st.fullNodes += r.Nodes
			st.fullMicro += r.ElapsedMicros
		}
	}

	depths := make([]int, 0, len(byDepth))
	for d := range byDepth {
		depths = append(depths, int(d))
	}
	sort.Ints(depths)

	fmt.Printf("%5s %9s %14s %14s %8s %12s %12s %9s\n",
		"depth", "positions", "pruned nodes", "full nodes", "ratio", "pruned ms", "full ms", "disagree")
	for _, d := range depths {
		st := byDepth[int32(d)]
		if st.searches == 0 {
			continue
		}
		n := float64(st.searches)
		ratio := 0.0
		if st.fullNodes > 0 {
			ratio = float64(st.prunedNodes) / float64(st.fullNodes)
		}
		fmt.Printf("%5d %9d %14.1f %14.1f %8.3f %12.3f %12.3f %9d\n",
			d, st.searches,
			float64(st.prunedNodes)/n, float64(st.fullNodes)/n, ratio,
			float64(st.prunedMicro)/n/1000, float64(st.fullMicro)/n/1000,
			st.disagree)
	}
}
