// Command arena plays two move strategies against each other on a pool of
// workers and shows the running score.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/brensch/connect4/logging"
	"github.com/brensch/connect4/rules"
	"github.com/brensch/connect4/search"
	"github.com/brensch/connect4/selfplay"
	tea "github.com/charmbracelet/bubbletea"
)

type arenaDoneMsg struct {
	snap selfplay.TallySnapshot
	err  error
}

type TickMsg time.Time

type model struct {
	aName, bName string
	games        int
	tally        *selfplay.Tally
	snap         selfplay.TallySnapshot
	startTime    time.Time
	recentGames  []string
	updates      chan selfplay.ArenaResult
	done         bool
	err          error
}

func initialModel(aName, bName string, games int, tally *selfplay.Tally, updates chan selfplay.ArenaResult) model {
	return model{
		aName:     aName,
		bName:     bName,
		games:     games,
		tally:     tally,
		startTime: time.Now(),
		updates:   updates,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func waitForUpdate(updates chan selfplay.ArenaResult) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		m.snap = m.tally.Snapshot()
		return m, tickCmd()
	case selfplay.ArenaResult:
		m.recentGames = append([]string{describe(m.aName, m.bName, msg)}, m.recentGames...)
		if len(m.recentGames) > 10 {
			m.recentGames = m.recentGames[:10]
		}
		return m, waitForUpdate(m.updates)
	case arenaDoneMsg:
		m.snap = msg.snap
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec, pliesPerSec := 0.0, 0.0
	if duration.Seconds() >= 1 {
		gamesPerSec = float64(m.snap.Games) / duration.Seconds()
		pliesPerSec = float64(m.snap.Plies) / duration.Seconds()
	}

	s := fmt.Sprintf("A: %s   B: %s\n\n", m.aName, m.bName)
	s += fmt.Sprintf("Games:      %d / %d\n", m.snap.Games, m.games)
	s += fmt.Sprintf("A wins:     %d (%.1f%%)\n", m.snap.AWins, pct(m.snap.AWins, m.snap.Games))
	s += fmt.Sprintf("B wins:     %d (%.1f%%)\n", m.snap.BWins, pct(m.snap.BWins, m.snap.Games))
	s += fmt.Sprintf("Draws:      %d (%.1f%%)\n", m.snap.Draws, pct(m.snap.Draws, m.snap.Games))
	s += fmt.Sprintf("Errors:     %d\n", m.snap.Errors)
	s += fmt.Sprintf("Duration:   %s\n", duration.Round(time.Second))
	s += fmt.Sprintf("Games/Sec:  %.2f\n", gamesPerSec)
	s += fmt.Sprintf("Plies/Sec:  %.2f\n\n", pliesPerSec)

	s += "Recent Games:\n"
	for _, g := range m.recentGames {
		s += g + "\n"
	}

	if m.err != nil {
		s += fmt.Sprintf("\nStopped: %v\n", m.err)
	} else if m.done {
		s += "\nDone.\n"
	} else {
		s += "\nPress q to quit.\n"
	}
	return s
}

func pct(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func describe(aName, bName string, r selfplay.ArenaResult) string {
	first := bName
	if r.AFirst {
		first = aName
	}
	winner := "draw"
	switch r.Result.Outcome {
	case rules.SystemWins:
		winner = "A (" + aName + ")"
	case rules.PlayerWins:
		winner = "B (" + bName + ")"
	}
	return fmt.Sprintf("Game %d (worker %d, %s first): %s after %d plies in %s",
		r.Index, r.WorkerID, first, winner, r.Result.Plies(), r.Elapsed.Round(time.Millisecond))
}

func main() {
	aSpec := flag.String("a", "minimax:5", "Strategy A (plays system pieces): minimax, minimax:N or greedy")
	bSpec := flag.String("b", "greedy", "Strategy B (plays player pieces)")
	tieBreak := flag.String("tie-break", "random", "Tie break between equal columns: first, last or random")
	seed := flag.Int64("seed", 1, "Seed for openings and random tie breaks")
	games := flag.Int("games", 100, "Number of games to play")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of arena workers")
	openingPlies := flag.Int("opening-plies", 4, "Random plies played before the strategies take over")
	noTUI := flag.Bool("no-tui", false, "Log progress instead of showing the dashboard")
	trace := flag.Bool("trace", false, "Log every move at debug level")
	logFile := flag.String("log-file", "", "Write logs to this file (default: stderr without the dashboard, discarded with it)")
	logFormat := flag.String("log-format", logging.FormatText, "Log format: pretty, json or text")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	var logOut io.Writer = os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		logOut = f
	} else if !*noTUI {
		logOut = io.Discard
	}
	logger, err := logging.New(logOut, logging.Options{Format: *logFormat, Level: level})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	// A and B get different tie-break seeds so mirrored games do not replay.
	a, err := search.ParseStrategy(*aSpec, *tieBreak, *seed)
	if err != nil {
		log.Fatalf("strategy a: %v", err)
	}
	b, err := search.ParseStrategy(*bSpec, *tieBreak, *seed+1)
	if err != nil {
		log.Fatalf("strategy b: %v", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	arena := &selfplay.Arena{
		A:            a,
		B:            b,
		Games:        *games,
		Workers:      *workers,
		OpeningPlies: *openingPlies,
		Seed:         *seed,
		Trace:        *trace,
		Logger:       logger,
	}
	tally := &selfplay.Tally{}
	updates := make(chan selfplay.ArenaResult, *workers)
	onResult := func(r selfplay.ArenaResult) {
		// Avoid blocking workers if the UI loop stops consuming.
		select {
		case updates <- r:
		default:
		}
	}

	var p *tea.Program
	if !*noTUI {
		p = tea.NewProgram(initialModel(a.Name(), b.Name(), *games, tally, updates))
	}

	finished := make(chan arenaDoneMsg, 1)
	go func() {
		snap, err := arena.Run(ctx, tally, onResult)
		msg := arenaDoneMsg{snap: snap, err: err}
		finished <- msg
		if p != nil {
			p.Send(msg)
		}
	}()

	var final arenaDoneMsg
	if p == nil {
		final = logProgress(logger, tally, updates, finished, a.Name(), b.Name())
	} else {
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
		// Quit from the keyboard stops handing out games; wait for the ones in flight.
		cancel()
		final = <-finished
	}

	snap := final.snap
	fmt.Printf("%s vs %s: %d games, A %d, B %d, draws %d, errors %d\n",
		a.Name(), b.Name(), snap.Games, snap.AWins, snap.BWins, snap.Draws, snap.Errors)
	if final.err != nil && !errors.Is(final.err, context.Canceled) {
		log.Fatalf("arena: %v", final.err)
	}
}

// logProgress is the dashboard replacement for -no-tui.
func logProgress(logger *slog.Logger, tally *selfplay.Tally, updates chan selfplay.ArenaResult, finished chan arenaDoneMsg, aName, bName string) arenaDoneMsg {
	startTime := time.Now()
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg := <-finished:
			return msg
		case r := <-updates:
			logger.Info(describe(aName, bName, r))
		case <-ticker.C:
			snap := tally.Snapshot()
			secs := time.Since(startTime).Seconds()
			logger.Info("stats",
				slog.Int64("games", snap.Games),
				slog.Int64("a_wins", snap.AWins),
				slog.Int64("b_wins", snap.BWins),
				slog.Int64("draws", snap.Draws),
				slog.Float64("plies_per_sec", float64(snap.Plies)/secs),
			)
		}
	}
}
