// Package logging builds the slog loggers used by the servers and CLIs.
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatText   = "text"
)

type Options struct {
	// Format is one of FormatPretty, FormatJSON or FormatText. Empty means pretty.
	Format    string
	Level     slog.Leveler
	AddSource bool
}

// New returns a logger writing to w in the requested format.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	hopts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}
	switch strings.ToLower(opts.Format) {
	case "", FormatPretty:
		return slog.New(NewPrettyJSONHandler(w, hopts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}

// ParseLevel accepts debug, info, warn/warning and error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// PrettyJSONHandler prints every record as an indented JSON object. Records
// are encoded by slog's own JSON handler and re-indented, so attribute and
// group handling match FormatJSON exactly.
//
// Not built for throughput; meant for a terminal.
type PrettyJSONHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	buf   *bytes.Buffer
	inner slog.Handler
}

func NewPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	buf := &bytes.Buffer{}
	return &PrettyJSONHandler{
		mu:    &sync.Mutex{},
		w:     w,
		buf:   buf,
		inner: slog.NewJSONHandler(buf, opts),
	}
}

func (h *PrettyJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *PrettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(h.buf.Bytes()), "", "  "); err != nil {
		// Fall back to the compact line rather than dropping the record.
		_, err = h.w.Write(h.buf.Bytes())
		return err
	}
	out.WriteByte('\n')
	_, err := h.w.Write(out.Bytes())
	return err
}

func (h *PrettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

func (h *PrettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}
