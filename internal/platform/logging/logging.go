package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File enables rotated file output in addition to stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// OnRecord observes every emitted record's level. Optional.
	OnRecord func(level string)
}

func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q is not supported", raw)
	}
	return level, nil
}

// New builds the JSON logger. The returned closer releases the log file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 100),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotating)
		closer = rotating
	}

	var handler slog.Handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	if opts.OnRecord != nil {
		handler = countingHandler{Handler: handler, observe: opts.OnRecord}
	}
	return slog.New(handler), closer, nil
}

// countingHandler reports the level of each record it lets through.
type countingHandler struct {
	slog.Handler
	observe func(level string)
}

func (h countingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.observe(r.Level.String())
	return h.Handler.Handle(ctx, r)
}

func (h countingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return countingHandler{Handler: h.Handler.WithAttrs(attrs), observe: h.observe}
}

func (h countingHandler) WithGroup(name string) slog.Handler {
	return countingHandler{Handler: h.Handler.WithGroup(name), observe: h.observe}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
