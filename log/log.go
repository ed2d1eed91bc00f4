// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is the logging facade of the node. Package level loggers are created with
// WithContext and resolve the root handler on every call, so they follow Init.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// Logger writes leveled key/value records.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	With(ctx ...any) Logger
}

// Level constants, compatible with the --verbosity flag.
const (
	LevelCrit  = 0
	LevelError = 1
	LevelWarn  = 2
	LevelInfo  = 3
	LevelDebug = 4
	LevelTrace = 5
)

type ctxLogger struct {
	ctx []any
}

// WithContext returns a logger carrying the key/value pairs ctx.
func WithContext(ctx ...any) Logger {
	return &ctxLogger{ctx: ctx}
}

func (l *ctxLogger) Trace(msg string, ctx ...any) { log.Root().Trace(msg, l.merge(ctx)...) }
func (l *ctxLogger) Debug(msg string, ctx ...any) { log.Root().Debug(msg, l.merge(ctx)...) }
func (l *ctxLogger) Info(msg string, ctx ...any)  { log.Root().Info(msg, l.merge(ctx)...) }
func (l *ctxLogger) Warn(msg string, ctx ...any)  { log.Root().Warn(msg, l.merge(ctx)...) }
func (l *ctxLogger) Error(msg string, ctx ...any) { log.Root().Error(msg, l.merge(ctx)...) }

// Crit logs and exits the process.
func (l *ctxLogger) Crit(msg string, ctx ...any) { log.Root().Crit(msg, l.merge(ctx)...) }

func (l *ctxLogger) With(ctx ...any) Logger {
	return &ctxLogger{ctx: l.merge(ctx)}
}

func (l *ctxLogger) merge(ctx []any) []any {
	return slices.Concat(l.ctx, ctx)
}

// Init installs the root handler and returns the level it filters on, which can be changed at runtime.
// Terminal output is coloured when w is a tty.
func Init(w io.Writer, verbosity int, json bool) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(verbosity))
	log.SetDefault(log.NewLogger(NewHandler(w, &level, json)))
	return &level
}

// NewHandler builds a handler writing to w, dropping records below level.
func NewHandler(w io.Writer, level *slog.LevelVar, json bool) slog.Handler {
	var h slog.Handler
	if json {
		h = log.JSONHandlerWithLevel(w, log.LevelTrace)
	} else {
		useColor := false
		if f, ok := w.(*os.File); ok {
			useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		h = log.NewTerminalHandlerWithLevel(w, log.LevelTrace, useColor)
	}
	return &levelHandler{level, h}
}

// Discard silences the root logger.
func Discard() {
	log.SetDefault(log.NewLogger(log.DiscardHandler()))
}

type levelHandler struct {
	level *slog.LevelVar
	slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.Handler.Enabled(ctx, l)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.level, h.Handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.level, h.Handler.WithGroup(name)}
}

var levelNames = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

// ParseLevel returns the level named name, one of trace, debug, info, warn, error and crit.
func ParseLevel(name string) (slog.Level, bool) {
	l, ok := levelNames[name]
	return l, ok
}

// LevelName returns the name of l accepted by ParseLevel.
func LevelName(l slog.Level) string {
	for name, v := range levelNames {
		if v == l {
			return name
		}
	}
	return l.String()
}
