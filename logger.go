// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/softraster/internal/parallel"
	"github.com/gogpu/softraster/internal/raster"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip building attributes entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with drawing from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for softraster and its internal packages.
// By default nothing is logged. Pass nil to restore silence.
//
// Log levels used:
//   - [slog.LevelDebug]: per-triangle setup and rejections, tile dispatch
//   - [slog.LevelWarn]: configuration fallbacks, such as a depth function
//     that cannot be tested before shading
//
// Example:
//
//	softraster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	raster.SetLogger(l)
	parallel.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func slogger() *slog.Logger { return loggerPtr.Load() }
