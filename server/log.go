// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"context"
	"log/slog"
)

// nopLogHandler silently discards all log records. Enabled returns
// false so disabled logging skips message formatting entirely.
type nopLogHandler struct{}

func (nopLogHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopLogHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopLogHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopLogHandler{} }
func (nopLogHandler) WithGroup(string) slog.Handler             { return nopLogHandler{} }
