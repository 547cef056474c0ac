// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewSlogHandlerWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))
	slogger.Info("service started", "service", "http-server", "attempt", 2)

	output := buf.String()
	for _, want := range []string{"service started", `"service":"http-server"`, `"attempt":2`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelInfo, `"level":"info"`},
		{slog.LevelWarn, `"level":"warn"`},
		{slog.LevelError, `"level":"error"`},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		h := NewSlogHandlerWithLogger(zerolog.New(&buf))
		slog.New(h).Log(context.Background(), tt.level, "msg")
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("level %v: expected %s in %s", tt.level, tt.want, buf.String())
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestSlogHandler_WithGroupAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var h slog.Handler = NewSlogHandlerWithLogger(zerolog.New(&buf))
	h = h.WithAttrs([]slog.Attr{slog.String("tree", "root")})
	h = h.WithGroup("event")

	slog.New(h).Info("hook", "kind", "restart")

	output := buf.String()
	if !strings.Contains(output, `"event.tree":"root"`) {
		t.Errorf("expected grouped attr in output: %s", output)
	}
	if !strings.Contains(output, `"event.kind":"restart"`) {
		t.Errorf("expected grouped record attr in output: %s", output)
	}
}
