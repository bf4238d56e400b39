package glow_test

import (
	"log/slog"
	"strings"
	"testing"

	"deedles.dev/linuxfb/internal/glow"
)

func TestHandlerOutput(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(glow.Handler{W: &buf})

	logger.Info("device attached", "name", "Goodix Capacitive TouchScreen", "slots", 5)

	out := buf.String()
	for _, want := range []string{"device attached", "name", "Goodix Capacitive TouchScreen", "slots", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%v", want, out)
		}
	}
}

func TestHandlerLevel(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(glow.Handler{W: &buf, Level: slog.LevelWarn})

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info record written despite warn level:\n%v", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn record missing:\n%v", out)
	}
}

func TestHandlerGroups(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(glow.Handler{W: &buf}).WithGroup("input").With("device", "event3")

	logger.Info("msg", "code", 42)

	out := buf.String()
	if !strings.Contains(out, "input.device") {
		t.Errorf("group-qualified WithAttrs key missing:\n%v", out)
	}
	if !strings.Contains(out, "input.code") {
		t.Errorf("group-qualified record key missing:\n%v", out)
	}
}
