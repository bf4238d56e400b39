// Package glow provides the slog handler used by the fbprobe command:
// styled, line-oriented output for interactive use, with an optional
// systemd journal mode for running as a unit.
package glow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

var bufPool sync.Pool

var (
	styleTime = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#222222", Dark: "#AAAAAA"})
	styleKey  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#222222", Dark: "#AAAAAA"})

	styleError = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AA0000", Dark: "#EE0000"})
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AAAA00", Dark: "#EEEE00"})
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#3333AA", Dark: "#5555EE"})
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#00EE00"})
)

func styleLevel(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styleError
	case level >= slog.LevelWarn:
		return styleWarn
	case level >= slog.LevelInfo:
		return styleInfo
	default:
		return styleDebug
	}
}

// Handler is a slog.Handler. The zero value logs everything at Info
// and above to stderr.
type Handler struct {
	// UseJournal sends records to the systemd journal instead of W.
	UseJournal bool
	Level      slog.Level
	// W receives rendered records. Defaults to os.Stderr.
	W io.Writer

	attrs  []slog.Attr
	groups []string
}

func (h Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.Level
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	attrs := slices.Clone(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))
		return true
	})

	if h.UseJournal {
		return h.handleJournal(r, attrs)
	}

	buf, _ := bufPool.Get().(*bytes.Buffer)
	if buf == nil {
		buf = new(bytes.Buffer)
	}
	defer func() {
		buf.Reset()
		bufPool.Put(buf)
	}()

	if !r.Time.IsZero() {
		fmt.Fprintf(buf, "%v ", styleTime.Render(r.Time.Format(time.StampMilli)))
	}
	fmt.Fprintf(buf, "%v %v\n", styleLevel(r.Level).Render(r.Level.String()), r.Message)
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		fmt.Fprintf(
			buf,
			"\t%v=%v\n",
			styleKey.Render(quoteIfNecessary(attr.Key)),
			quoteIfNecessary(attr.Value.String()),
		)
	}

	w := h.W
	if w == nil {
		w = os.Stderr
	}
	_, err := io.Copy(w, buf)
	return err
}

// qualify prefixes an attribute key with the open group names.
func (h Handler) qualify(a slog.Attr) slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		a.Key = h.groups[i] + "." + a.Key
	}
	return a
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		qualified = append(qualified, h.qualify(a))
	}
	h.attrs = slices.Clip(append(slices.Clone(h.attrs), qualified...))
	return h
}

func (h Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h.groups = slices.Clip(append(slices.Clone(h.groups), name))
	return h
}

func quoteIfNecessary(str string) string {
	for _, c := range str {
		if unicode.IsSpace(c) {
			return strconv.Quote(str)
		}
	}
	return str
}
