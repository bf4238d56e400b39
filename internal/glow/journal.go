package glow

import (
	"log/slog"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

func toJournalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

func (h Handler) handleJournal(r slog.Record, attrs []slog.Attr) error {
	vars := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		vars[journalFieldName(attr.Key)] = attr.Value.String()
	}

	return journal.Send(r.Message, toJournalPriority(r.Level), vars)
}

// journalFieldName maps an attribute key onto the restricted journal
// field alphabet: uppercase ASCII, digits, and underscores, not
// starting with a digit.
func journalFieldName(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i, c := range key {
		switch {
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			c = '_'
		}
		b.WriteRune(c)
	}
	return b.String()
}
