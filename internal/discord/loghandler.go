package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// logQueueSize bounds the forwarder backlog. Records past the bound are
// dropped rather than blocking the logging call site.
const logQueueSize = 64

// LogHandler is a slog.Handler that forwards records at or above a fixed
// minimum level to a Discord channel. The level is set at construction and
// never changes afterwards, so concurrent loggers cannot observe a shifting
// threshold.
type LogHandler struct {
	session   *discordgo.Session
	channelID string
	minLevel  slog.Level

	queue chan string
	done  chan struct{}

	attrs  []slog.Attr
	groups []string
}

// NewLogHandler creates a LogHandler forwarding records >= minLevel to the
// channel. Call Close to flush and stop the forwarder.
func NewLogHandler(session *discordgo.Session, channelID string, minLevel slog.Level) *LogHandler {
	h := &LogHandler{
		session:   session,
		channelID: channelID,
		minLevel:  minLevel,
		queue:     make(chan string, logQueueSize),
		done:      make(chan struct{}),
	}
	go h.forward()
	return h
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *LogHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** %s", record.Level, record.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	record.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})

	select {
	case h.queue <- b.String():
	default:
		// Channel forwarding is best effort; drop instead of blocking.
	}
	return nil
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// Close stops the forwarder goroutine. Queued records are discarded.
func (h *LogHandler) Close() {
	close(h.done)
}

// forward drains the queue one message per second so a burst of log records
// cannot consume the bot's message budget.
func (h *LogHandler) forward() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			select {
			case text := <-h.queue:
				if len(text) > 1900 {
					text = text[:1900] + "..."
				}
				_, _ = h.session.ChannelMessageSend(h.channelID, text)
			default:
			}
		}
	}
}
