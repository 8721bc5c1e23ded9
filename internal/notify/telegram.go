package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v3"
)

// Sender is the part of *tele.Bot the sink uses.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramSink forwards toast events to one chat. Panel-only events such as
// clock ticks are skipped.
type TelegramSink struct {
	sender Sender
	chatID int64
	logger *slog.Logger
	kinds  map[Kind]bool
}

// NewTelegramBot builds a bot without contacting Telegram at startup.
func NewTelegramBot(token string) (*tele.Bot, error) {
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	b, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

// NewTelegramSink forwards events of the given kinds, or every toast when
// kinds is empty.
func NewTelegramSink(sender Sender, chatID int64, logger *slog.Logger, kinds ...Kind) *TelegramSink {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TelegramSink{sender: sender, chatID: chatID, logger: logger}
	if len(kinds) > 0 {
		s.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
	return s
}

func (s *TelegramSink) accepts(ev Event) bool {
	if !ev.Toast() {
		return false
	}
	return s.kinds == nil || s.kinds[ev.Kind]
}

func (s *TelegramSink) Notify(_ context.Context, ev Event) error {
	if !s.accepts(ev) {
		return nil
	}
	text := fmt.Sprintf("[%s] %s\n%s", ev.Level, ev.Message, ev.At.Format(time.RFC1123))
	if _, err := s.sender.Send(&tele.User{ID: s.chatID}, text); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Sink receives events off the bus.
type Sink interface {
	Notify(ctx context.Context, ev Event) error
}

// Forward drains a bus subscription into sink until ctx is done. Sink
// errors are logged and do not stop forwarding.
func Forward(ctx context.Context, bus *Bus, sink Sink, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	events, cancel := bus.Subscribe(DefaultBuffer)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sink.Notify(ctx, ev); err != nil {
				logger.Warn("notification sink failed", "error", err, "kind", ev.Kind)
			}
		}
	}
}
