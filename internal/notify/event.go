// Package notify carries non-blocking UI notifications: panel refreshes and
// toasts from the controller and clock to WebSocket clients and, when
// enabled, a Telegram chat.
package notify

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Kind string

const (
	KindClock    Kind = "clock"
	KindRSI      Kind = "rsi"
	KindStrategy Kind = "strategy"
	KindPosition Kind = "position"
	KindRisk     Kind = "risk"
	KindModal    Kind = "modal"
	// KindSnapshot carries every panel; sent to a client when it connects.
	KindSnapshot Kind = "snapshot"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Event is one push to the UI. Panels maps a panel name to its fresh HTML;
// Message, when set, is shown as a toast.
type Event struct {
	ID      string            `json:"id"`
	Kind    Kind              `json:"kind"`
	Level   Level             `json:"level"`
	Message string            `json:"message,omitempty"`
	Panels  map[string]string `json:"panels,omitempty"`
	Data    any               `json:"data,omitempty"`
	At      time.Time         `json:"at"`
}

// Toast reports whether the event carries a user-facing message.
func (e Event) Toast() bool { return e.Message != "" }

var (
	idMu sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewID returns a time-sortable ULID string. IDs from the same millisecond
// still sort in creation order.
func NewID(at time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at.UTC()), mono).String()
}

// NewEvent stamps an event with an id and time.
func NewEvent(kind Kind, level Level, message string, at time.Time) Event {
	return Event{
		ID:      NewID(at),
		Kind:    kind,
		Level:   level,
		Message: message,
		At:      at,
	}
}
