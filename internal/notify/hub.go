package notify

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub streams bus events to WebSocket clients as JSON text frames. Each
// connection holds its own bus subscription, so a slow browser only loses
// its own events.
type Hub struct {
	bus      *Bus
	upgrader websocket.Upgrader
	logger   *slog.Logger
	// Greeting, when set, builds the first event a new client receives.
	Greeting func() (Event, bool)
}

func NewHub(bus *Bus, logger *slog.Logger, checkOrigin func(*http.Request) bool) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		bus:      bus,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		logger:   logger,
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	events, cancel := h.bus.Subscribe(DefaultBuffer)
	done := make(chan struct{})
	go h.readLoop(conn, done)

	h.logger.Debug("websocket client connected", "remote", r.RemoteAddr)
	h.writeLoop(conn, events, done)
	cancel()
	conn.Close()
	h.logger.Debug("websocket client disconnected", "remote", r.RemoteAddr)
}

// readLoop discards client frames and signals done when the peer goes away.
func (h *Hub) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, events <-chan Event, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if h.Greeting != nil {
		if ev, ok := h.Greeting(); ok {
			if err := h.write(conn, ev); err != nil {
				return
			}
		}
	}

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := h.write(conn, ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode event", "error", err, "kind", ev.Kind)
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Debug("websocket write failed", "error", err)
		return err
	}
	return nil
}
