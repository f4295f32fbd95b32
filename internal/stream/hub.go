package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = pongWait * 9 / 10
	sendBuffer  = 8
	queueLength = 16
)

// Message is the JSON frame sent for every published snapshot.
type Message struct {
	Time   time.Time     `json:"time"`
	Bodies dynamo.Bodies `json:"bodies"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans published snapshots out to websocket clients. It is a
// sim.Observer; Run must be running for messages to be delivered.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	queue chan []byte
	now   func() time.Time
	log   *slog.Logger
}

// NewHub accepts websocket upgrades from the given origins. An empty list
// accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		queue:   make(chan []byte, queueLength),
		now:     time.Now,
		log:     slog.With("component", "stream"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set["*"]
		if !ok {
			_, ok = set[origin]
		}
		return ok
	}
}

// OnSnapshot queues bodies for broadcast. Non-finite sets cannot be encoded
// and are skipped. A full queue drops the snapshot.
func (h *Hub) OnSnapshot(bodies dynamo.Bodies) {
	if !bodies.IsValid() {
		return
	}
	data, err := json.Marshal(Message{Time: h.now(), Bodies: bodies})
	if err != nil {
		h.log.Error("encode snapshot", "error", err)
		return
	}
	select {
	case h.queue <- data:
	default:
		h.log.Debug("broadcast queue full, dropping snapshot")
	}
}

// Run broadcasts queued snapshots until ctx is done, then closes every
// client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			return
		case data := <-h.queue:
			h.broadcast(data)
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("slow client dropped", "remote", c.conn.RemoteAddr().String())
			h.drop(c)
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams snapshots until the peer goes
// away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info("client connected", "remote", conn.RemoteAddr().String())

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards inbound frames and unregisters the client on error.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.mu.Lock()
		h.drop(c)
		h.mu.Unlock()
		h.log.Info("client disconnected", "remote", c.conn.RemoteAddr().String())
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
