// Package realtime fans workflow events out to connected websocket clients.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conn is the subset of a websocket connection the hub uses.
type Conn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

// Envelope is one frame pushed to clients.
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type inbound struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// relayedEvents are the events a client may emit for the hub to pass on to
// everyone else.
var relayedEvents = map[string]bool{
	"workflow_step_completed": true,
}

const sendBuffer = 32

type client struct {
	id     string
	userID string
	conn   Conn
	send   chan Envelope
}

type Hub struct {
	log *zap.Logger

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[string]*client),
	}
}

// Broadcast queues an event for every client. Slow clients whose buffer is
// full miss the event.
func (h *Hub) Broadcast(event string, payload any) {
	h.broadcast("", Envelope{Event: event, Payload: payload})
}

func (h *Hub) broadcast(exceptID string, env Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id == exceptID {
			continue
		}
		select {
		case c.send <- env:
		default:
			h.log.Warn("Dropping realtime event for slow client",
				zap.String("clientId", id), zap.String("event", env.Event))
		}
	}
}

// Count is the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve runs a client until its connection fails or the hub closes. It
// blocks for the lifetime of the connection.
func (h *Hub) Serve(conn Conn, userID string) {
	c := &client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan Envelope, sendBuffer),
	}
	if !h.register(c) {
		conn.Close()
		return
	}
	h.log.Debug("Realtime client connected", zap.String("clientId", c.id), zap.String("userId", userID))

	writerDone := make(chan struct{})
	go h.writeLoop(c, writerDone)

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if !relayedEvents[msg.Event] {
			h.log.Debug("Ignoring client event", zap.String("event", msg.Event), zap.String("clientId", c.id))
			continue
		}
		h.broadcast(c.id, Envelope{Event: msg.Event, Payload: msg.Payload})
	}

	h.unregister(c)
	<-writerDone
	conn.Close()
	h.log.Debug("Realtime client disconnected", zap.String("clientId", c.id))
}

func (h *Hub) writeLoop(c *client, done chan<- struct{}) {
	defer close(done)
	for env := range c.send {
		if err := c.conn.WriteJSON(env); err != nil {
			// unblock the reader; Serve unregisters and closes send
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]Conn, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}
