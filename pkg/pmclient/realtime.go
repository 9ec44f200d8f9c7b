package pmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/rotisserie/eris"
)

// Event types pushed over /api/ws.
const (
	EventWorkflowStepCompleted = "workflow_step_completed"
	EventAlertAssigned         = "alert_assigned"
)

// Envelope is the frame exchanged with the realtime hub.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Realtime is a websocket connection to the API's event hub.
type Realtime struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	mu        sync.RWMutex
	connected bool
	handler   func(Envelope)
	done      chan struct{}
}

// DialRealtime connects to /api/ws using the client's session. handler, if
// non-nil, receives every frame pushed by the server.
func (c *Client) DialRealtime(ctx context.Context, handler func(Envelope)) (*Realtime, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "parse base url")
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/ws"

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, eris.Wrapf(err, "dial %s", u.String())
	}

	rt := &Realtime{
		conn:      conn,
		connected: true,
		handler:   handler,
		done:      make(chan struct{}),
	}
	go rt.readLoop()
	return rt, nil
}

// Connected reports whether the socket is still usable.
func (r *Realtime) Connected() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}

// Emit sends one event to the hub.
func (r *Realtime) Emit(event string, payload any) error {
	if !r.Connected() {
		return eris.New("realtime channel not connected")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "encode payload")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	_ = r.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := r.conn.WriteJSON(Envelope{Event: event, Payload: raw}); err != nil {
		r.markDisconnected()
		return eris.Wrapf(err, "emit %s", event)
	}
	return nil
}

// Close shuts the socket down and waits for the reader to exit.
func (r *Realtime) Close() error {
	r.markDisconnected()
	r.writeMu.Lock()
	_ = r.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	r.writeMu.Unlock()
	err := r.conn.Close()
	<-r.done
	return err
}

func (r *Realtime) readLoop() {
	defer close(r.done)
	for {
		var env Envelope
		if err := r.conn.ReadJSON(&env); err != nil {
			r.markDisconnected()
			return
		}
		if r.handler != nil {
			r.handler(env)
		}
	}
}

func (r *Realtime) markDisconnected() {
	r.mu.Lock()
	r.connected = false
	r.mu.Unlock()
}
