package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wfbench/internal/api"
	"wfbench/pkg/logging"
)

const (
	subsystem = "StatusServer"

	// clientBuffer is how many updates may queue for one client before
	// further updates to it are dropped.
	clientBuffer = 16

	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is what clients receive for every update.
type Message struct {
	Type      string                       `json:"type"`
	Timestamp string                       `json:"timestamp"`
	Workflows []api.ParallelWorkflowStatus `json:"workflows"`
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithToken requires clients to present token.
func WithToken(token string) HubOption {
	return func(h *Hub) {
		h.token = token
	}
}

type client struct {
	send chan []byte
}

// Hub fans status snapshots out to websocket clients.
type Hub struct {
	token string

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  []byte
	dropped int
}

// NewHub creates a hub with no clients.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{clients: make(map[*client]struct{})}
	for _, opt := range opts {
		opt(h)
	}
	h.latest, _ = encode(nil)
	return h
}

func encode(statuses []api.ParallelWorkflowStatus) ([]byte, error) {
	if statuses == nil {
		statuses = []api.ParallelWorkflowStatus{}
	}
	return json.Marshal(Message{
		Type:      "status",
		Timestamp: api.FormatTimestamp(time.Now()),
		Workflows: statuses,
	})
}

// Publish records statuses as the latest snapshot and queues it for every
// client. It never blocks: a client whose queue is full misses the update.
// Its signature matches parallel.StatusObserver.
func (h *Hub) Publish(statuses []api.ParallelWorkflowStatus) {
	data, err := encode(statuses)
	if err != nil {
		logging.Error(subsystem, err, "Failed to marshal status update")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped++
			logging.Debug(subsystem, "Dropping status update for slow client")
		}
	}
}

// Clients returns the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many client updates were dropped so far.
func (h *Hub) Dropped() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

func (h *Hub) snapshot() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

func (h *Hub) register() *client {
	c := &client{send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	c.send <- h.latest
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Handler serves /ws and /statuses.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/statuses", h.handleStatuses)
	return h.authorize(mux)
}

func (h *Hub) authorize(next http.Handler) http.Handler {
	if h.token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("token")
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			got = strings.TrimPrefix(auth, "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="wfbench"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Hub) handleStatuses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(h.snapshot())
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error(subsystem, err, "Failed to upgrade websocket connection")
		return
	}

	c := h.register()
	logging.Debug(subsystem, "Websocket client connected (total: %d)", h.Clients())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logging.Warn(subsystem, "Websocket error: %v", err)
				}
				return
			}
		}
	}()

	defer func() {
		h.unregister(c)
		conn.Close()
		logging.Debug(subsystem, "Websocket client disconnected (remaining: %d)", h.Clients())
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case data := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Warn(subsystem, "Failed to send status to client: %v", err)
				return
			}
		}
	}
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info(subsystem, "Serving batch status on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
