package notify

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client serializes writes to one websocket connection; gorilla allows
// at most one concurrent writer per conn.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(env)
}

// Hub is the in-memory Sink for single-node deployments: one set of
// websocket connections per user id.
type Hub struct {
	mu      sync.RWMutex
	clients map[int]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int]map[*client]bool)}
}

// HandleWS upgrades the connection and joins the user's channel. Clients
// identify themselves with the userId query parameter.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil || userID <= 0 {
		http.Error(w, "valid userId query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Notify] websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn}
	h.register(userID, c)

	// Reader loop exists only to detect disconnects; clients do not send.
	go func() {
		defer func() {
			h.unregister(userID, c)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(userID int, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]bool)
	}
	h.clients[userID][c] = true
}

func (h *Hub) unregister(userID int, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], c)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Subscribers returns how many connections a user currently has.
func (h *Hub) Subscribers(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish sends the event to every connection of the user. A user with
// no connections is not an error; a failed write only drops that
// connection.
func (h *Hub) Publish(userID int, event string, payload any) error {
	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(Envelope{Event: event, Payload: payload}); err != nil {
			log.Printf("[Notify] dropping dead connection for user %d: %v", userID, err)
			h.unregister(userID, c)
			c.conn.Close()
		}
	}
	return nil
}
