package realtime

import (
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/deniz/bookbridge/internal/app/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Collection names carried on snapshot frames
const (
	CollectionBooks   = "books"
	CollectionPosts   = "posts"
	CollectionReports = "reports"
)

// Snapshot is one frame sent over WebSocket: the full current content of a
// collection, newest first. Clients replace their local copy wholesale; there
// are no incremental diffs.
type Snapshot struct {
	Type       string      `json:"type"`
	Collection string      `json:"collection"`
	Data       interface{} `json:"data"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients and pushes collection snapshots to
// them. The reports collection is only delivered to admin clients.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Channel for outbound snapshots
	broadcast chan *Snapshot

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients and retained snapshots
	mu sync.RWMutex

	// Last marshalled frame per collection, replayed to newly connected clients
	retained map[string][]byte

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Snapshot, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		retained:   make(map[string][]byte),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and snapshot broadcasts.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case snapshot := <-h.broadcast:
			h.broadcastSnapshot(snapshot)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true

	// Replay the latest snapshot of each collection the client may see
	for collection, frame := range h.retained {
		if !client.canSee(collection) {
			continue
		}
		select {
		case client.send <- frame:
		default:
		}
	}
	h.mu.Unlock()

	h.logger.Info().
		Str("userID", client.userID.String()).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("userID", client.userID.String()).
			Msg("Client unregistered")
	}
}

func (h *Hub) broadcastSnapshot(snapshot *Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("collection", snapshot.Collection).
			Msg("Failed to marshal snapshot for broadcast")
		return
	}

	h.mu.Lock()
	h.retained[snapshot.Collection] = data

	var dropped []*Client
	for client := range h.clients {
		if !client.canSee(snapshot.Collection) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Send buffer full, the client is slow or gone
			dropped = append(dropped, client)
		}
	}
	for _, client := range dropped {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()

	h.logger.Debug().
		Str("collection", snapshot.Collection).
		Msg("Snapshot broadcasted")
}

// Publish queues a full-collection snapshot for delivery to every connected
// client allowed to see it.
func (h *Hub) Publish(collection string, data interface{}) {
	h.broadcast <- &Snapshot{
		Type:       "snapshot",
		Collection: collection,
		Data:       data,
		Timestamp:  time.Now(),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// canSee reports whether a client may receive frames of the given collection.
func (c *Client) canSee(collection string) bool {
	if collection == CollectionReports {
		return c.role == string(models.RoleAdmin)
	}
	return true
}
