package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub keeps track of the live chat sockets, grouped by connection, and
// tears them down on shutdown.
type Hub struct {
	// Registered clients organized by connection ID
	clients map[uuid.UUID]map[*Client]struct{}

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Closed when Run returns
	done chan struct{}

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles client registrations until ctx is cancelled, then closes
// every remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

// Register adds a client. It is a no-op once the hub has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

// Unregister removes a client. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.connectionID]; !ok {
		h.clients[client.connectionID] = make(map[*Client]struct{})
	}
	h.clients[client.connectionID][client] = struct{}{}

	h.logger.Info().
		Str("connectionID", client.connectionID.String()).
		Str("userID", client.userID.String()).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.connectionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	if len(clients) == 0 {
		delete(h.clients, client.connectionID)
	}
	client.close()

	h.logger.Info().
		Str("connectionID", client.connectionID.String()).
		Str("userID", client.userID.String()).
		Msg("Client unregistered")
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for id, clients := range h.clients {
		for client := range clients {
			client.close()
			n++
		}
		delete(h.clients, id)
	}
	h.logger.Info().Int("clients", n).Msg("Websocket hub stopped")
}

// GetClientsCount returns the number of live sockets on a connection
func (h *Hub) GetClientsCount(connectionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[connectionID])
}
