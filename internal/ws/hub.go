package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/tablekeep/pos-api/internal/notify"
	"go.uber.org/zap"
)

var errHubStopped = errors.New("websocket hub stopped")

// locationEvent routes an encoded event to one location's room
type locationEvent struct {
	LocationID uuid.UUID
	Message    []byte
}

// Hub maintains the set of active clients per location and broadcasts
// order, kitchen and menu events to them. It is a notify.Sink.
type Hub struct {
	// Registered clients by location ID
	rooms map[uuid.UUID]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *locationEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex

	// Closed when Run returns
	done chan struct{}

	log *zap.Logger
}

// NewHub creates a new Hub instance
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *locationEvent, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled, closing
// every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.locationID] == nil {
				h.rooms[client.locationID] = make(map[*Client]bool)
			}
			h.rooms[client.locationID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.locationID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.locationID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[event.LocationID] {
				select {
				case client.send <- event.Message:
				default:
					// Slow consumer: drop the connection rather than stall the room
					close(client.send)
					delete(h.rooms[event.LocationID], client)
					if len(h.rooms[event.LocationID]) == 0 {
						delete(h.rooms, event.LocationID)
					}
					h.log.Warn("dropped slow websocket client", zap.String("location_id", event.LocationID.String()))
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues e for every client in the event's location.
func (h *Hub) Publish(ctx context.Context, e notify.Event) error {
	message, err := json.Marshal(e)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- &locationEvent{LocationID: e.LocationID, Message: message}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return errHubStopped
	}
}

// ClientCount returns the number of connected clients for a location.
func (h *Hub) ClientCount(locationID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[locationID])
}
