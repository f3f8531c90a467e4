package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// pushMessage carries a payload bound for every live connection of one
// user.
type pushMessage struct {
	TargetUserID uuid.UUID
	Payload      []byte
}

// Hub maintains the set of active notification connections and routes
// per-user pushes. A user may hold several connections (tabs, devices);
// a push goes to all of them.
type Hub struct {
	// Registered clients, user ID to the set of live connections.
	clients map[uuid.UUID]map[*Client]bool

	push       chan *pushMessage
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		push:       make(chan *pushMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	slog.Info("notification hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; !ok {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			slog.Debug("websocket client registered",
				"user", client.UserID, "connections", len(h.clients[client.UserID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if userClients, ok := h.clients[client.UserID]; ok {
				if _, clientOk := userClients[client]; clientOk {
					delete(userClients, client)
					if len(userClients) == 0 {
						delete(h.clients, client.UserID)
					}
					slog.Debug("websocket client unregistered",
						"user", client.UserID, "remaining", len(userClients))
				}
			}
			h.mu.Unlock()

		case message := <-h.push:
			h.mu.RLock()
			userClients, ok := h.clients[message.TargetUserID]
			if !ok || len(userClients) == 0 {
				// Not connected; the notification still lives in the
				// store and shows up on the next fetch.
				h.mu.RUnlock()
				continue
			}
			for client := range userClients {
				select {
				case client.Send <- message.Payload:
				default:
					slog.Warn("websocket send buffer full, dropping push",
						"user", client.UserID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// RegisterClient hands a newly upgraded connection to the hub loop.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// Push queues a payload for all live connections of a user. It satisfies
// the actors' Pusher interface and never blocks the caller for long; a
// busy hub drops the push, the stored notification is the durable copy.
func (h *Hub) Push(targetUserID uuid.UUID, payload []byte) {
	message := &pushMessage{
		TargetUserID: targetUserID,
		Payload:      payload,
	}
	select {
	case h.push <- message:
	case <-time.After(1 * time.Second):
		slog.Warn("timeout queuing websocket push", "user", targetUserID)
	}
}
