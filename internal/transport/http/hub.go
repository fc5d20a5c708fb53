package http

import (
	"sync"
)

const clientQueueSize = 64

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// client is one WebSocket connection. send is never closed; the writer
// stops on done instead, so late broadcasts can't panic.
type client struct {
	sessionID string
	playerID  string
	send      chan outboundMessage[any]
	done      chan struct{}
}

func newClient(sessionID, playerID string) *client {
	return &client{
		sessionID: sessionID,
		playerID:  playerID,
		send:      make(chan outboundMessage[any], clientQueueSize),
		done:      make(chan struct{}),
	}
}

// enqueue never blocks. When the queue is full the oldest message is dropped.
func (c *client) enqueue(msg outboundMessage[any]) {
	for {
		select {
		case c.send <- msg:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

// playerKey scopes a player to one session; after play again the same
// player id is live in two rooms.
type playerKey struct {
	sessionID string
	playerID  string
}

// Hub fans engine events out to WebSocket clients. It implements app.Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*client]struct{}
	players map[playerKey]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*client]struct{}),
		players: make(map[playerKey]map[*client]struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.sessionID] == nil {
		h.rooms[c.sessionID] = make(map[*client]struct{})
	}
	h.rooms[c.sessionID][c] = struct{}{}
	if c.playerID == "" {
		return
	}
	key := playerKey{c.sessionID, c.playerID}
	if h.players[key] == nil {
		h.players[key] = make(map[*client]struct{})
	}
	h.players[key][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room := h.rooms[c.sessionID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.sessionID)
		}
	}
	key := playerKey{c.sessionID, c.playerID}
	if conns := h.players[key]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.players, key)
		}
	}
}

// BroadcastToSession queues an event for every client in the session.
func (h *Hub) BroadcastToSession(sessionID, event string, payload any) {
	msg := outboundMessage[any]{Type: event, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[sessionID] {
		c.enqueue(msg)
	}
}

// SendToPlayer queues an event for every connection one player has open on a session.
func (h *Hub) SendToPlayer(sessionID, playerID, event string, payload any) {
	msg := outboundMessage[any]{Type: event, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.players[playerKey{sessionID, playerID}] {
		c.enqueue(msg)
	}
}

// Connections reports how many clients are attached to a session.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

func (h *Hub) playerConnections(sessionID, playerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.players[playerKey{sessionID, playerID}])
}
