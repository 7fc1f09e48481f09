package core

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

// ErrHubClosed is returned when registering a client after Shutdown.
var ErrHubClosed = errors.New("hub closed")

// Hub addresses connected clients, either one by one or through named
// broadcast groups (one per room). Delivery never blocks: a client whose
// queue is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]*group
	closed  bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		groups:  make(map[string]*group),
	}
}

// RegisterClient makes the client addressable.
func (h *Hub) RegisterClient(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	h.clients[c.ID] = c
	return nil
}

// UnregisterClient removes the client from every group, closes its event
// queue and returns the rooms it was subscribed to. Unknown ids are ignored.
func (h *Hub) UnregisterClient(clientID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[clientID]
	if !ok {
		return nil
	}
	rooms := slices.Sorted(maps.Keys(c.rooms))
	for _, room := range rooms {
		h.leaveLocked(c, room)
	}
	delete(h.clients, clientID)
	close(c.Events)
	return rooms
}

// Join subscribes the client to room. Returns true if newly subscribed.
func (h *Hub) Join(clientID, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[clientID]
	if !ok {
		return false
	}
	g, exists := h.groups[room]
	if !exists {
		g = newGroup(room)
		h.groups[room] = g
	}
	if !g.add(c) {
		return false
	}
	c.rooms[room] = struct{}{}
	return true
}

// Leave unsubscribes the client from room. Returns true if it was subscribed.
func (h *Hub) Leave(clientID, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[clientID]
	if !ok {
		return false
	}
	return h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *Client, room string) bool {
	delete(c.rooms, room)
	g, exists := h.groups[room]
	if !exists {
		return false
	}
	removed := g.remove(c)
	if g.empty() {
		delete(h.groups, room)
	}
	return removed
}

// Broadcast delivers ev to the room's subscribers except exceptID (pass ""
// to include everyone). Returns the number of deliveries.
func (h *Hub) Broadcast(room string, ev *Event, exceptID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	g, ok := h.groups[room]
	if !ok {
		return 0
	}
	return g.broadcast(ev, exceptID)
}

// BroadcastAll delivers ev to every registered client except exceptID.
func (h *Hub) BroadcastAll(ev *Event, exceptID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, c := range h.clients {
		if id == exceptID {
			continue
		}
		if c.deliver(ev) {
			delivered++
		}
	}
	return delivered
}

// SendTo delivers ev to a single client. Returns false if the client is
// unknown or its queue is full.
func (h *Hub) SendTo(clientID string, ev *Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[clientID]
	if !ok {
		return false
	}
	return c.deliver(ev)
}

// Subscribed reports whether the client receives broadcasts for room.
func (h *Hub) Subscribed(clientID, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[clientID]
	if !ok {
		return false
	}
	_, joined := c.rooms[room]
	return joined
}

// Members returns the number of subscribers of room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if g, ok := h.groups[room]; ok {
		return len(g.clients)
	}
	return 0
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Shutdown closes every client queue and rejects further registrations.
// Writers draining the queues observe the close and end their connections.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		close(c.Events)
		delete(h.clients, id)
	}
	clear(h.groups)
}
