package core

// group is the set of clients subscribed to one room's broadcasts.
type group struct {
	name    string
	clients map[*Client]struct{}
}

func newGroup(name string) *group {
	return &group{
		name:    name,
		clients: make(map[*Client]struct{}),
	}
}

// add inserts a client into the group. Returns true if newly added.
func (g *group) add(c *Client) bool {
	if _, exists := g.clients[c]; exists {
		return false
	}
	g.clients[c] = struct{}{}
	return true
}

// remove deletes a client from the group. Returns true if removed.
func (g *group) remove(c *Client) bool {
	if _, exists := g.clients[c]; !exists {
		return false
	}
	delete(g.clients, c)
	return true
}

// broadcast sends an event to every client in the group except the one
// with exceptID, and returns the number of clients that got it.
func (g *group) broadcast(ev *Event, exceptID string) int {
	delivered := 0
	for client := range g.clients {
		if client.ID == exceptID {
			continue
		}
		if client.deliver(ev) {
			delivered++
		}
	}
	return delivered
}

// empty returns true if no clients are in the group.
func (g *group) empty() bool {
	return len(g.clients) == 0
}
