package core

import "sync/atomic"

// DefaultClientBuffer is the outbound queue size of a client.
const DefaultClientBuffer = 64

// Client is a live connection as seen by the core layer.
type Client struct {
	ID     string
	Events chan *Event

	// rooms is guarded by the owning Hub's mutex.
	rooms   map[string]struct{}
	dropped atomic.Int64
}

// NewClient constructs a client with an outbound queue of the given size.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:     id,
		Events: make(chan *Event, buffer),
		rooms:  make(map[string]struct{}),
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// deliver queues ev without blocking. Returns false if the event was dropped.
func (c *Client) deliver(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		// Drop if slow consumer.
		c.dropped.Add(1)
		return false
	}
}
