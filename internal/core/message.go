package core

import (
	"maps"
	"slices"
	"time"
)

// Attachment is an opaque reference to uploaded content.
type Attachment struct {
	URL  string
	Type string
}

// Sender identifies the author of a message.
type Sender struct {
	UserID      string
	DisplayName string
}

// Message is the domain model for a chat message.
//
// Reactions and ReadBy are snapshots; the store keeps its own set-backed
// state and hands out copies.
type Message struct {
	ID          string
	Room        string
	Text        string
	Attachments []Attachment
	Sender      Sender
	CreatedAt   time.Time
	Reactions   map[string][]string
	ReadBy      []string

	// Private messages are never stored in a room log.
	Private bool
	// To is the target connection of a private message.
	To string
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	out.Attachments = slices.Clone(m.Attachments)
	out.ReadBy = slices.Clone(m.ReadBy)
	if m.Reactions != nil {
		out.Reactions = make(map[string][]string, len(m.Reactions))
		for symbol, users := range m.Reactions {
			out.Reactions[symbol] = slices.Clone(users)
		}
	}
	return out
}

// ReactionSymbols returns the reaction keys in sorted order.
func (m Message) ReactionSymbols() []string {
	return slices.Sorted(maps.Keys(m.Reactions))
}
