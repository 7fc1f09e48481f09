package core

import "sync"

// ReactionAction tells SetReaction whether to add or remove a reaction.
type ReactionAction string

const (
	ReactionAdd    ReactionAction = "add"
	ReactionRemove ReactionAction = "remove"
)

// Valid reports whether the action is known.
func (a ReactionAction) Valid() bool {
	return a == ReactionAdd || a == ReactionRemove
}

// Room is a named message log. All access goes through the room's mutex.
type Room struct {
	ID string

	mu  sync.Mutex
	log *messageLog
}

// NewRoom constructs a room with an empty log capped at historyLimit.
func NewRoom(id string, historyLimit int) *Room {
	return &Room{
		ID:  id,
		log: newMessageLog(historyLimit),
	}
}

// Append stores msg and returns the stored copy.
func (r *Room) Append(msg Message) Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.Room = r.ID
	return r.log.append(msg).snapshot()
}

// Page returns a chronological slice of history; see messageLog.page.
func (r *Room) Page(offset, limit int) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.log.page(offset, limit)
}

// Find returns a copy of the message with the given id.
func (r *Room) Find(messageID string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.log.find(messageID)
	if !ok {
		return Message{}, false
	}
	return e.snapshot(), true
}

// SetReaction adds or removes userID from the symbol's reaction set and
// returns the full reaction map of the message.
func (r *Room) SetReaction(messageID, userID, symbol string, action ReactionAction) (map[string][]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.log.find(messageID)
	if !ok {
		return nil, ErrMessageNotFound
	}

	set, exists := e.reactions[symbol]
	if !exists {
		set = newUserSet()
		e.reactions[symbol] = set
	}
	if action == ReactionRemove {
		set.remove(userID)
	} else {
		set.add(userID)
	}
	return e.reactionMap(), nil
}

// MarkRead records that userID has read the message.
func (r *Room) MarkRead(messageID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.log.find(messageID)
	if !ok {
		return ErrMessageNotFound
	}
	e.readBy.add(userID)
	return nil
}

// Len returns the number of stored messages.
func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.log.len()
}
