package core

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Store owns every room. Rooms are created on first reference and live for
// the lifetime of the process.
type Store struct {
	historyLimit int

	mu    sync.RWMutex
	rooms map[string]*Room
}

// RoomStats summarizes one room.
type RoomStats struct {
	ID       string
	Messages int
}

// NewStore builds an empty store whose rooms keep historyLimit messages.
func NewStore(historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Store{
		historyLimit: historyLimit,
		rooms:        make(map[string]*Room),
	}
}

// HistoryLimit returns the per-room retention cap.
func (s *Store) HistoryLimit() int {
	return s.historyLimit
}

// GetOrCreateRoom returns the room with the given id, creating it if needed.
func (s *Store) GetOrCreateRoom(roomID string) *Room {
	s.mu.RLock()
	room, exists := s.rooms[roomID]
	s.mu.RUnlock()
	if exists {
		return room
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if room, exists = s.rooms[roomID]; !exists {
		room = NewRoom(roomID, s.historyLimit)
		s.rooms[roomID] = room
	}
	return room
}

// Append stores msg in the room's log and returns the stored copy.
func (s *Store) Append(roomID string, msg Message) Message {
	return s.GetOrCreateRoom(roomID).Append(msg)
}

// room looks a room up without creating it.
func (s *Store) room(roomID string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	return room, ok
}

// Paginate returns up to limit messages, skipping offset newest ones, in
// chronological order. An offset past the end or an unknown room yields an
// empty slice.
func (s *Store) Paginate(roomID string, offset, limit int) []Message {
	room, ok := s.room(roomID)
	if !ok {
		return []Message{}
	}
	return room.Page(offset, limit)
}

// FindMessage looks a message up by id.
func (s *Store) FindMessage(roomID, messageID string) (Message, bool) {
	room, ok := s.room(roomID)
	if !ok {
		return Message{}, false
	}
	return room.Find(messageID)
}

// SetReaction updates the reaction set and returns the message's reaction map.
func (s *Store) SetReaction(roomID, messageID, userID, symbol string, action ReactionAction) (map[string][]string, error) {
	room, ok := s.room(roomID)
	if !ok {
		return nil, ErrMessageNotFound
	}
	return room.SetReaction(messageID, userID, symbol, action)
}

// MarkRead adds userID to the message's readers.
func (s *Store) MarkRead(roomID, messageID, userID string) error {
	room, ok := s.room(roomID)
	if !ok {
		return ErrMessageNotFound
	}
	return room.MarkRead(messageID, userID)
}

// Rooms lists the known room ids in sorted order.
func (s *Store) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.rooms))
}

// Stats returns per-room message counts sorted by room id.
func (s *Store) Stats() []RoomStats {
	s.mu.RLock()
	rooms := slices.Collect(maps.Values(s.rooms))
	s.mu.RUnlock()

	stats := make([]RoomStats, 0, len(rooms))
	for _, room := range rooms {
		stats = append(stats, RoomStats{ID: room.ID, Messages: room.Len()})
	}
	slices.SortFunc(stats, func(a, b RoomStats) int {
		return strings.Compare(a.ID, b.ID)
	})
	return stats
}
