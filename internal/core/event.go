package core

// Event is a notification the core emits to client connections. Data is the
// wire payload; the core never inspects it.
type Event struct {
	Name string
	Room string
	Data any
}

// NewEvent builds an event that is not scoped to a room.
func NewEvent(name string, data any) *Event {
	return &Event{Name: name, Data: data}
}

// NewRoomEvent builds an event addressed to a room.
func NewRoomEvent(name, room string, data any) *Event {
	return &Event{Name: name, Room: room, Data: data}
}
