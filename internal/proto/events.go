package proto

// Server-initiated event names.
const (
	EventConnected          = "connected"
	EventUserJoined         = "userJoined"
	EventUserLeft           = "userLeft"
	EventPresenceSnapshot   = "presenceSnapshot"
	EventMessageCreated     = "messageCreated"
	EventPrivateMessage     = "privateMessageDelivered"
	EventUserJoinedRoom     = "userJoinedRoom"
	EventUserLeftRoom       = "userLeftRoom"
	EventTypingIndicator    = "typingIndicator"
	EventReactionChanged    = "reactionChanged"
	EventReadReceiptChanged = "readReceiptChanged"
)

// ConnectedEvent tells a fresh connection its own connection ref.
type ConnectedEvent struct {
	ConnectionRef string `json:"connectionRef"`
	Protocol      int    `json:"protocol"`
}

// UserEvent announces a user connecting or disconnecting.
type UserEvent struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// PresenceSnapshotEvent lists every connected identity.
type PresenceSnapshotEvent struct {
	Users []Presence `json:"users"`
}

// RoomMembershipEvent announces a user joining or leaving a room.
type RoomMembershipEvent struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	RoomID      string `json:"roomId"`
}

// TypingEvent relays a typing indicator as received.
type TypingEvent struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	RoomID      string `json:"roomId"`
	IsTyping    bool   `json:"isTyping"`
}

// ReactionEvent carries the full reaction map of a message.
type ReactionEvent struct {
	MessageID string              `json:"messageId"`
	RoomID    string              `json:"roomId"`
	Reactions map[string][]string `json:"reactions"`
}

// ReadReceiptEvent announces that a user read a message.
type ReadReceiptEvent struct {
	MessageID string `json:"messageId"`
	RoomID    string `json:"roomId"`
	UserID    string `json:"userId"`
}
