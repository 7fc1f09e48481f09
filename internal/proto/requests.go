package proto

// Inbound event types.
const (
	InboundLogin              = "login"
	InboundJoinRoom           = "joinRoom"
	InboundLeaveRoom          = "leaveRoom"
	InboundLoadMessages       = "loadMessages"
	InboundPostMessage        = "postMessage"
	InboundPostPrivateMessage = "postPrivateMessage"
	InboundTyping             = "typing"
	InboundSetReaction        = "setReaction"
	InboundMarkRead           = "markRead"
	InboundPing               = "ping"
)

// LoginData claims a display name for the connection.
type LoginData struct {
	DisplayName string `json:"displayName" validate:"required"`
}

// RoomData names a room to join or leave.
type RoomData struct {
	RoomID string `json:"roomId"`
}

// LoadMessagesData requests a page of room history.
type LoadMessagesData struct {
	RoomID string `json:"roomId"`
	Offset int    `json:"offset" validate:"gte=0"`
	Limit  int    `json:"limit" validate:"gte=0"`
}

// PostMessageData posts a message to a room.
type PostMessageData struct {
	RoomID      string       `json:"roomId"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments" validate:"dive"`
}

// PrivateMessageData sends a message straight to one connection.
type PrivateMessageData struct {
	TargetConnectionRef string       `json:"targetConnectionRef" validate:"required"`
	Text                string       `json:"text"`
	Attachments         []Attachment `json:"attachments" validate:"dive"`
}

// TypingData toggles the typing indicator in a room.
type TypingData struct {
	RoomID   string `json:"roomId"`
	IsTyping bool   `json:"isTyping"`
}

// ReactionData adds or removes a reaction on a message.
type ReactionData struct {
	RoomID    string `json:"roomId"`
	MessageID string `json:"messageId" validate:"required"`
	Symbol    string `json:"symbol" validate:"required"`
	Action    string `json:"action" validate:"oneof=add remove"`
}

// MarkReadData records a read receipt.
type MarkReadData struct {
	RoomID    string `json:"roomId"`
	MessageID string `json:"messageId" validate:"required"`
}
