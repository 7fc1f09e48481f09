package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client. ID is the
// optional acknowledgement slot echoed back on the ack frame.
type Inbound struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	ProtocolVersion = 1

	OutboundTypeAck   = "ack"
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Protocol-level error codes. Domain codes live in core.
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnknownEvent   = "unknown_event"
	ErrCodeRateLimited    = "rate_limited"
)

// Attachment field limits in bytes.
const (
	MaxAttachmentURLLength  = 2048
	MaxAttachmentTypeLength = 255
)

// Attachment is an opaque uploaded file reference.
type Attachment struct {
	URL  string `json:"url" validate:"required,max=2048"`
	Type string `json:"type" validate:"max=255"`
}

// Sender identifies a message author.
type Sender struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Message is a chat message as seen by clients. CreatedAt is unix millis.
type Message struct {
	ID          string              `json:"id"`
	RoomID      string              `json:"roomId,omitempty"`
	Text        string              `json:"text"`
	Attachments []Attachment        `json:"attachments"`
	Sender      Sender              `json:"sender"`
	CreatedAt   int64               `json:"createdAt"`
	Reactions   map[string][]string `json:"reactions"`
	ReadBy      []string            `json:"readBy"`
	Private     bool                `json:"private,omitempty"`
	To          string              `json:"toConnectionRef,omitempty"`
}

// Identity is the caller's own identity returned on login.
type Identity struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	ConnectionRef string `json:"connectionRef"`
	CurrentRoom   string `json:"currentRoom"`
}

// Presence is one connected identity in a presence snapshot.
type Presence struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	ConnectionRef string `json:"connectionRef"`
}
