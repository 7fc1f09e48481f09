package proto

// Ack statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StatusAck is the ack of events that return nothing but a status.
type StatusAck struct {
	Status string `json:"status"`
}

// ErrorAck reports a failed request.
type ErrorAck struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoginAck returns the identity created for the connection.
type LoginAck struct {
	Status   string   `json:"status"`
	Identity Identity `json:"identity"`
}

// JoinRoomAck confirms a room subscription.
type JoinRoomAck struct {
	Status string `json:"status"`
	RoomID string `json:"roomId"`
}

// MessagesAck carries a page of history, oldest first.
type MessagesAck struct {
	Status   string    `json:"status"`
	Messages []Message `json:"messages"`
}

// MessageAck returns the stored message with server-assigned fields.
type MessageAck struct {
	Status  string  `json:"status"`
	Message Message `json:"message"`
}

// PingAck reports the server clock in unix millis.
type PingAck struct {
	Status     string `json:"status"`
	ServerTime int64  `json:"serverTime"`
}
