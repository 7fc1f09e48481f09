// Package session implements the per-connection event protocol on top of the
// identity registry, the room store and the connection hub.
//
// A connection starts unauthenticated and becomes authenticated after a
// successful login. Every request-style event produces exactly one Ack;
// typing is fire-and-forget. Fan-out through the hub happens after the
// registry and store have released their locks.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
	"github.com/vovakirdan/roomchat-server/internal/utils"
)

// ErrUnknownEvent is returned by Handle for event types it does not serve.
var ErrUnknownEvent = errors.New("unknown event")

type handlerFunc func(connID string, data json.RawMessage) *Ack

// Router dispatches inbound events for every connection.
type Router struct {
	cfg      Config
	registry *core.Registry
	store    *core.Store
	hub      *core.Hub
	log      zerolog.Logger
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
	handlers map[string]handlerFunc

	// presenceMu orders snapshot-and-send pairs so the last snapshot
	// delivered is never older than an earlier one.
	presenceMu sync.Mutex
}

// NewRouter wires a router over explicitly owned state. A nil logger
// disables logging.
func NewRouter(cfg Config, registry *core.Registry, store *core.Store, hub *core.Hub, logger *zerolog.Logger) *Router {
	base := zerolog.Nop()
	if logger != nil {
		base = *logger
	}

	r := &Router{
		cfg:      cfg.withDefaults(),
		registry: registry,
		store:    store,
		hub:      hub,
		log:      base.With().Str("component", "session").Logger(),
		validate: newValidator(),
		now:      time.Now,
		newID:    utils.NewID,
	}
	r.handlers = map[string]handlerFunc{
		proto.InboundLogin:              r.login,
		proto.InboundJoinRoom:           r.joinRoom,
		proto.InboundLeaveRoom:          r.leaveRoom,
		proto.InboundLoadMessages:       r.loadMessages,
		proto.InboundPostMessage:        r.postMessage,
		proto.InboundPostPrivateMessage: r.postPrivateMessage,
		proto.InboundTyping:             r.typing,
		proto.InboundSetReaction:        r.setReaction,
		proto.InboundMarkRead:           r.markRead,
		proto.InboundPing:               r.ping,
	}
	return r
}

// Config returns the effective router configuration.
func (r *Router) Config() Config {
	return r.cfg
}

// Attach registers a new connection with the hub and tells it its
// connection ref.
func (r *Router) Attach(c *core.Client) error {
	if err := r.hub.RegisterClient(c); err != nil {
		return fmt.Errorf("attach client: %w", err)
	}
	r.hub.SendTo(c.ID, core.NewEvent(proto.EventConnected, proto.ConnectedEvent{
		ConnectionRef: c.ID,
		Protocol:      proto.ProtocolVersion,
	}))
	r.log.Debug().Str("conn_id", c.ID).Msg("connection attached")
	return nil
}

// Disconnect releases everything the connection holds. Safe to call more
// than once.
func (r *Router) Disconnect(connID string) {
	identity, ok := r.registry.Unregister(connID)
	r.hub.UnregisterClient(connID)
	if !ok {
		r.log.Debug().Str("conn_id", connID).Msg("anonymous connection detached")
		return
	}

	r.log.Info().
		Str("conn_id", connID).
		Str("user_id", identity.UserID).
		Str("display_name", identity.DisplayName).
		Msg("user disconnected")

	r.hub.BroadcastAll(core.NewEvent(proto.EventUserLeft, proto.UserEvent{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
	}), connID)
	r.broadcastPresence()
}

// Handle runs one inbound event for connID. It returns nil for typing and
// exactly one Ack for every other known event. Unknown events return
// ErrUnknownEvent.
func (r *Router) Handle(connID, event string, data json.RawMessage) (ack *Ack, err error) {
	handler, ok := r.handlers[event]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error().
				Str("conn_id", connID).
				Str("event", event).
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Msg("recovered from handler panic")
			ack = nil
			if event != proto.InboundTyping {
				ack = failure(core.ErrInternal)
			}
		}
	}()

	ack = handler(connID, data)
	if ack != nil && !ack.OK() {
		r.log.Debug().
			Str("conn_id", connID).
			Str("event", event).
			Str("code", ack.Err.Code).
			Msg(ack.Err.Message)
	}
	return ack, nil
}

// Presence returns the current presence snapshot.
func (r *Router) Presence() []proto.Presence {
	return presenceViews(r.registry.Snapshot())
}

// History returns a page of room history with loadMessages semantics.
func (r *Router) History(roomID string, offset, limit int) ([]proto.Message, error) {
	return r.page(proto.LoadMessagesData{RoomID: roomID, Offset: offset, Limit: limit})
}

// Rooms returns per-room message counts.
func (r *Router) Rooms() []core.RoomStats {
	return r.store.Stats()
}

func (r *Router) login(connID string, data json.RawMessage) *Ack {
	var req proto.LoginData
	if err := decode(data, &req); err != nil {
		return failure(err)
	}
	if err := r.check(req); err != nil {
		return failure(err)
	}

	identity, err := r.registry.Register(req.DisplayName, connID, r.cfg.DefaultRoom)
	if err != nil {
		return failure(err)
	}

	r.store.GetOrCreateRoom(r.cfg.DefaultRoom)
	r.hub.Join(connID, r.cfg.DefaultRoom)

	r.log.Info().
		Str("conn_id", connID).
		Str("user_id", identity.UserID).
		Str("display_name", identity.DisplayName).
		Msg("user logged in")

	r.hub.BroadcastAll(core.NewEvent(proto.EventUserJoined, proto.UserEvent{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
	}), connID)
	r.broadcastPresence()

	return success(proto.LoginAck{Status: proto.StatusOK, Identity: identityView(identity)})
}

func (r *Router) joinRoom(connID string, data json.RawMessage) *Ack {
	identity, err := r.registry.Lookup(connID)
	if err != nil {
		return failure(err)
	}

	var req proto.RoomData
	if err := decode(data, &req); err != nil {
		return failure(err)
	}
	roomID := strings.TrimSpace(req.RoomID)
	if roomID == "" {
		return failure(core.InvalidRequest("roomId is required"))
	}

	r.store.GetOrCreateRoom(roomID)
	r.hub.Join(connID, roomID)
	if err := r.registry.SetCurrentRoom(connID, roomID); err != nil {
		return failure(err)
	}

	r.hub.Broadcast(roomID, core.NewRoomEvent(proto.EventUserJoinedRoom, roomID, proto.RoomMembershipEvent{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		RoomID:      roomID,
	}), connID)

	return success(proto.JoinRoomAck{Status: proto.StatusOK, RoomID: roomID})
}

func (r *Router) leaveRoom(connID string, data json.RawMessage) *Ack {
	// Identity is best effort here: leaving always succeeds.
	identity, _ := r.registry.Lookup(connID)

	var req proto.RoomData
	if err := decode(data, &req); err != nil {
		return failure(err)
	}
	roomID := strings.TrimSpace(req.RoomID)
	if roomID == "" {
		return statusOK()
	}

	r.hub.Leave(connID, roomID)
	r.hub.Broadcast(roomID, core.NewRoomEvent(proto.EventUserLeftRoom, roomID, proto.RoomMembershipEvent{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		RoomID:      roomID,
	}), connID)

	return statusOK()
}

func (r *Router) loadMessages(_ string, data json.RawMessage) *Ack {
	req := proto.LoadMessagesData{
		RoomID: r.cfg.DefaultRoom,
		Limit:  r.cfg.DefaultPageSize,
	}
	if err := decode(data, &req); err != nil {
		return failure(err)
	}

	messages, err := r.page(req)
	if err != nil {
		return failure(err)
	}
	return success(proto.MessagesAck{Status: proto.StatusOK, Messages: messages})
}

func (r *Router) page(req proto.LoadMessagesData) ([]proto.Message, error) {
	if strings.TrimSpace(req.RoomID) == "" {
		req.RoomID = r.cfg.DefaultRoom
	}
	if err := r.check(req); err != nil {
		return nil, err
	}
	limit := min(req.Limit, r.cfg.MaxPageSize)
	return messageViews(r.store.Paginate(req.RoomID, req.Offset, limit)), nil
}

func (r *Router) postMessage(connID string, data json.RawMessage) *Ack {
	identity, err := r.registry.Lookup(connID)
	if err != nil {
		return failure(err)
	}

	req := proto.PostMessageData{RoomID: r.cfg.DefaultRoom}
	if err := decode(data, &req); err != nil {
		return failure(err)
	}
	if strings.TrimSpace(req.RoomID) == "" {
		req.RoomID = r.cfg.DefaultRoom
	}
	if err := r.checkContent(req, req.Text, req.Attachments); err != nil {
		return failure(err)
	}

	stored := r.store.Append(req.RoomID, core.Message{
		ID:          r.newID(),
		Room:        req.RoomID,
		Text:        req.Text,
		Attachments: attachmentsFromWire(req.Attachments),
		Sender:      identity.Sender(),
		CreatedAt:   r.now(),
	})
	view := messageView(stored)

	delivered := r.hub.Broadcast(req.RoomID, core.NewRoomEvent(proto.EventMessageCreated, req.RoomID, view), "")
	r.log.Debug().
		Str("conn_id", connID).
		Str("room", req.RoomID).
		Str("message_id", stored.ID).
		Int("delivered", delivered).
		Msg("message created")

	return success(proto.MessageAck{Status: proto.StatusOK, Message: view})
}

func (r *Router) postPrivateMessage(connID string, data json.RawMessage) *Ack {
	identity, err := r.registry.Lookup(connID)
	if err != nil {
		return failure(err)
	}

	var req proto.PrivateMessageData
	if err := decode(data, &req); err != nil {
		return failure(err)
	}
	if err := r.checkContent(req, req.Text, req.Attachments); err != nil {
		return failure(err)
	}

	view := messageView(core.Message{
		ID:          r.newID(),
		Text:        req.Text,
		Attachments: attachmentsFromWire(req.Attachments),
		Sender:      identity.Sender(),
		CreatedAt:   r.now(),
		Private:     true,
		To:          req.TargetConnectionRef,
	})
	ev := core.NewEvent(proto.EventPrivateMessage, view)

	if !r.hub.SendTo(req.TargetConnectionRef, ev) {
		r.log.Debug().
			Str("conn_id", connID).
			Str("target", req.TargetConnectionRef).
			Msg("private message target unreachable")
	}
	if req.TargetConnectionRef != connID {
		r.hub.SendTo(connID, ev)
	}

	return success(proto.MessageAck{Status: proto.StatusOK, Message: view})
}

func (r *Router) typing(connID string, data json.RawMessage) *Ack {
	identity, err := r.registry.Lookup(connID)
	if err != nil {
		return nil
	}

	req := proto.TypingData{RoomID: r.cfg.DefaultRoom}
	if err := decode(data, &req); err != nil {
		return nil
	}
	if strings.TrimSpace(req.RoomID) == "" {
		req.RoomID = r.cfg.DefaultRoom
	}

	r.hub.Broadcast(req.RoomID, core.NewRoomEvent(proto.EventTypingIndicator, req.RoomID, proto.TypingEvent{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		RoomID:      req.RoomID,
		IsTyping:    req.IsTyping,
	}), connID)
	return nil
}

func (r *Router) setReaction(connID string, data json.RawMessage) *Ack {
	identity, err := r.registry.Lookup(connID)
	if err != nil {
		return failure(err)
	}

	req := proto.ReactionData{
		RoomID: r.cfg.DefaultRoom,
		Action: string(core.ReactionAdd),
	}
	if err := decode(data, &req); err != nil {
		return failure(err)
	}
	if strings.TrimSpace(req.RoomID) == "" {
		req.RoomID = r.cfg.DefaultRoom
	}
	if req.Action == "" {
		req.Action = string(core.ReactionAdd)
	}
	if err := r.check(req); err != nil {
		return failure(err)
	}

	reactions, err := r.store.SetReaction(req.RoomID, req.MessageID, identity.UserID, req.Symbol, core.ReactionAction(req.Action))
	if err != nil {
		return failure(err)
	}

	r.hub.Broadcast(req.RoomID, core.NewRoomEvent(proto.EventReactionChanged, req.RoomID, proto.ReactionEvent{
		MessageID: req.MessageID,
		RoomID:    req.RoomID,
		Reactions: reactions,
	}), "")
	return statusOK()
}

func (r *Router) markRead(connID string, data json.RawMessage) *Ack {
	identity, err := r.registry.Lookup(connID)
	if err != nil {
		return failure(err)
	}

	req := proto.MarkReadData{RoomID: r.cfg.DefaultRoom}
	if err := decode(data, &req); err != nil {
		return failure(err)
	}
	if strings.TrimSpace(req.RoomID) == "" {
		req.RoomID = r.cfg.DefaultRoom
	}
	if err := r.check(req); err != nil {
		return failure(err)
	}

	if err := r.store.MarkRead(req.RoomID, req.MessageID, identity.UserID); err != nil {
		return failure(err)
	}

	r.hub.Broadcast(req.RoomID, core.NewRoomEvent(proto.EventReadReceiptChanged, req.RoomID, proto.ReadReceiptEvent{
		MessageID: req.MessageID,
		RoomID:    req.RoomID,
		UserID:    identity.UserID,
	}), "")
	return statusOK()
}

func (r *Router) ping(_ string, _ json.RawMessage) *Ack {
	return success(proto.PingAck{Status: proto.StatusOK, ServerTime: r.now().UnixMilli()})
}

func (r *Router) broadcastPresence() {
	r.presenceMu.Lock()
	defer r.presenceMu.Unlock()

	r.hub.BroadcastAll(core.NewEvent(proto.EventPresenceSnapshot, proto.PresenceSnapshotEvent{
		Users: r.Presence(),
	}), "")
}

// checkContent validates req and the size limits shared by room and
// private messages.
func (r *Router) checkContent(req any, text string, attachments []proto.Attachment) error {
	if err := r.check(req); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" && len(attachments) == 0 {
		return core.InvalidRequest("message needs text or attachments")
	}
	if len(text) > r.cfg.MaxTextLength {
		return core.InvalidRequest("text is too long")
	}
	if len(attachments) > r.cfg.MaxAttachments {
		return core.InvalidRequest("too many attachments")
	}
	return nil
}
