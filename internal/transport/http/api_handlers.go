package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
	"github.com/vovakirdan/roomchat-server/internal/session"
)

// APIHandlers provides read-only HTTP views over chat state.
type APIHandlers struct {
	router *session.Router
	log    *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(router *session.Router, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		router: router,
		log:    logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// UsersResponse lists connected identities.
type UsersResponse struct {
	Users []proto.Presence `json:"users"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID       string `json:"id"`
	Messages int    `json:"messages"`
}

// RoomsResponse lists known rooms.
type RoomsResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

// MessagesResponse is one page of room history.
type MessagesResponse struct {
	RoomID   string          `json:"roomId"`
	Messages []proto.Message `json:"messages"`
}

type historyQuery struct {
	Offset int `form:"offset" binding:"gte=0"`
	Limit  int `form:"limit" binding:"gte=0"`
}

// Health reports liveness.
// GET /api/health
func (h *APIHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// ListUsers returns the presence snapshot.
// GET /api/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, UsersResponse{Users: h.router.Presence()})
}

// ListRooms returns every room created so far.
// GET /api/rooms
func (h *APIHandlers) ListRooms(c *gin.Context) {
	rooms := lo.Map(h.router.Rooms(), func(s core.RoomStats, _ int) RoomResponse {
		return RoomResponse{ID: s.ID, Messages: s.Messages}
	})
	c.JSON(http.StatusOK, RoomsResponse{Rooms: rooms})
}

// RoomMessages returns a page of history, oldest first.
// GET /api/rooms/:room/messages?offset=&limit=
func (h *APIHandlers) RoomMessages(c *gin.Context) {
	roomID := c.Param("room")

	query := historyQuery{Limit: h.router.Config().DefaultPageSize}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.log.Debug().Err(err).Str("room_id", roomID).Msg("invalid history query")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "offset and limit must be non-negative integers"})
		return
	}

	messages, err := h.router.History(roomID, query.Offset, query.Limit)
	if err != nil {
		if errors.Is(err, core.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to load history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, MessagesResponse{RoomID: roomID, Messages: messages})
}
