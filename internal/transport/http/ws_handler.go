package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
	"github.com/vovakirdan/roomchat-server/internal/session"
	"github.com/vovakirdan/roomchat-server/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to the session router.
type WSHandler struct {
	router          *session.Router
	log             *zerolog.Logger
	accept          *websocket.AcceptOptions
	readLimit       int64
	clientBuffer    int
	eventsPerSecond float64
	eventsBurst     int
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(router *session.Router, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		router:          router,
		log:             logger,
		accept:          acceptOptions(cfg.AllowedOrigins),
		readLimit:       readLimit(cfg.MaxTextLength, cfg.MaxAttachments),
		clientBuffer:    cfg.ClientBuffer,
		eventsPerSecond: cfg.EventsPerSecond,
		eventsBurst:     cfg.EventsBurst,
	}
}

// acceptOptions turns configured origins into host patterns. "*" disables
// the origin check entirely.
func acceptOptions(origins []string) *websocket.AcceptOptions {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return &websocket.AcceptOptions{InsecureSkipVerify: true}
	}
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(origin, "/"))
	}
	return &websocket.AcceptOptions{OriginPatterns: patterns}
}

// readLimit is the largest frame a request within the content limits can
// produce. encoding/json may escape a byte as \u00XX, hence the factor 6.
func readLimit(maxText, maxAttachments int) int64 {
	const (
		escape   = 6
		envelope = 4096
		minimum  = 32768
	)
	perAttachment := (proto.MaxAttachmentURLLength+proto.MaxAttachmentTypeLength)*escape + 64
	return int64(max(maxText*escape+maxAttachments*perAttachment+envelope, minimum))
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	conn.SetReadLimit(h.readLimit)

	client := core.NewClient(utils.NewID(), h.clientBuffer)
	if err := h.router.Attach(client); err != nil {
		h.log.Warn().Err(err).Msg("ws attach rejected")
		conn.Close(websocket.StatusTryAgainLater, "server shutting down")
		return
	}
	defer h.router.Disconnect(client.ID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = "connection error"
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	if dropped := client.Dropped(); dropped > 0 {
		h.log.Warn().Str("client_id", client.ID).Int64("dropped", dropped).Msg("slow consumer dropped events")
	}
	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newEventLimiter(h.eventsPerSecond, h.eventsBurst)
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("read ws inbound")
			return err
		}
		if typ != websocket.MessageText {
			if err := wsjson.Write(ctx, conn, protocolError("", proto.ErrCodeInvalidMessage, "text frames only")); err != nil {
				return err
			}
			continue
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil || inbound.Type == "" {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("malformed ws envelope")
			if err := wsjson.Write(ctx, conn, protocolError(inbound.ID, proto.ErrCodeInvalidMessage, "malformed envelope")); err != nil {
				return err
			}
			continue
		}

		if !limiter.allow() {
			if err := wsjson.Write(ctx, conn, rejection(inbound, proto.ErrCodeRateLimited, "too many events")); err != nil {
				return err
			}
			continue
		}

		ack, err := h.router.Handle(client.ID, inbound.Type, inbound.Data)
		if err != nil {
			if err := wsjson.Write(ctx, conn, rejection(inbound, proto.ErrCodeUnknownEvent, "unknown event type")); err != nil {
				return err
			}
			continue
		}
		if ack == nil {
			continue
		}
		if err := wsjson.Write(ctx, conn, outboundFromAck(inbound, ack)); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Str("event", inbound.Type).Msg("ack discarded")
			return err
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
