package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
	"github.com/vovakirdan/roomchat-server/internal/session"
)

type testServer struct {
	ts     *httptest.Server
	router *session.Router
	hub    *core.Hub
}

func startTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.EventsPerSecond = 0
	for _, m := range mutate {
		m(&cfg)
	}

	disabledLogger := zerolog.Nop()
	hub := core.NewHub()
	router := session.NewRouter(session.Config{
		DefaultRoom:     cfg.DefaultRoom,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		MaxTextLength:   cfg.MaxTextLength,
		MaxAttachments:  cfg.MaxAttachments,
	}, core.NewRegistry(), core.NewStore(cfg.HistoryLimit), hub, &disabledLogger)

	server := NewServer(router, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		hub.Shutdown()
		ts.Close()
	})

	return &testServer{ts: ts, router: router, hub: hub}
}

// frame is the decoded form of any outbound envelope.
type frame struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

type wsClient struct {
	t    *testing.T
	ctx  context.Context
	conn *websocket.Conn
	ref  string
}

func (s *testServer) dial(t *testing.T) *wsClient {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	wsURL := "ws" + strings.TrimPrefix(s.ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	conn.SetReadLimit(1 << 20)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })

	c := &wsClient{t: t, ctx: ctx, conn: conn}
	connected := c.waitEvent(proto.EventConnected)

	var data proto.ConnectedEvent
	require.NoError(t, json.Unmarshal(connected.Data, &data))
	require.NotEmpty(t, data.ConnectionRef)
	require.Equal(t, proto.ProtocolVersion, data.Protocol)
	c.ref = data.ConnectionRef
	return c
}

func (c *wsClient) send(event, id string, payload any) {
	c.t.Helper()

	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(c.t, err)
		raw = b
	}
	require.NoError(c.t, wsjson.Write(c.ctx, c.conn, proto.Inbound{Type: event, ID: id, Data: raw}))
}

func (c *wsClient) sendRaw(text string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.Write(c.ctx, websocket.MessageText, []byte(text)))
}

func (c *wsClient) read() frame {
	c.t.Helper()

	var f frame
	require.NoError(c.t, wsjson.Read(c.ctx, c.conn, &f))
	return f
}

// waitFor reads frames until match accepts one.
func (c *wsClient) waitFor(match func(frame) bool) frame {
	c.t.Helper()
	for {
		if f := c.read(); match(f) {
			return f
		}
	}
}

func (c *wsClient) waitEvent(name string) frame {
	c.t.Helper()
	return c.waitFor(func(f frame) bool {
		return f.Type == proto.OutboundTypeEvent && f.Event == name
	})
}

func (c *wsClient) waitReply(id string) frame {
	c.t.Helper()
	return c.waitFor(func(f frame) bool {
		return f.ID == id && (f.Type == proto.OutboundTypeAck || f.Type == proto.OutboundTypeError)
	})
}

func (c *wsClient) login(name string) proto.Identity {
	c.t.Helper()

	c.send(proto.InboundLogin, "login-"+name, proto.LoginData{DisplayName: name})
	reply := c.waitReply("login-" + name)
	require.Equal(c.t, proto.OutboundTypeAck, reply.Type)

	var ack proto.LoginAck
	require.NoError(c.t, json.Unmarshal(reply.Data, &ack))
	require.Equal(c.t, proto.StatusOK, ack.Status)
	return ack.Identity
}
