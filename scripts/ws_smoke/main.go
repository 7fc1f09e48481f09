package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomchat-server/internal/proto"
)

// incoming mirrors proto.Outbound with the payload left undecoded.
type incoming struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "tester", "display name to log in with")
	room := flag.String("room", "global", "room name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(event, id string, payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", event, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: event, ID: id, Data: data}); err != nil {
			return fmt.Errorf("send %s: %w", event, err)
		}
		return nil
	}

	if err := send(proto.InboundLogin, "1", proto.LoginData{DisplayName: *user}); err != nil {
		return err
	}
	if err := send(proto.InboundJoinRoom, "2", proto.RoomData{RoomID: *room}); err != nil {
		return err
	}
	if err := send(proto.InboundPostMessage, "3", proto.PostMessageData{RoomID: *room, Text: *text}); err != nil {
		return err
	}

	for {
		var in incoming
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received: type=%s", in.Type)
		if in.Event != "" {
			fmt.Printf(" event=%s", in.Event)
		}
		if in.ID != "" {
			fmt.Printf(" id=%s", in.ID)
		}
		fmt.Println()

		if in.Error != nil {
			return fmt.Errorf("protocol error %s: %s", in.Error.Code, in.Error.Msg)
		}

		if in.Type == proto.OutboundTypeAck {
			var status proto.ErrorAck
			if err := json.Unmarshal(in.Data, &status); err == nil && status.Status == proto.StatusError {
				return fmt.Errorf("%s failed: %s (%s)", in.Event, status.Message, status.Code)
			}
			continue
		}

		if in.Event == proto.EventMessageCreated {
			var msg proto.Message
			if err := json.Unmarshal(in.Data, &msg); err != nil {
				fmt.Printf("Raw data: %s\n", string(in.Data))
				return fmt.Errorf("unmarshal message: %w", err)
			}
			fmt.Printf("Message: room=%s user=%s text=%q ts=%d\n", msg.RoomID, msg.Sender.DisplayName, msg.Text, msg.CreatedAt)
			return nil
		}
	}
}
