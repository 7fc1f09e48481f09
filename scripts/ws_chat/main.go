package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomchat-server/internal/proto"
)

type incoming struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "display name")
	room := flag.String("room", "global", "room to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, conn, proto.InboundLogin, proto.LoginData{DisplayName: *user}); err != nil {
		return err
	}
	if err := send(ctx, conn, proto.InboundJoinRoom, proto.RoomData{RoomID: *room}); err != nil {
		return err
	}
	if err := send(ctx, conn, proto.InboundLoadMessages, proto.LoadMessagesData{RoomID: *room, Limit: 20}); err != nil {
		return err
	}

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, *user, *room)
	fmt.Println("Type messages and press Enter to send. /dm <connectionRef> <text> sends privately. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn, *room)
	}()

	writeLoop(ctx, conn, *room)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: event, ID: event, Data: data}); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn, room string) {
	for {
		var in incoming
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch {
		case in.Error != nil:
			fmt.Printf("! %s: %s\n", in.Error.Code, in.Error.Msg)
		case in.Type == proto.OutboundTypeAck:
			printAck(in)
		default:
			printEvent(in, room)
		}
	}
}

func printAck(in incoming) {
	var failed proto.ErrorAck
	if err := json.Unmarshal(in.Data, &failed); err == nil && failed.Status == proto.StatusError {
		fmt.Printf("! %s failed: %s\n", in.Event, failed.Message)
		return
	}
	switch in.Event {
	case proto.InboundLogin:
		var ack proto.LoginAck
		if err := json.Unmarshal(in.Data, &ack); err == nil {
			fmt.Printf("logged in as %s (connection %s)\n", ack.Identity.DisplayName, ack.Identity.ConnectionRef)
		}
	case proto.InboundLoadMessages:
		var ack proto.MessagesAck
		if err := json.Unmarshal(in.Data, &ack); err == nil {
			for _, msg := range ack.Messages {
				fmt.Printf("[%s] %s: %s\n", msg.RoomID, msg.Sender.DisplayName, msg.Text)
			}
		}
	}
}

func printEvent(in incoming, room string) {
	switch in.Event {
	case proto.EventMessageCreated, proto.EventPrivateMessage:
		var msg proto.Message
		if err := json.Unmarshal(in.Data, &msg); err != nil {
			log.Printf("unmarshal message: %v", err)
			return
		}
		if msg.Private {
			fmt.Printf("[dm] %s: %s\n", msg.Sender.DisplayName, msg.Text)
			return
		}
		fmt.Printf("[%s] %s: %s\n", msg.RoomID, msg.Sender.DisplayName, msg.Text)
	case proto.EventUserJoined, proto.EventUserLeft:
		var evt proto.UserEvent
		if err := json.Unmarshal(in.Data, &evt); err != nil {
			log.Printf("unmarshal %s: %v", in.Event, err)
			return
		}
		verb := "connected"
		if in.Event == proto.EventUserLeft {
			verb = "disconnected"
		}
		fmt.Printf("%s %s\n", evt.DisplayName, verb)
	case proto.EventUserJoinedRoom, proto.EventUserLeftRoom:
		var evt proto.RoomMembershipEvent
		if err := json.Unmarshal(in.Data, &evt); err != nil || evt.RoomID != room {
			return
		}
		verb := "joined"
		if in.Event == proto.EventUserLeftRoom {
			verb = "left"
		}
		fmt.Printf("[room %s] %s %s\n", evt.RoomID, evt.DisplayName, verb)
	case proto.EventConnected, proto.EventPresenceSnapshot, proto.EventTypingIndicator,
		proto.EventReactionChanged, proto.EventReadReceiptChanged:
		// not shown in the line-oriented client
	default:
		fmt.Printf("event=%s data=%s\n", in.Event, string(in.Data))
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, room string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			event, payload := proto.InboundPostMessage, any(proto.PostMessageData{RoomID: room, Text: text})
			if rest, found := strings.CutPrefix(text, "/dm "); found {
				target, body, _ := strings.Cut(rest, " ")
				event = proto.InboundPostPrivateMessage
				payload = proto.PrivateMessageData{TargetConnectionRef: target, Text: body}
			}
			if err := send(ctx, conn, event, payload); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
