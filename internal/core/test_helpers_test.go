package core

import (
	"fmt"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, name string) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Name == name {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event %q not received", name)
	return nil
}

func noEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	default:
	}
}

var testClock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func testMessage(i int) Message {
	return Message{
		ID:        fmt.Sprintf("m%d", i),
		Text:      fmt.Sprintf("text %d", i),
		Sender:    Sender{UserID: "u1", DisplayName: "alice"},
		CreatedAt: testClock.Add(time.Duration(i) * time.Second),
	}
}
