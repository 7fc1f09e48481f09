package core

import (
	"testing"
)

func TestHubJoinBroadcastAndLeave(t *testing.T) {
	hub := NewHub()

	alice := NewClient("a", 8)
	bob := NewClient("b", 8)

	if err := hub.RegisterClient(alice); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if err := hub.RegisterClient(bob); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	if !hub.Join("a", "general") || !hub.Join("b", "general") {
		t.Fatal("expected both joins to succeed")
	}
	if hub.Join("a", "general") {
		t.Fatal("double join should report false")
	}
	if got := hub.Members("general"); got != 2 {
		t.Fatalf("expected 2 members, got %d", got)
	}

	delivered := hub.Broadcast("general", NewRoomEvent("messageCreated", "general", "hi"), "a")
	if delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}
	ev := mustEvent(t, bob.Events, "messageCreated")
	if ev.Room != "general" || ev.Data != "hi" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	noEvent(t, alice.Events)

	if !hub.Leave("a", "general") {
		t.Fatal("expected leave to succeed")
	}
	if hub.Leave("a", "general") {
		t.Fatal("second leave should report false")
	}
	if hub.Subscribed("a", "general") {
		t.Fatal("alice still subscribed after leave")
	}
	hub.Broadcast("general", NewRoomEvent("messageCreated", "general", "again"), "")
	noEvent(t, alice.Events)
	mustEvent(t, bob.Events, "messageCreated")
}

func TestHubBroadcastAllAndSendTo(t *testing.T) {
	hub := NewHub()
	a, b := NewClient("a", 4), NewClient("b", 4)
	_ = hub.RegisterClient(a)
	_ = hub.RegisterClient(b)

	if n := hub.BroadcastAll(NewEvent("presenceSnapshot", nil), ""); n != 2 {
		t.Fatalf("expected 2 deliveries, got %d", n)
	}
	if n := hub.BroadcastAll(NewEvent("userJoined", nil), "b"); n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}
	mustEvent(t, a.Events, "userJoined")

	if !hub.SendTo("b", NewEvent("privateMessageDelivered", nil)) {
		t.Fatal("SendTo known client failed")
	}
	if hub.SendTo("ghost", NewEvent("privateMessageDelivered", nil)) {
		t.Fatal("SendTo unknown client should fail")
	}
	mustEvent(t, b.Events, "privateMessageDelivered")
}

func TestHubDropsForSlowConsumer(t *testing.T) {
	hub := NewHub()
	slow := NewClient("slow", 1)
	_ = hub.RegisterClient(slow)
	hub.Join("slow", "r")

	hub.Broadcast("r", NewRoomEvent("e", "r", 1), "")
	if n := hub.Broadcast("r", NewRoomEvent("e", "r", 2), ""); n != 0 {
		t.Fatalf("expected the full queue to drop, got %d deliveries", n)
	}
	if slow.Dropped() != 1 {
		t.Fatalf("expected 1 dropped event, got %d", slow.Dropped())
	}
}

func TestHubUnregisterClosesQueue(t *testing.T) {
	hub := NewHub()
	c := NewClient("c", 4)
	_ = hub.RegisterClient(c)
	hub.Join("c", "r1")
	hub.Join("c", "r2")

	rooms := hub.UnregisterClient("c")
	if len(rooms) != 2 || rooms[0] != "r1" || rooms[1] != "r2" {
		t.Fatalf("unexpected rooms: %v", rooms)
	}
	if _, ok := <-c.Events; ok {
		t.Fatal("expected closed queue")
	}
	if hub.Members("r1") != 0 || hub.Len() != 0 {
		t.Fatal("client still referenced after unregister")
	}
	if rooms := hub.UnregisterClient("c"); rooms != nil {
		t.Fatalf("second unregister should be a no-op, got %v", rooms)
	}
	if hub.Join("c", "r1") {
		t.Fatal("join after unregister should fail")
	}
}

func TestHubShutdown(t *testing.T) {
	hub := NewHub()
	c := NewClient("c", 4)
	_ = hub.RegisterClient(c)

	hub.Shutdown()
	hub.Shutdown()

	if _, ok := <-c.Events; ok {
		t.Fatal("expected closed queue after shutdown")
	}
	if err := hub.RegisterClient(NewClient("late", 1)); err != ErrHubClosed {
		t.Fatalf("expected ErrHubClosed, got %v", err)
	}
	hub.UnregisterClient("c")
}
