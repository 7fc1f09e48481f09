package core

import (
	"strconv"
	"testing"
)

func benchmarkRoomBroadcast(b *testing.B, recipients int) {
	hub := NewHub()

	sender := NewClient("sender", 1)
	_ = hub.RegisterClient(sender)
	hub.Join(sender.ID, "bench")

	clients := make([]*Client, 0, recipients)
	for i := range recipients {
		c := NewClient("c"+strconv.Itoa(i), 1)
		_ = hub.RegisterClient(c)
		hub.Join(c.ID, "bench")
		clients = append(clients, c)
	}

	ev := NewRoomEvent("messageCreated", "bench", "payload")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		hub.Broadcast("bench", ev, sender.ID)
		for _, c := range clients {
			<-c.Events
		}
	}
}

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_100(b *testing.B) { benchmarkRoomBroadcast(b, 100) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }

func BenchmarkRoomAppend(b *testing.B) {
	room := NewRoom("bench", DefaultHistoryLimit)
	msg := testMessage(0)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		msg.ID = strconv.Itoa(i)
		room.Append(msg)
	}
}
