package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/roomchat-server/internal/core"
)

type testEnv struct {
	router   *Router
	registry *core.Registry
	store    *core.Store
	hub      *core.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	registry := core.NewRegistry()
	store := core.NewStore(core.DefaultHistoryLimit)
	hub := core.NewHub()
	router := NewRouter(DefaultConfig(), registry, store, hub, nil)
	t.Cleanup(hub.Shutdown)

	return &testEnv{router: router, registry: registry, store: store, hub: hub}
}

// connect attaches a client and swallows its "connected" greeting.
func (e *testEnv) connect(t *testing.T, id string) *core.Client {
	t.Helper()

	c := core.NewClient(id, 1024)
	require.NoError(t, e.router.Attach(c))
	mustEvent(t, c.Events, "connected")
	return c
}

// login connects a client, logs it in and drains the login broadcasts.
func (e *testEnv) login(t *testing.T, id, name string) *core.Client {
	t.Helper()

	c := e.connect(t, id)
	ack := e.call(t, id, "login", map[string]any{"displayName": name})
	require.True(t, ack.OK(), "login %s: %+v", name, ack.Err)
	drain(c.Events)
	return c
}

func (e *testEnv) call(t *testing.T, connID, event string, payload any) *Ack {
	t.Helper()

	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		data = raw
	}
	ack, err := e.router.Handle(connID, event, data)
	require.NoError(t, err)
	return ack
}

func mustEvent(t *testing.T, ch <-chan *core.Event, name string) *core.Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event channel closed while waiting for %q", name)
			}
			if ev != nil && ev.Name == name {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event %q not received", name)
			return nil
		}
	}
}

// drain empties the queue without blocking and returns what it found.
func drain(ch <-chan *core.Event) []*core.Event {
	var out []*core.Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventNames(events []*core.Event) []string {
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	return names
}
