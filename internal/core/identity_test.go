package core

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	id, err := r.Register("  alice ", "c1", "global")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.DisplayName)
	assert.Equal(t, "c1", id.ConnID)
	assert.Equal(t, "global", id.CurrentRoom)
	assert.NotEmpty(t, id.UserID)

	got, err := r.Lookup("c1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = r.Lookup("c2")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRegistryNameConflict(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("alice", "c1", "global")
	require.NoError(t, err)

	_, err = r.Register("alice", "c2", "global")
	assert.ErrorIs(t, err, ErrNameConflict)

	removed, ok := r.Unregister("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", removed.DisplayName)

	_, err = r.Register("alice", "c2", "global")
	assert.NoError(t, err, "name is reusable once freed")
}

func TestRegistryRejectsInvalidRegistrations(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("", "c1", "global")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = r.Register(strings.Repeat("x", MaxDisplayNameLength+1), "c1", "global")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = r.Register("alice", "c1", "global")
	require.NoError(t, err)
	_, err = r.Register("bob", "c1", "global")
	assert.ErrorIs(t, err, ErrInvalidRequest, "one identity per connection")
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Register("alice", "c1", "global")

	_, ok := r.Unregister("c1")
	assert.True(t, ok)
	_, ok = r.Unregister("c1")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestRegistrySnapshotOrder(t *testing.T) {
	r := NewRegistry()
	for i, name := range []string{"carol", "alice", "bob"} {
		_, err := r.Register(name, fmt.Sprintf("c%d", i), "global")
		require.NoError(t, err)
	}
	r.Unregister("c1")
	_, _ = r.Register("dave", "c9", "global")

	names := make([]string, 0, 3)
	for _, p := range r.Snapshot() {
		names = append(names, p.DisplayName)
	}
	assert.Equal(t, []string{"carol", "bob", "dave"}, names)
}

func TestRegistrySetCurrentRoom(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Register("alice", "c1", "global")

	require.NoError(t, r.SetCurrentRoom("c1", "dev"))
	id, _ := r.Lookup("c1")
	assert.Equal(t, "dev", id.CurrentRoom)

	assert.ErrorIs(t, r.SetCurrentRoom("c2", "dev"), ErrNotAuthenticated)
}

func TestRegistryConcurrentSameName(t *testing.T) {
	r := NewRegistry()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := r.Register("alice", fmt.Sprintf("c%d", i), "global"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, r.Len())
}
