package core

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/vovakirdan/roomchat-server/internal/utils"
)

// MaxDisplayNameLength bounds display names in bytes.
const MaxDisplayNameLength = 64

// Identity binds a connection to a claimed display name for the lifetime of
// the connection.
type Identity struct {
	UserID      string
	DisplayName string
	ConnID      string
	CurrentRoom string
}

// Sender returns the message author view of the identity.
func (i Identity) Sender() Sender {
	return Sender{UserID: i.UserID, DisplayName: i.DisplayName}
}

// Presence is one entry of a presence snapshot.
type Presence struct {
	UserID      string
	DisplayName string
	ConnID      string
}

type registration struct {
	identity Identity
	seq      uint64
}

// Registry tracks the identities of connected clients. Display names are
// unique among connected identities only and are freed on Unregister.
type Registry struct {
	newID func() string

	mu     sync.Mutex
	seq    uint64
	byConn map[string]*registration
	byName map[string]string // display name -> conn id
}

// NewRegistry builds an empty registry issuing UUID user ids.
func NewRegistry() *Registry {
	return &Registry{
		newID:  utils.NewID,
		byConn: make(map[string]*registration),
		byName: make(map[string]string),
	}
}

// Register claims displayName for connID and places the identity in
// defaultRoom.
func (r *Registry) Register(displayName, connID, defaultRoom string) (Identity, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return Identity{}, InvalidRequest("display name is required")
	}
	if len(name) > MaxDisplayNameLength {
		return Identity{}, InvalidRequest("display name is too long")
	}
	if connID == "" {
		return Identity{}, InvalidRequest("connection is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byConn[connID]; exists {
		return Identity{}, InvalidRequest("already logged in")
	}
	if _, taken := r.byName[name]; taken {
		return Identity{}, ErrNameConflict
	}

	r.seq++
	reg := &registration{
		identity: Identity{
			UserID:      r.newID(),
			DisplayName: name,
			ConnID:      connID,
			CurrentRoom: defaultRoom,
		},
		seq: r.seq,
	}
	r.byConn[connID] = reg
	r.byName[name] = connID
	return reg.identity, nil
}

// Lookup resolves the identity bound to connID.
func (r *Registry) Lookup(connID string) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.byConn[connID]
	if !ok {
		return Identity{}, ErrNotAuthenticated
	}
	return reg.identity, nil
}

// SetCurrentRoom records the room the connection most recently joined.
func (r *Registry) SetCurrentRoom(connID, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.byConn[connID]
	if !ok {
		return ErrNotAuthenticated
	}
	reg.identity.CurrentRoom = roomID
	return nil
}

// Unregister removes the identity of connID. The bool is false when the
// connection had no identity, which callers treat as a no-op.
func (r *Registry) Unregister(connID string) (Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.byConn[connID]
	if !ok {
		return Identity{}, false
	}
	delete(r.byConn, connID)
	if r.byName[reg.identity.DisplayName] == connID {
		delete(r.byName, reg.identity.DisplayName)
	}
	return reg.identity, true
}

// Snapshot lists connected identities in registration order.
func (r *Registry) Snapshot() []Presence {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := lo.Values(r.byConn)
	slices.SortFunc(regs, func(a, b *registration) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return lo.Map(regs, func(reg *registration, _ int) Presence {
		return Presence{
			UserID:      reg.identity.UserID,
			DisplayName: reg.identity.DisplayName,
			ConnID:      reg.identity.ConnID,
		}
	})
}

// Len returns the number of connected identities.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byConn)
}
