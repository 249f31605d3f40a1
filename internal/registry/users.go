package registry

import (
	"slices"
	"sync"
)

// Handle is a thread-safe write channel to one connected client. Handles are
// compared by identity, so implementations should be pointer types.
type Handle interface {
	Send(frame []byte) error
}

type userEntry struct {
	username string
	handle   Handle
}

// UserRegistry maps usernames to the handle of the connection that owns them.
type UserRegistry struct {
	mu    sync.RWMutex
	users map[string]*userEntry
	order []string // folded keys in insertion order
}

// NewUserRegistry returns an empty registry.
func NewUserRegistry() *UserRegistry {
	return &UserRegistry{
		users: make(map[string]*userEntry),
	}
}

// Connect registers username with handle unless a case-insensitive match is
// already present. It reports whether a new entry was created; a repeated
// name keeps its original handle.
func (r *UserRegistry) Connect(username string, handle Handle) bool {
	key := Fold(username)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[key]; exists {
		return false
	}
	r.users[key] = &userEntry{username: username, handle: handle}
	r.order = append(r.order, key)
	return true
}

// Disconnect removes username if present.
func (r *UserRegistry) Disconnect(username string) bool {
	key := Fold(username)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[key]; !exists {
		return false
	}
	r.remove(key)
	return true
}

// Release removes username only while it is still owned by handle. A
// connection that lost the race for a name cannot evict the winner.
func (r *UserRegistry) Release(username string, handle Handle) bool {
	key := Fold(username)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.users[key]
	if !exists || entry.handle != handle {
		return false
	}
	r.remove(key)
	return true
}

func (r *UserRegistry) remove(key string) {
	delete(r.users, key)
	if i := slices.Index(r.order, key); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// Find returns the handle registered for username.
func (r *UserRegistry) Find(username string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.users[Fold(username)]
	if !exists {
		return nil, false
	}
	return entry.handle, true
}

// List returns the registered usernames, as first spelled, in connect order.
func (r *UserRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.users[key].username)
	}
	return names
}

// Handles returns a snapshot of every registered handle in connect order.
func (r *UserRegistry) Handles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]Handle, 0, len(r.order))
	for _, key := range r.order {
		handles = append(handles, r.users[key].handle)
	}
	return handles
}

// Len returns the number of registered users.
func (r *UserRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
