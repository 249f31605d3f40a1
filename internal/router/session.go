package router

import (
	"sync"

	"github.com/Tyrowin/chatrelay/internal/registry"
)

// Session is the router's view of one connection: its handle and the
// username it owns, if any.
type Session struct {
	handle registry.Handle
	addr   string

	mu       sync.Mutex
	username string
}

// NewSession binds a connection handle. addr is used for logging only.
func NewSession(handle registry.Handle, addr string) *Session {
	return &Session{handle: handle, addr: addr}
}

// Handle returns the connection handle.
func (s *Session) Handle() registry.Handle {
	return s.handle
}

// Addr returns the remote address the session was created with.
func (s *Session) Addr() string {
	return s.addr
}

// Username returns the name this session owns in the user registry, or ""
// before a successful CONNECT.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Session) setUsername(username string) {
	s.mu.Lock()
	s.username = username
	s.mu.Unlock()
}
