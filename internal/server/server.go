// Package server assembles the relay: registries, router, hub and the HTTP
// handlers that feed them.
package server

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/chatrelay/internal/registry"
	"github.com/Tyrowin/chatrelay/internal/router"
)

// Server owns the relay state for one process. Construct it once at start
// up and share it with every handler.
type Server struct {
	config   Config
	origins  *originPolicy
	upgrader websocket.Upgrader
	hub      *Hub
	users    *registry.UserRegistry
	rooms    *registry.RoomRegistry
	router   *router.Router
}

// New builds a Server from cfg. A nil cfg uses the defaults.
func New(cfg *Config) *Server {
	if cfg == nil {
		cfg = NewConfig()
	}
	config := cfg.sanitized()

	users := registry.NewUserRegistry()
	rooms := registry.NewRoomRegistry()

	s := &Server{
		config:  config,
		origins: newOriginPolicy(config.AllowedOrigins),
		hub:     NewHub(),
		users:   users,
		rooms:   rooms,
		router:  router.New(users, rooms),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.origins.checkOrigin,
	}
	return s
}

// Config returns the sanitized configuration the server runs with.
func (s *Server) Config() Config {
	return s.config
}

// Hub returns the connection hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Users returns the user registry.
func (s *Server) Users() *registry.UserRegistry {
	return s.users
}

// Rooms returns the room registry.
func (s *Server) Rooms() *registry.RoomRegistry {
	return s.rooms
}

// StartHub starts the hub in a separate goroutine. This should be called
// before serving HTTP.
func (s *Server) StartHub() {
	go s.hub.Run()
	log.Println("Hub started and ready to manage WebSocket connections")
}

// Shutdown closes every client and waits up to timeout for their pumps.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.hub.Shutdown(timeout)
}
