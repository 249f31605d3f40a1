// Package server wires HTTP handlers into a ServeMux via routing helpers.
package server

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux with all application routes.
// /chat is the WebSocket endpoint browser clients connect to; /ws is kept as
// an alias.
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", HealthHandler)
	mux.HandleFunc("/chat", s.WebSocketHandler)
	mux.HandleFunc("/ws", s.WebSocketHandler)
	return mux
}
