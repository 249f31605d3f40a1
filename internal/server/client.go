// Package server manages individual WebSocket clients, handling read/write
// pumps and lifecycle control for each connection.
package server

import (
	"errors"
	"io"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/chatrelay/internal/protocol"
	"github.com/Tyrowin/chatrelay/internal/router"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Client represents a WebSocket client connection in the chat system.
// It implements registry.Handle: frames passed to Send are queued and
// written by the client's write pump.
type Client struct {
	conn           *websocket.Conn
	send           chan []byte
	hub            *Hub
	router         *router.Router
	session        *router.Session
	addr           string
	closed         bool
	maxMessageSize int64
}

// NewClient creates a new Client instance with the provided WebSocket connection,
// hub, router and client address. The client's send channel is buffered
// to cfg.SendBufferSize frames.
func NewClient(conn *websocket.Conn, hub *Hub, rt *router.Router, addr string, cfg Config) *Client {
	cfg = cfg.sanitized()
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	c := &Client{
		conn:           conn,
		send:           make(chan []byte, cfg.SendBufferSize),
		hub:            hub,
		router:         rt,
		addr:           addr,
		closed:         false,
		maxMessageSize: cfg.MaxMessageSize,
	}
	c.session = router.NewSession(c, addr)
	return c
}

// Send queues a frame for delivery. It fails if the client is no longer
// registered or cannot keep up.
func (c *Client) Send(frame []byte) error {
	return c.hub.safeSend(c, frame)
}

// GetSendChan returns the client's send channel for reading outgoing messages.
// This channel is read-only from the caller's perspective.
func (c *Client) GetSendChan() <-chan []byte {
	return c.send
}

// Session returns the router session bound to this connection.
func (c *Client) Session() *router.Session {
	return c.session
}

// setupReadConnection configures read deadlines and pong handler for the WebSocket connection
func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Error setting initial read deadline for %s: %v", c.addr, err)
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Error setting read deadline in pong handler for %s: %v", c.addr, err)
		}
		return nil
	})
}

// logReadError logs the error that ended the read loop at a level of
// detail that matches its cause.
func (c *Client) logReadError(err error) {
	if errors.Is(err, websocket.ErrReadLimit) {
		log.Printf("Message from %s exceeded maximum size of %d bytes", c.addr, c.maxMessageSize)
		return
	}

	// Check for expected close scenarios
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure) {
		log.Printf("Client %s disconnected: %v", c.addr, err)
		return
	}

	// Check for network errors
	if errors.Is(err, io.EOF) || isExpectedCloseError(err) {
		log.Printf("Client %s connection closed: %v", c.addr, err)
		return
	}

	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseMessageTooBig) {
		log.Printf("Unexpected WebSocket error from %s: %v", c.addr, err)
		return
	}

	log.Printf("WebSocket read error from %s: %v", c.addr, err)
}

// processMessage decodes a raw frame and dispatches it on this client's session.
func (c *Client) processMessage(rawMessage []byte) {
	cmd := protocol.Decode(rawMessage)
	log.Printf("Received %s from %s", cmd.Kind(), c.addr)
	c.router.Dispatch(c.session, cmd)
}

func (c *Client) readPump() {
	defer func() {
		c.router.Disconnect(c.session)
		c.hub.Unregister(c)
		if err := c.conn.Close(); err != nil {
			if !isExpectedCloseError(err) {
				log.Printf("Error closing connection in readPump: %v", err)
			}
		}
	}()

	c.setupReadConnection()

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		c.processMessage(rawMessage)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for c.processWriteEvent(ticker) {
	}
}

// processWriteEvent waits for the next write event and returns false when the
// pump should stop processing.
func (c *Client) processWriteEvent(ticker *time.Ticker) bool {
	select {
	case message, ok := <-c.send:
		return c.handleMessage(message, ok)
	case <-ticker.C:
		return c.handlePing()
	}
}

// closeConnection safely closes the WebSocket connection with proper error handling
func (c *Client) closeConnection() {
	if err := c.conn.Close(); err != nil {
		// Only log unexpected connection close errors
		if !isExpectedCloseError(err) {
			log.Printf("Error closing connection in writePump: %v", err)
		}
	}
}

// handleMessage processes outgoing messages and returns false if the connection should be closed
func (c *Client) handleMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Error setting write deadline for %s: %v", c.addr, err)
		return false
	}

	if !ok {
		return c.writeCloseMessage()
	}

	return c.writeTextMessage(message)
}

// writeCloseMessage sends a close message to the client
func (c *Client) writeCloseMessage() bool {
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		if !isExpectedCloseError(err) {
			log.Printf("Error writing close message to %s: %v", c.addr, err)
		}
	}
	return false
}

// writeTextMessage writes one protocol frame. Frames are never coalesced:
// each is a standalone JSON document, or empty for an acknowledgement.
func (c *Client) writeTextMessage(message []byte) bool {
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		log.Printf("Error writing message to %s: %v", c.addr, err)
		return false
	}
	return true
}

// handlePing sends a ping message to keep the connection alive
func (c *Client) handlePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Error setting write deadline for ping to %s: %v", c.addr, err)
		return false
	}
	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		log.Printf("Error writing ping message to %s: %v", c.addr, err)
		return false
	}
	return true
}
