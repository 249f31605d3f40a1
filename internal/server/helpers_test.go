package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/chatrelay/internal/protocol"
)

// startTestRelay starts a relay behind an httptest server that accepts its
// own origin. customize may adjust the config before the relay is built.
func startTestRelay(t *testing.T, customize func(cfg *Config)) (*Server, *httptest.Server) {
	t.Helper()

	cfg := NewConfig()
	cfg.AllowedOrigins = []string{"*"}
	if customize != nil {
		customize(cfg)
	}

	relay := New(cfg)
	relay.StartHub()

	testServer := httptest.NewServer(relay.SetupRoutes())
	t.Cleanup(func() {
		testServer.Close()
		_ = relay.Shutdown(2 * time.Second)
	})
	return relay, testServer
}

func buildWebSocketURL(serverURL, path string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + path
}

func newOriginHeader(origin string) http.Header {
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return header
}

// dial opens a WebSocket to /chat with the server's own origin.
func dial(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.Dial(buildWebSocketURL(serverURL, "/chat"), newOriginHeader(serverURL))
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("Failed to send %s: %v", frame, err)
	}
}

// receive reads the next frame and decodes it as a client would.
func receive(t *testing.T, conn *websocket.Conn) protocol.Response {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	resp, err := protocol.DecodeResponse(frame)
	if err != nil {
		t.Fatalf("Failed to decode %q: %v", frame, err)
	}
	return resp
}

// expectNoMessage fails if a frame arrives within timeout. A read timeout
// leaves a gorilla connection permanently failed, so conn must not be read
// again afterwards.
func expectNoMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	_, frame, err := conn.ReadMessage()
	if err == nil {
		t.Fatalf("Expected no message, got %q", frame)
	}
}
