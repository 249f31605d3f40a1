package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tyrowin/chatrelay/internal/registry"
)

// TestBroadcastIsolatesFailures verifies a failing handle does not stop
// delivery to the others.
func TestBroadcastIsolatesFailures(t *testing.T) {
	users := registry.NewUserRegistry()
	good1 := &recorder{}
	broken := &recorder{fail: errors.New("peer gone")}
	good2 := &recorder{}
	users.Connect("alice", good1)
	users.Connect("bob", broken)
	users.Connect("carol", good2)

	b := NewBroadcaster(users)
	delivered := b.Send(nil, ToAll(), []byte("frame"))

	assert.Equal(t, 2, delivered)
	assert.Equal(t, [][]byte{[]byte("frame")}, good1.frames)
	assert.Equal(t, [][]byte{[]byte("frame")}, good2.frames)
}

// TestSendDirectAndSelf verifies unicast resolution, including a recipient
// that is no longer connected.
func TestSendDirectAndSelf(t *testing.T) {
	users := registry.NewUserRegistry()
	alice := &recorder{}
	users.Connect("Alice", alice)
	b := NewBroadcaster(users)

	assert.Equal(t, 1, b.Send(nil, ToUser("alice"), []byte("direct")))
	assert.Equal(t, 0, b.Send(nil, ToUser("ghost"), []byte("lost")))

	self := &recorder{}
	assert.Equal(t, 1, b.Send(self, ToSelf(), []byte("mine")))
	assert.Equal(t, 0, b.Send(nil, ToSelf(), []byte("nobody")))

	assert.Equal(t, [][]byte{[]byte("direct")}, alice.frames)
	assert.Equal(t, [][]byte{[]byte("mine")}, self.frames)
}

// TestTargetString verifies target names used in logs.
func TestTargetString(t *testing.T) {
	assert.Equal(t, "self", Self.String())
	assert.Equal(t, "broadcast", Broadcast.String())
	assert.Equal(t, "direct", Direct.String())
	assert.Equal(t, "unknown", Target(42).String())
}
