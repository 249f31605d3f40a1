package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type stubHandle struct {
	name string
}

func (*stubHandle) Send([]byte) error { return nil }

// TestUserRegistryConnectIsCaseInsensitive verifies that case variants of a
// name map to a single entry that keeps its first spelling and handle.
func TestUserRegistryConnectIsCaseInsensitive(t *testing.T) {
	users := NewUserRegistry()
	first := &stubHandle{name: "first"}
	second := &stubHandle{name: "second"}

	assert.True(t, users.Connect("Alice", first))
	assert.False(t, users.Connect("alice", second))
	assert.False(t, users.Connect("ALICE", second))

	assert.Equal(t, 1, users.Len())
	assert.Equal(t, []string{"Alice"}, users.List())

	handle, ok := users.Find("aLiCe")
	require.True(t, ok)
	assert.Same(t, first, handle)
}

// TestUserRegistryListOrder verifies that List follows connect order and
// closes gaps left by removals.
func TestUserRegistryListOrder(t *testing.T) {
	users := NewUserRegistry()
	for _, name := range []string{"carol", "alice", "bob"} {
		users.Connect(name, &stubHandle{name: name})
	}
	assert.Equal(t, []string{"carol", "alice", "bob"}, users.List())

	assert.True(t, users.Disconnect("ALICE"))
	assert.Equal(t, []string{"carol", "bob"}, users.List())
	assert.Len(t, users.Handles(), 2)

	users.Connect("alice", &stubHandle{name: "alice"})
	assert.Equal(t, []string{"carol", "bob", "alice"}, users.List())
}

// TestUserRegistryDisconnectUnknown verifies disconnecting an absent name is a no-op.
func TestUserRegistryDisconnectUnknown(t *testing.T) {
	users := NewUserRegistry()
	assert.False(t, users.Disconnect("nobody"))
	assert.Empty(t, users.List())

	_, ok := users.Find("nobody")
	assert.False(t, ok)
}

// TestUserRegistryReleaseRequiresOwner verifies that only the handle that owns
// a name can release it.
func TestUserRegistryReleaseRequiresOwner(t *testing.T) {
	users := NewUserRegistry()
	owner := &stubHandle{name: "owner"}
	loser := &stubHandle{name: "loser"}

	users.Connect("alice", owner)
	users.Connect("Alice", loser)

	assert.False(t, users.Release("alice", loser))
	assert.Equal(t, 1, users.Len())

	assert.True(t, users.Release("ALICE", owner))
	assert.Equal(t, 0, users.Len())
}

// TestUserRegistryConcurrentConnect verifies that concurrent connects of the
// same name in different cases create exactly one entry.
func TestUserRegistryConcurrentConnect(t *testing.T) {
	users := NewUserRegistry()
	variants := []string{"bob", "Bob", "BOB", "bOb"}

	var g errgroup.Group
	created := make(chan bool, 64)
	for i := 0; i < 64; i++ {
		name := variants[i%len(variants)]
		handle := &stubHandle{name: fmt.Sprintf("h%d", i)}
		g.Go(func() error {
			created <- users.Connect(name, handle)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(created)

	wins := 0
	for ok := range created {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, users.Len())
}

// TestFold verifies the identity key used for case-insensitive comparison.
func TestFold(t *testing.T) {
	assert.Equal(t, Fold("General"), Fold("GENERAL"))
	assert.True(t, SameName("Émile", "éMILE"))
	assert.False(t, SameName("alice", "bob"))
}
