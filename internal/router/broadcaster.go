package router

import (
	"log"

	"github.com/Tyrowin/chatrelay/internal/registry"
)

// Target selects who receives a delivery.
type Target int

// Delivery targets.
const (
	Self Target = iota
	Broadcast
	Direct
)

func (t Target) String() string {
	switch t {
	case Self:
		return "self"
	case Broadcast:
		return "broadcast"
	case Direct:
		return "direct"
	default:
		return "unknown"
	}
}

// Recipient is a resolved Target. Username is only meaningful for Direct.
type Recipient struct {
	Target   Target
	Username string
}

// ToSelf addresses the connection that sent the command.
func ToSelf() Recipient { return Recipient{Target: Self} }

// ToAll addresses every connected user.
func ToAll() Recipient { return Recipient{Target: Broadcast} }

// ToUser addresses one user by name.
func ToUser(username string) Recipient { return Recipient{Target: Direct, Username: username} }

// Broadcaster writes encoded frames to connection handles.
type Broadcaster struct {
	users *registry.UserRegistry
}

// NewBroadcaster returns a Broadcaster resolving names through users.
func NewBroadcaster(users *registry.UserRegistry) *Broadcaster {
	return &Broadcaster{users: users}
}

// Send delivers frame to the recipient and returns how many handles accepted
// it. self is the sender's own handle and may be nil. A missing recipient is
// not an error: the user may have disconnected since the command was read.
func (b *Broadcaster) Send(self registry.Handle, to Recipient, frame []byte) int {
	switch to.Target {
	case Self:
		if self == nil {
			return 0
		}
		return b.write(self, "sender", frame)
	case Direct:
		handle, ok := b.users.Find(to.Username)
		if !ok {
			log.Printf("Dropping message for %q: user is not connected", to.Username)
			return 0
		}
		return b.write(handle, to.Username, frame)
	case Broadcast:
		return b.Broadcast(frame)
	default:
		log.Printf("Dropping message with unknown target %v", to.Target)
		return 0
	}
}

// Broadcast writes frame to every registered handle. A failing handle does
// not stop delivery to the rest.
func (b *Broadcaster) Broadcast(frame []byte) int {
	handles := b.users.Handles()
	delivered := 0
	for _, handle := range handles {
		delivered += b.write(handle, "broadcast recipient", frame)
	}
	return delivered
}

func (b *Broadcaster) write(handle registry.Handle, who string, frame []byte) int {
	if err := handle.Send(frame); err != nil {
		log.Printf("Delivery to %s failed: %v", who, err)
		return 0
	}
	return 1
}
