// Package router turns decoded protocol commands into registry mutations
// and outbound deliveries.
//
// Dispatch is safe to call from one goroutine per connection. Updates that
// are followed by a notification are serialized with the notification, so
// recipients never observe an older user list, room list or post history
// after a newer one.
package router

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Tyrowin/chatrelay/internal/protocol"
	"github.com/Tyrowin/chatrelay/internal/registry"
)

// Delivery pairs a response with its recipient.
type Delivery struct {
	To       Recipient
	Response protocol.Response
}

// emitFunc receives deliveries in the order they must reach clients.
type emitFunc func(deliveries ...Delivery)

// Router dispatches commands against the user and room registries.
type Router struct {
	users       *registry.UserRegistry
	rooms       *registry.RoomRegistry
	broadcaster *Broadcaster

	presence sync.Mutex // user list changes and their CLIENT_LIST
	catalog  sync.Mutex // public room changes and their ROOM_LIST
}

// New returns a Router over the given registries.
func New(users *registry.UserRegistry, rooms *registry.RoomRegistry) *Router {
	return &Router{
		users:       users,
		rooms:       rooms,
		broadcaster: NewBroadcaster(users),
	}
}

// Dispatch handles cmd for the session and writes every resulting frame.
func (r *Router) Dispatch(s *Session, cmd protocol.Command) {
	r.handle(s, cmd, func(deliveries ...Delivery) {
		for _, d := range deliveries {
			r.broadcaster.Send(s.Handle(), d.To, protocol.Encode(d.Response))
		}
	})
}

// Handle handles cmd for the session and returns the deliveries it produced
// instead of writing them. Registry effects are applied as with Dispatch.
func (r *Router) Handle(s *Session, cmd protocol.Command) []Delivery {
	var out []Delivery
	r.handle(s, cmd, func(deliveries ...Delivery) {
		out = append(out, deliveries...)
	})
	return out
}

// Disconnect releases the username owned by the session, if any, and tells
// the remaining users.
func (r *Router) Disconnect(s *Session) {
	r.disconnect(s, func(deliveries ...Delivery) {
		for _, d := range deliveries {
			r.broadcaster.Send(nil, d.To, protocol.Encode(d.Response))
		}
	})
}

func (r *Router) disconnect(s *Session, emit emitFunc) {
	r.presence.Lock()
	defer r.presence.Unlock()

	username := s.Username()
	if username == "" {
		return
	}
	s.setUsername("")

	if !r.users.Release(username, s.Handle()) {
		return
	}
	log.Printf("User %q disconnected from %s", username, s.Addr())
	emit(Delivery{To: ToAll(), Response: protocol.ClientList{Usernames: r.users.List()}})
}

func (r *Router) handle(s *Session, cmd protocol.Command, emit emitFunc) {
	switch c := cmd.(type) {
	case protocol.Connect:
		r.connect(s, c, emit)
	case protocol.AddRoom:
		r.addRoom(c, emit)
	case protocol.GetRoom:
		r.getRoom(c, emit)
	case protocol.AddPost:
		r.addPost(s, c, emit)
	case protocol.GetPeer:
		r.getPeer(c, emit)
	case protocol.Invalid:
		log.Printf("Invalid message from %s: %s", s.Addr(), c.Reason)
		emit(Delivery{To: ToSelf(), Response: protocol.Error{Reason: c.Reason}})
	default:
		reason := fmt.Sprintf("unsupported command %T", cmd)
		log.Printf("Invalid message from %s: %s", s.Addr(), reason)
		emit(Delivery{To: ToSelf(), Response: protocol.Error{Reason: reason}})
	}
}

func (r *Router) connect(s *Session, c protocol.Connect, emit emitFunc) {
	r.presence.Lock()
	defer r.presence.Unlock()

	// A session owns at most one name; switching names gives up the old one.
	if prev := s.Username(); prev != "" && !registry.SameName(prev, c.Username) {
		r.users.Release(prev, s.Handle())
		s.setUsername("")
	}

	if r.users.Connect(c.Username, s.Handle()) {
		s.setUsername(c.Username)
		log.Printf("User %q connected from %s", c.Username, s.Addr())
	} else if s.Username() == "" {
		log.Printf("User %q is already connected; %s will not own the name", c.Username, s.Addr())
	}

	emit(
		Delivery{To: ToAll(), Response: protocol.ClientList{Usernames: r.users.List()}},
		Delivery{To: ToSelf(), Response: protocol.RoomList{Rooms: wireRooms(r.rooms.ListPublic())}},
	)
}

func (r *Router) addRoom(c protocol.AddRoom, emit emitFunc) {
	if strings.TrimSpace(c.Title) == "" {
		emit(Delivery{To: ToSelf(), Response: protocol.Ack{}})
		return
	}

	r.catalog.Lock()
	defer r.catalog.Unlock()

	if room, created := r.rooms.CreatePublic(c.Title); created {
		log.Printf("Room %q created with id %s", room.Title, room.ID)
	}
	emit(
		Delivery{To: ToAll(), Response: protocol.RoomList{Rooms: wireRooms(r.rooms.ListPublic())}},
		Delivery{To: ToSelf(), Response: protocol.Ack{}},
	)
}

func (r *Router) getRoom(c protocol.GetRoom, emit emitFunc) {
	room, ok := r.rooms.FindByID(c.RoomID)
	if !ok {
		emit(Delivery{To: ToSelf(), Response: protocol.Error{
			Reason: fmt.Sprintf("%v: %s", registry.ErrRoomNotFound, c.RoomID),
		}})
		return
	}
	emit(Delivery{To: ToSelf(), Response: protocol.RoomPosts{Room: wireRoom(room)}})
}

func (r *Router) addPost(s *Session, c protocol.AddPost, emit emitFunc) {
	_, err := r.rooms.AppendPost(c.RoomID, c.From, c.Body, func(room registry.Room) {
		posts := protocol.RoomPosts{Room: wireRoom(room)}
		if !room.IsPeer() {
			emit(Delivery{To: ToAll(), Response: posts})
			return
		}
		emit(Delivery{To: ToUser(room.Peers[0]), Response: posts})
		if !registry.SameName(room.Peers[0], room.Peers[1]) {
			emit(Delivery{To: ToUser(room.Peers[1]), Response: posts})
		}
	})
	if err != nil {
		log.Printf("Post from %s dropped: %v", s.Addr(), err)
		return
	}
	emit(Delivery{To: ToSelf(), Response: protocol.Ack{}})
}

func (r *Router) getPeer(c protocol.GetPeer, emit emitFunc) {
	room, created := r.rooms.CreatePeerRoom(c.From, c.To)
	if created {
		log.Printf("Peer room %s opened", room.ID)
	}
	emit(Delivery{To: ToSelf(), Response: protocol.RoomPosts{Room: wireRoom(room)}})
}

func wireRoom(room registry.Room) protocol.Room {
	posts := make([]protocol.Post, len(room.Posts))
	for i, p := range room.Posts {
		posts[i] = protocol.Post{From: p.From, Body: p.Body}
	}
	return protocol.Room{ID: room.ID, Title: room.Title, Posts: posts}
}

func wireRooms(rooms []registry.Room) []protocol.Room {
	out := make([]protocol.Room, len(rooms))
	for i, room := range rooms {
		out[i] = wireRoom(room)
	}
	return out
}
