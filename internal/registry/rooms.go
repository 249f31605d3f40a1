package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrRoomNotFound is returned when a room id does not resolve.
var ErrRoomNotFound = errors.New("room not found")

// Post is one authored message. Posts are never mutated once appended.
type Post struct {
	From string
	Body string
}

// Room is a point-in-time copy of a room. Peers holds the two participants
// of a peer room and is nil for public rooms.
type Room struct {
	ID    string
	Title string
	Posts []Post
	Peers []string
}

// IsPeer reports whether the room is a one-to-one conversation.
func (r Room) IsPeer() bool {
	return len(r.Peers) == 2
}

// PeerRoomID spells the id of the peer room opened by from towards to.
func PeerRoomID(from, to string) string {
	return "@" + from + "#" + to
}

type room struct {
	id    string
	title string
	peers []string

	mu    sync.Mutex
	posts []Post
}

func (r *room) snapshot() Room {
	return Room{
		ID:    r.id,
		Title: r.title,
		Posts: slices.Clone(r.posts),
		Peers: r.peers,
	}
}

// Option configures a RoomRegistry.
type Option func(*RoomRegistry)

// WithIDGenerator replaces the public room id source. The generator must
// never return the same id twice.
func WithIDGenerator(next func() string) Option {
	return func(r *RoomRegistry) {
		r.nextID = next
	}
}

// RoomRegistry holds every room for the lifetime of the process.
type RoomRegistry struct {
	mu      sync.RWMutex
	byID    map[string]*room // folded id
	byTitle map[string]*room // folded title, public rooms only
	byPair  map[string]*room // unordered folded participant pair
	order   []*room
	nextID  func() string
}

// NewRoomRegistry returns an empty registry that names public rooms with
// random UUIDs.
func NewRoomRegistry(opts ...Option) *RoomRegistry {
	r := &RoomRegistry{
		byID:    make(map[string]*room),
		byTitle: make(map[string]*room),
		byPair:  make(map[string]*room),
		nextID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreatePublic returns the public room titled title, creating it if no
// case-insensitive match exists. The bool reports whether it was created.
func (r *RoomRegistry) CreatePublic(title string) (Room, bool) {
	key := Fold(title)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byTitle[key]; ok {
		return existing.locked(), false
	}

	rm := &room{id: r.nextID(), title: title}
	r.byID[Fold(rm.id)] = rm
	r.byTitle[key] = rm
	r.order = append(r.order, rm)
	return rm.snapshot(), true
}

// FindByTitle looks up a public room by case-insensitive title.
func (r *RoomRegistry) FindByTitle(title string) (Room, bool) {
	r.mu.RLock()
	rm, ok := r.byTitle[Fold(title)]
	r.mu.RUnlock()

	if !ok {
		return Room{}, false
	}
	return rm.locked(), true
}

// FindByID looks up any room by case-insensitive id.
func (r *RoomRegistry) FindByID(id string) (Room, bool) {
	rm, ok := r.lookup(id)
	if !ok {
		return Room{}, false
	}
	return rm.locked(), true
}

// FindPeerRoom returns the peer room between a and b in either ordering.
func (r *RoomRegistry) FindPeerRoom(a, b string) (Room, bool) {
	r.mu.RLock()
	rm, ok := r.byPair[pairKey(a, b)]
	r.mu.RUnlock()

	if !ok {
		return Room{}, false
	}
	return rm.locked(), true
}

// CreatePeerRoom returns the peer room between from and to, creating it with
// id PeerRoomID(from, to) and title to when neither ordering exists yet. The
// bool reports whether it was created.
func (r *RoomRegistry) CreatePeerRoom(from, to string) (Room, bool) {
	key := pairKey(from, to)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byPair[key]; ok {
		return existing.locked(), false
	}

	rm := &room{
		id:    PeerRoomID(from, to),
		title: to,
		peers: []string{from, to},
	}
	r.byID[Fold(rm.id)] = rm
	r.byPair[key] = rm
	r.order = append(r.order, rm)
	return rm.snapshot(), true
}

// AppendPost appends a post to the room and returns the updated copy. When
// then is non-nil it runs with that copy before the room accepts another
// post, so work done there observes posts in append order. then must not
// call back into the registry.
func (r *RoomRegistry) AppendPost(roomID, from, body string, then func(Room)) (Room, error) {
	rm, ok := r.lookup(roomID)
	if !ok {
		return Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.posts = append(rm.posts, Post{From: from, Body: body})
	snap := rm.snapshot()
	if then != nil {
		then(snap)
	}
	return snap, nil
}

// List returns every room in creation order.
func (r *RoomRegistry) List() []Room {
	r.mu.RLock()
	rooms := slices.Clone(r.order)
	r.mu.RUnlock()

	out := make([]Room, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, rm.locked())
	}
	return out
}

// ListPublic returns the public rooms in creation order.
func (r *RoomRegistry) ListPublic() []Room {
	all := r.List()
	public := all[:0]
	for _, rm := range all {
		if !rm.IsPeer() {
			public = append(public, rm)
		}
	}
	return public
}

// Len returns the number of rooms.
func (r *RoomRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *RoomRegistry) lookup(id string) (*room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.byID[Fold(id)]
	return rm, ok
}

func (r *room) locked() Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func pairKey(a, b string) string {
	a, b = Fold(a), Fold(b)
	if b < a {
		a, b = b, a
	}
	// Usernames cannot contain the peer delimiter, so the key is unambiguous.
	return a + "#" + b
}
