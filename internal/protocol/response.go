package protocol

import (
	"encoding/json"
	"fmt"
)

// Outbound response types.
const (
	TypeClientList = "CLIENT_LIST"
	TypeRoomList   = "ROOM_LIST"
	TypeRoomPosts  = "ROOM_POSTS"
	TypeError      = "ERROR"
)

// Post is the wire form of one authored message.
type Post struct {
	From string `json:"from"`
	Body string `json:"body"`
}

// Room is the wire form of a room and its full post history.
type Room struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Posts []Post `json:"posts"`
}

// Response is an outbound message. The set of implementations is closed.
type Response interface {
	response()
}

// ClientList carries every connected username. Clients filter themselves out.
type ClientList struct {
	Usernames []string
}

// RoomList carries the discoverable rooms.
type RoomList struct {
	Rooms []Room
}

// RoomPosts carries one room with its post history.
type RoomPosts struct {
	Room Room
}

// Ack is the empty acknowledgement. It encodes to a zero-length frame.
type Ack struct{}

// Error acknowledges a request that could not be served.
type Error struct {
	Reason string
}

func (ClientList) response() {}
func (RoomList) response()   {}
func (RoomPosts) response()  {}
func (Ack) response()        {}
func (Error) response()      {}

type envelope struct {
	Type string `json:"type"`
	Body any    `json:"body"`
}

// Encode serializes a response into a text frame.
func Encode(r Response) []byte {
	var env envelope
	switch v := r.(type) {
	case Ack:
		return []byte{}
	case ClientList:
		env = envelope{Type: TypeClientList, Body: nonNil(v.Usernames)}
	case RoomList:
		rooms := make([]Room, len(v.Rooms))
		for i, room := range v.Rooms {
			rooms[i] = room.normalized()
		}
		env = envelope{Type: TypeRoomList, Body: rooms}
	case RoomPosts:
		env = envelope{Type: TypeRoomPosts, Body: v.Room.normalized()}
	case Error:
		env = envelope{Type: TypeError, Body: v.Reason}
	default:
		env = envelope{Type: TypeError, Body: fmt.Sprintf("unsupported response %T", r)}
	}

	// Every body is built from strings and slices, which always marshal.
	data, _ := json.Marshal(env)
	return data
}

// DecodeResponse parses an outbound frame the way a client would. A
// zero-length frame is an Ack.
func DecodeResponse(frame []byte) (Response, error) {
	if len(frame) == 0 {
		return Ack{}, nil
	}

	var env struct {
		Type string          `json:"type"`
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case TypeClientList:
		var usernames []string
		if err := json.Unmarshal(env.Body, &usernames); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return ClientList{Usernames: usernames}, nil
	case TypeRoomList:
		var rooms []Room
		if err := json.Unmarshal(env.Body, &rooms); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return RoomList{Rooms: rooms}, nil
	case TypeRoomPosts:
		var room Room
		if err := json.Unmarshal(env.Body, &room); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return RoomPosts{Room: room}, nil
	case TypeError:
		var reason string
		if err := json.Unmarshal(env.Body, &reason); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Error{Reason: reason}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func (r Room) normalized() Room {
	r.Posts = nonNil(r.Posts)
	return r
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
