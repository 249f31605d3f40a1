package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind is the value of the "type" field that tags every inbound frame.
type Kind string

// Inbound command kinds.
const (
	KindConnect Kind = "CONNECT"
	KindAddRoom Kind = "ADD_ROOM"
	KindGetRoom Kind = "GET_ROOM"
	KindAddPost Kind = "ADD_POST"
	KindGetPeer Kind = "GET_PEER"
	KindInvalid Kind = "INVALID"
)

// Decode errors. They are carried by Invalid and never returned directly.
var (
	ErrMalformed    = errors.New("invalid message format")
	ErrMissingType  = errors.New("invalid message format: missing type")
	ErrUnknownType  = errors.New("invalid message type")
	ErrMissingField = errors.New("missing required field")
)

// Command is a decoded inbound frame. The set of implementations is closed.
type Command interface {
	Kind() Kind
	command()
}

// Connect announces the username a connection wants to be known by.
type Connect struct {
	Username string
}

// AddRoom asks for a public room with the given title.
type AddRoom struct {
	Title string
}

// GetRoom asks for the post history of a room.
type GetRoom struct {
	RoomID string
}

// AddPost appends a post to a room. To names the other party of a peer room
// and may be empty.
type AddPost struct {
	RoomID string
	Body   string
	From   string
	To     string
}

// GetPeer opens (or reopens) the one-to-one room between From and To.
type GetPeer struct {
	From string
	To   string
}

// Invalid is the fallback for any frame that did not decode into one of the
// commands above.
type Invalid struct {
	Reason string
	Err    error
}

func (Connect) Kind() Kind { return KindConnect }
func (AddRoom) Kind() Kind { return KindAddRoom }
func (GetRoom) Kind() Kind { return KindGetRoom }
func (AddPost) Kind() Kind { return KindAddPost }
func (GetPeer) Kind() Kind { return KindGetPeer }
func (Invalid) Kind() Kind { return KindInvalid }

func (Connect) command() {}
func (AddRoom) command() {}
func (GetRoom) command() {}
func (AddPost) command() {}
func (GetPeer) command() {}
func (Invalid) command() {}

// inboundFrame mirrors every field any inbound command may carry. Pointers
// distinguish an absent field from an empty one.
type inboundFrame struct {
	Type     *string `json:"type"`
	Username *string `json:"username"`
	Title    *string `json:"title"`
	RoomID   *string `json:"roomId"`
	Body     *string `json:"body"`
	From     *string `json:"from"`
	To       *string `json:"to"`
}

// Decode parses one inbound text frame. It never fails: anything that is not
// a well-formed, valid command comes back as Invalid.
func Decode(raw []byte) Command {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	// encoding/json would silently replace invalid bytes with U+FFFD.
	if !utf8.Valid(raw) {
		return invalid(fmt.Errorf("%w: invalid UTF-8", ErrMalformed))
	}

	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return invalid(fmt.Errorf("%w: %v", ErrMalformed, err))
	}
	if f.Type == nil {
		return invalid(ErrMissingType)
	}

	cmd, err := f.command(Kind(*f.Type))
	if err != nil {
		return invalid(err)
	}
	return cmd
}

func (f *inboundFrame) command(kind Kind) (Command, error) {
	switch kind {
	case KindConnect:
		username, err := required("username", f.Username)
		if err != nil {
			return nil, err
		}
		if err := ValidateUsername(username); err != nil {
			return nil, err
		}
		return Connect{Username: username}, nil

	case KindAddRoom:
		title, err := required("title", f.Title)
		if err != nil {
			return nil, err
		}
		if err := ValidateTitle(title); err != nil {
			return nil, err
		}
		if strings.TrimSpace(title) == "" {
			title = ""
		}
		return AddRoom{Title: title}, nil

	case KindGetRoom:
		roomID, err := required("roomId", f.RoomID)
		if err != nil {
			return nil, err
		}
		return GetRoom{RoomID: roomID}, nil

	case KindAddPost:
		return f.addPost()

	case KindGetPeer:
		from, err := required("from", f.From)
		if err != nil {
			return nil, err
		}
		to, err := required("to", f.To)
		if err != nil {
			return nil, err
		}
		if err := ValidateUsername(from); err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		if err := ValidateUsername(to); err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		return GetPeer{From: from, To: to}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
}

func (f *inboundFrame) addPost() (Command, error) {
	roomID, err := required("roomId", f.RoomID)
	if err != nil {
		return nil, err
	}
	body, err := required("body", f.Body)
	if err != nil {
		return nil, err
	}
	from, err := required("from", f.From)
	if err != nil {
		return nil, err
	}
	if err := ValidateBody(body); err != nil {
		return nil, err
	}
	if err := ValidateUsername(from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	post := AddPost{RoomID: roomID, Body: body, From: from}
	if f.To != nil {
		post.To = *f.To
	}
	return post, nil
}

func required(name string, value *string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return *value, nil
}

func invalid(err error) Invalid {
	return Invalid{Reason: err.Error(), Err: err}
}
