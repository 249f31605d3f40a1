package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeShapes verifies the JSON envelope of every response kind.
func TestEncodeShapes(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{
			name: "client list",
			resp: ClientList{Usernames: []string{"alice", "bob"}},
			want: `{"type":"CLIENT_LIST","body":["alice","bob"]}`,
		},
		{
			name: "empty client list is an array",
			resp: ClientList{},
			want: `{"type":"CLIENT_LIST","body":[]}`,
		},
		{
			name: "room list",
			resp: RoomList{Rooms: []Room{{ID: "1", Title: "General"}}},
			want: `{"type":"ROOM_LIST","body":[{"id":"1","title":"General","posts":[]}]}`,
		},
		{
			name: "empty room list is an array",
			resp: RoomList{},
			want: `{"type":"ROOM_LIST","body":[]}`,
		},
		{
			name: "room posts",
			resp: RoomPosts{Room: Room{ID: "@a#b", Title: "b", Posts: []Post{{From: "a", Body: "hi"}}}},
			want: `{"type":"ROOM_POSTS","body":{"id":"@a#b","title":"b","posts":[{"from":"a","body":"hi"}]}}`,
		},
		{
			name: "error",
			resp: Error{Reason: "room not found: x"},
			want: `{"type":"ERROR","body":"room not found: x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, string(Encode(tt.resp)))
		})
	}
}

// TestEncodeAckIsEmpty verifies the empty acknowledgement is a zero-length frame.
func TestEncodeAckIsEmpty(t *testing.T) {
	frame := Encode(Ack{})
	assert.NotNil(t, frame)
	assert.Empty(t, frame)

	resp, err := DecodeResponse(frame)
	require.NoError(t, err)
	assert.Equal(t, Ack{}, resp)
}

// TestRoomPostsRoundTrip verifies a client decoding ROOM_POSTS sees the posts
// in the order they were encoded.
func TestRoomPostsRoundTrip(t *testing.T) {
	room := Room{
		ID:    "room-1",
		Title: "General",
		Posts: []Post{
			{From: "alice", Body: "first"},
			{From: "bob", Body: "second"},
			{From: "alice", Body: "first"},
			{From: "carol", Body: `quotes " and <tags>`},
		},
	}

	resp, err := DecodeResponse(Encode(RoomPosts{Room: room}))
	require.NoError(t, err)

	got, ok := resp.(RoomPosts)
	require.True(t, ok, "expected RoomPosts, got %T", resp)
	assert.Equal(t, room, got.Room)
}

// TestDecodeResponseRejectsGarbage verifies client-side decoding errors.
func TestDecodeResponseRejectsGarbage(t *testing.T) {
	_, err := DecodeResponse([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeResponse([]byte(`{"type":"NOPE","body":1}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = DecodeResponse([]byte(`{"type":"CLIENT_LIST","body":"alice"}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

// TestEncodeIsValidJSON verifies every non-ack frame is a JSON object with a
// type and body.
func TestEncodeIsValidJSON(t *testing.T) {
	for _, resp := range []Response{ClientList{}, RoomList{}, RoomPosts{}, Error{}} {
		var env map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(Encode(resp), &env))
		assert.Contains(t, env, "type")
		assert.Contains(t, env, "body")
	}
}
