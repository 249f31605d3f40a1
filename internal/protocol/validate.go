package protocol

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Field limits, counted in runes.
const (
	MaxUsernameLength = 50
	MaxTitleLength    = 100
	MaxBodyLength     = 5000
)

// PeerDelimiter separates the two usernames inside a peer room id.
const PeerDelimiter = "#"

// Validation errors.
var (
	ErrUsernameEmpty   = errors.New("username cannot be empty")
	ErrUsernameTooLong = errors.New("username exceeds maximum length")
	ErrUsernameInvalid = errors.New("username contains invalid characters")
	ErrTitleTooLong    = errors.New("room title exceeds maximum length")
	ErrTitleInvalid    = errors.New("room title contains invalid characters")
	ErrBodyEmpty       = errors.New("post body cannot be empty")
	ErrBodyTooLong     = errors.New("post body exceeds maximum length")
	ErrBodyInvalid     = errors.New("post body contains invalid characters")
)

// ValidateUsername rejects names that cannot be a user identity. The peer
// delimiter is forbidden so that a peer room id always splits one way.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameEmpty
	}
	if !utf8.ValidString(username) || strings.Contains(username, PeerDelimiter) {
		return ErrUsernameInvalid
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

// ValidateTitle checks a public room title. An empty or blank title is
// allowed: Decode turns a blank title into "" and the router acknowledges an
// empty ADD_ROOM without creating a room.
func ValidateTitle(title string) error {
	if !utf8.ValidString(title) {
		return ErrTitleInvalid
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateBody checks a post body.
func ValidateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrBodyEmpty
	}
	if !utf8.ValidString(body) {
		return ErrBodyInvalid
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return ErrBodyTooLong
	}
	return nil
}
