// Package registry holds the relay's shared in-memory state: who is
// connected (UserRegistry) and which rooms exist with what history
// (RoomRegistry).
//
// Both registries are safe for concurrent use. Insert-if-absent operations
// are atomic, so concurrent identical requests never create duplicates.
// Readers receive copies and may encode them without holding any lock.
//
// Names and titles are compared case-insensitively through Fold.
package registry

import "golang.org/x/text/cases"

// Fold returns the case-insensitive identity key for a username, title or
// room id.
func Fold(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(s)
}

// SameName reports whether two names refer to the same identity.
func SameName(a, b string) bool {
	return Fold(a) == Fold(b)
}
