// Package protocol implements the JSON text-frame wire protocol spoken
// between chat clients and the relay.
//
// Inbound frames decode into one of a closed set of Command values. A frame
// that cannot be understood decodes to Invalid rather than an error, so the
// caller always has a command to dispatch. Outbound Response values encode
// into frames that never fail to serialize.
package protocol
