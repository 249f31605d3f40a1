// Package server implements the HTTP and WebSocket transport for the chat
// relay.
//
// Each accepted connection becomes a Client with its own read and write
// pumps. The read pump decodes frames and hands them to the router; the
// write pump drains the client's buffered send queue. The Hub tracks every
// live client so that shutdown can close them all.
package server
