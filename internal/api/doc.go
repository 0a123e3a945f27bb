// Package api defines the JSON payloads exchanged between the daemon's HTTP
// surface and its clients, plus the queue service the handlers delegate to.
// Views are decoupled from the queue models so storage changes do not leak
// into the wire format.
package api
