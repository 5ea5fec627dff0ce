// Package dispatch multiplexes the named request pipe and the signal
// coordinator's self-wakeup channel, decodes incoming requests, and spawns
// BFS workers to answer them.
package dispatch

import "encoding/binary"

// requestSize is the wire size of one request: two little-endian int32s.
const requestSize = 8

// Request is one decoded (start_code, end_code) pair read from the named
// pipe.
type Request struct {
	StartCode int32
	EndCode   int32
}

// decodeRequest parses exactly requestSize bytes into a Request. The wire
// encoding is explicit little-endian (the source uses host-native order;
// this implementation fixes little-endian for heterogeneous deployments).
// The second return value is false for anything other than exactly
// requestSize bytes, which the caller ignores as a partial read.
func decodeRequest(buf []byte) (Request, bool) {
	if len(buf) != requestSize {
		return Request{}, false
	}
	return Request{
		StartCode: int32(binary.LittleEndian.Uint32(buf[0:4])),
		EndCode:   int32(binary.LittleEndian.Uint32(buf[4:8])),
	}, true
}
