// Package socketio decodes and encodes the small subset of the
// engine.io v3 / socket.io v2 text framing used by the zone scrobble feed.
// It performs no I/O; the client package feeds it one frame at a time.
//
// See https://github.com/socketio/engine.io-protocol and
// https://github.com/socketio/socket.io-protocol for the full protocols.
package socketio

import (
	"encoding/json"
	"fmt"
)

// Engine-level packet types (first character of every frame).
const (
	EngineOpen    byte = '0'
	EngineClose   byte = '1'
	EnginePing    byte = '2'
	EnginePong    byte = '3'
	EngineMessage byte = '4'
	EngineUpgrade byte = '5'
	EngineNoop    byte = '6'
)

// Socket-level subtypes (second character of a message frame).
const (
	SocketConnect     = 0
	SocketDisconnect  = 1
	SocketEvent       = 2
	SocketAck         = 3
	SocketError       = 4
	SocketBinaryEvent = 5
	SocketBinaryAck   = 6
)

// DefaultNamespace is used when a message frame carries no namespace.
const DefaultNamespace = "/"

// Kind tags a decoded packet variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindOpen
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Packet is one decoded frame. Callers switch on the concrete type
// (Open, Message, Unknown) or on Kind().
type Packet interface {
	Kind() Kind
}

// Handshake is the metadata the server sends in its open packet.
type Handshake struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
}

// Open acknowledges a new engine.io session.
type Open struct {
	Handshake Handshake
	Raw       json.RawMessage
}

// Message is a socket.io packet carried in an engine.io message frame.
// Event and Data are empty when the frame had no JSON payload, as is the
// case for a namespace connect acknowledgement.
type Message struct {
	Subtype   int
	Namespace string
	Event     string
	Data      json.RawMessage
}

// Unknown is any frame type the feed does not act on (ping, pong, close,
// noop, upgrade, or garbage). Type is the leading byte, 0 for an empty frame.
type Unknown struct {
	Type byte
}

func (Open) Kind() Kind    { return KindOpen }
func (Message) Kind() Kind { return KindMessage }
func (Unknown) Kind() Kind { return KindUnknown }

// HasPayload reports whether the message carried an event data element.
func (m Message) HasPayload() bool {
	return len(m.Data) > 0 && string(m.Data) != "null"
}

// TrackUpdate returns the "data" field of the event data element, which is
// where the server puts the track update. ok is false when the message has
// no payload or the payload has no data field.
func (m Message) TrackUpdate() (json.RawMessage, bool) {
	if !m.HasPayload() {
		return nil, false
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(m.Data, &envelope); err != nil {
		return nil, false
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, false
	}
	return envelope.Data, true
}

// DecodeError reports a frame whose JSON payload could not be parsed.
type DecodeError struct {
	Type  byte
	Frame string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("socketio: decode %s frame: %v", TypeName(e.Type), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TypeName returns a readable name for an engine packet type byte.
func TypeName(t byte) string {
	switch t {
	case EngineOpen:
		return "open"
	case EngineClose:
		return "close"
	case EnginePing:
		return "ping"
	case EnginePong:
		return "pong"
	case EngineMessage:
		return "message"
	case EngineUpgrade:
		return "upgrade"
	case EngineNoop:
		return "noop"
	default:
		return "unknown"
	}
}
