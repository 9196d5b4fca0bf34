package socketio

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// EncodePing returns the engine-level keep-alive frame.
func EncodePing() string {
	return string(EnginePing)
}

// EncodePong answers a client ping. Only the mock server sends it.
func EncodePong() string {
	return string(EnginePong)
}

// EncodeJoin returns the socket-level connect frame for namespace.
func EncodeJoin(namespace string) string {
	return string(EngineMessage) + strconv.Itoa(SocketConnect) + namespace
}

// EncodeJoinAck acknowledges a namespace connect the way the feed server
// does: the namespace followed by a bare separator.
func EncodeJoinAck(namespace string) string {
	return EncodeJoin(namespace) + ","
}

// EncodeOpen builds an open frame carrying hs.
func EncodeOpen(hs Handshake) (string, error) {
	data, err := json.Marshal(hs)
	if err != nil {
		return "", err
	}
	return string(EngineOpen) + string(data), nil
}

// EncodeEvent builds an event frame "42{namespace},[event,data]". The
// namespace is omitted when it is the default one.
func EncodeEvent(namespace, event string, data any) (string, error) {
	payload, err := json.Marshal([]any{event, data})
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", event, err)
	}
	prefix := string(EngineMessage) + strconv.Itoa(SocketEvent)
	if namespace != "" && namespace != DefaultNamespace {
		prefix += namespace + ","
	}
	return prefix + string(payload), nil
}

// ZoneNamespace is the namespace carrying scrobbles for one sound zone.
func ZoneNamespace(zoneID string) string {
	return "/sound_zone/" + zoneID + "/scrobbles"
}
