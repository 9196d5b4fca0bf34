package socketio

import (
	"encoding/json"
	"errors"
	"strings"
)

var errEventName = errors.New("event name is not a string")

// Decode parses one text frame. Frames the feed does not understand decode
// to Unknown without error; only a malformed JSON payload in an open or
// message frame returns a *DecodeError.
func Decode(frame string) (Packet, error) {
	lx := lexer{src: frame}

	typ, ok := lx.readType()
	if !ok {
		return Unknown{}, nil
	}

	switch typ {
	case EngineOpen:
		return decodeOpen(frame, &lx)
	case EngineMessage:
		return decodeMessage(frame, &lx)
	default:
		return Unknown{Type: typ}, nil
	}
}

func decodeOpen(frame string, lx *lexer) (Packet, error) {
	tail, _ := lx.readJSONTail()
	var hs Handshake
	if err := json.Unmarshal([]byte(tail), &hs); err != nil {
		return nil, &DecodeError{Type: EngineOpen, Frame: frame, Err: err}
	}
	return Open{Handshake: hs, Raw: json.RawMessage(tail)}, nil
}

func decodeMessage(frame string, lx *lexer) (Packet, error) {
	msg := Message{
		Subtype:   lx.readSubtype(),
		Namespace: lx.readNamespace(),
	}

	tail, ok := lx.readJSONTail()
	if !ok {
		return msg, nil
	}

	var args []json.RawMessage
	if err := json.Unmarshal([]byte(tail), &args); err != nil {
		return nil, &DecodeError{Type: EngineMessage, Frame: frame, Err: err}
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args[0], &msg.Event); err != nil {
			return nil, &DecodeError{Type: EngineMessage, Frame: frame, Err: errEventName}
		}
	}
	if len(args) > 1 {
		msg.Data = args[1]
	}
	return msg, nil
}

// lexer walks a single frame left to right. Each read consumes what it
// returns; reads past the end return zero values.
type lexer struct {
	src string
	pos int
}

func (l *lexer) done() bool { return l.pos >= len(l.src) }

// readType consumes the engine packet type.
func (l *lexer) readType() (byte, bool) {
	if l.done() {
		return 0, false
	}
	t := l.src[l.pos]
	l.pos++
	return t, true
}

// readSubtype consumes the socket packet subtype digit, -1 if absent or not
// a digit.
func (l *lexer) readSubtype() int {
	if l.done() {
		return -1
	}
	c := l.src[l.pos]
	l.pos++
	if c < '0' || c > '9' {
		return -1
	}
	return int(c - '0')
}

// readNamespace consumes "/path," and returns "/path". Without a leading
// slash nothing is consumed and the default namespace is returned.
func (l *lexer) readNamespace() string {
	if l.done() || l.src[l.pos] != '/' {
		return DefaultNamespace
	}
	rest := l.src[l.pos:]
	end := strings.IndexByte(rest, ',')
	if end < 0 {
		l.pos = len(l.src)
		return rest
	}
	l.pos += end + 1
	return rest[:end]
}

// readJSONTail consumes the remainder of the frame.
func (l *lexer) readJSONTail() (string, bool) {
	if l.done() {
		return "", false
	}
	tail := l.src[l.pos:]
	l.pos = len(l.src)
	return tail, true
}
