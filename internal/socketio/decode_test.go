package socketio

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func jsonEqual(t *testing.T, got json.RawMessage, want string) {
	t.Helper()
	var g, w any
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("unmarshal got %q: %v", got, err)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("unmarshal want %q: %v", want, err)
	}
	if !reflect.DeepEqual(g, w) {
		t.Errorf("json = %s, want %s", got, want)
	}
}

func TestDecodeOpen(t *testing.T) {
	p, err := Decode(`0{"sid":"abc","pingInterval":20000}`)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	open, ok := p.(Open)
	if !ok {
		t.Fatalf("Decode() = %T, want Open", p)
	}
	if open.Handshake.SID != "abc" {
		t.Errorf("SID = %q, want %q", open.Handshake.SID, "abc")
	}
	if open.Handshake.PingInterval != 20000 {
		t.Errorf("PingInterval = %d, want 20000", open.Handshake.PingInterval)
	}
	jsonEqual(t, open.Raw, `{"sid":"abc","pingInterval":20000}`)
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		namespace string
		event     string
		data      string
		update    string
	}{
		{
			name:      "default namespace",
			frame:     `42["scrobble",{"data":{"track_id":"t1"}}]`,
			namespace: "/",
			event:     "scrobble",
			data:      `{"data":{"track_id":"t1"}}`,
			update:    `{"track_id":"t1"}`,
		},
		{
			name:      "zone namespace",
			frame:     `42/sound_zone/abc/scrobbles,["scrobble",{"data":{"track_id":"t1"}}]`,
			namespace: "/sound_zone/abc/scrobbles",
			event:     "scrobble",
			data:      `{"data":{"track_id":"t1"}}`,
			update:    `{"track_id":"t1"}`,
		},
		{
			name:      "extra array elements ignored",
			frame:     `42["scrobble",{"data":{"track_id":"t2"}},"extra",3]`,
			namespace: "/",
			event:     "scrobble",
			data:      `{"data":{"track_id":"t2"}}`,
			update:    `{"track_id":"t2"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.frame)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			msg, ok := p.(Message)
			if !ok {
				t.Fatalf("Decode() = %T, want Message", p)
			}
			if msg.Subtype != SocketEvent {
				t.Errorf("Subtype = %d, want %d", msg.Subtype, SocketEvent)
			}
			if msg.Namespace != tt.namespace {
				t.Errorf("Namespace = %q, want %q", msg.Namespace, tt.namespace)
			}
			if msg.Event != tt.event {
				t.Errorf("Event = %q, want %q", msg.Event, tt.event)
			}
			jsonEqual(t, msg.Data, tt.data)

			update, ok := msg.TrackUpdate()
			if !ok {
				t.Fatal("TrackUpdate() ok = false, want true")
			}
			jsonEqual(t, update, tt.update)
		})
	}
}

func TestDecodeMessageWithoutPayload(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		subtype   int
		namespace string
	}{
		{"join ack with separator", "40/sound_zone/abc/scrobbles,", SocketConnect, "/sound_zone/abc/scrobbles"},
		{"join ack without separator", "40/sound_zone/abc/scrobbles", SocketConnect, "/sound_zone/abc/scrobbles"},
		{"bare connect", "40", SocketConnect, "/"},
		{"no subtype", "4", -1, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.frame)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			msg, ok := p.(Message)
			if !ok {
				t.Fatalf("Decode() = %T, want Message", p)
			}
			if msg.Subtype != tt.subtype {
				t.Errorf("Subtype = %d, want %d", msg.Subtype, tt.subtype)
			}
			if msg.Namespace != tt.namespace {
				t.Errorf("Namespace = %q, want %q", msg.Namespace, tt.namespace)
			}
			if msg.Event != "" || msg.HasPayload() {
				t.Errorf("expected empty message, got event %q data %s", msg.Event, msg.Data)
			}
			if _, ok := msg.TrackUpdate(); ok {
				t.Error("TrackUpdate() ok = true for message without payload")
			}
		})
	}
}

func TestDecodeTrackUpdateAbsent(t *testing.T) {
	for _, frame := range []string{
		`42["scrobble"]`,
		`42["scrobble",null]`,
		`42["scrobble",{"other":1}]`,
		`42["scrobble","text"]`,
		`42[]`,
	} {
		p, err := Decode(frame)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", frame, err)
		}
		if _, ok := p.(Message).TrackUpdate(); ok {
			t.Errorf("Decode(%q).TrackUpdate() ok = true, want false", frame)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	tests := []struct {
		frame string
		typ   byte
	}{
		{"", 0},
		{"1", EngineClose},
		{"2", EnginePing},
		{"3", EnginePong},
		{"3probe", EnginePong},
		{"5", EngineUpgrade},
		{"6", EngineNoop},
		{"9{]", '9'},
		{"x", 'x'},
	}

	for _, tt := range tests {
		p, err := Decode(tt.frame)
		if err != nil {
			t.Errorf("Decode(%q) error: %v", tt.frame, err)
			continue
		}
		u, ok := p.(Unknown)
		if !ok {
			t.Errorf("Decode(%q) = %T, want Unknown", tt.frame, p)
			continue
		}
		if u.Type != tt.typ {
			t.Errorf("Decode(%q).Type = %q, want %q", tt.frame, u.Type, tt.typ)
		}
		if p.Kind() != KindUnknown {
			t.Errorf("Decode(%q).Kind() = %v, want unknown", tt.frame, p.Kind())
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		frame string
		typ   byte
	}{
		{"0", EngineOpen},
		{"0{not json", EngineOpen},
		{`42["scrobble",`, EngineMessage},
		{`42/ns,{"a":1}`, EngineMessage},
		{`42[1,{"data":{}}]`, EngineMessage},
	}

	for _, tt := range tests {
		p, err := Decode(tt.frame)
		if err == nil {
			t.Errorf("Decode(%q) = %#v, want error", tt.frame, p)
			continue
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("Decode(%q) error %T, want *DecodeError", tt.frame, err)
			continue
		}
		if de.Type != tt.typ {
			t.Errorf("Decode(%q) error type = %q, want %q", tt.frame, de.Type, tt.typ)
		}
		if de.Frame != tt.frame {
			t.Errorf("DecodeError.Frame = %q, want %q", de.Frame, tt.frame)
		}
	}
}

func TestLexerStages(t *testing.T) {
	lx := lexer{src: "42/a/b,[1]"}

	typ, ok := lx.readType()
	if !ok || typ != EngineMessage {
		t.Fatalf("readType() = %q, %v", typ, ok)
	}
	if sub := lx.readSubtype(); sub != SocketEvent {
		t.Errorf("readSubtype() = %d, want %d", sub, SocketEvent)
	}
	if ns := lx.readNamespace(); ns != "/a/b" {
		t.Errorf("readNamespace() = %q, want %q", ns, "/a/b")
	}
	tail, ok := lx.readJSONTail()
	if !ok || tail != "[1]" {
		t.Errorf("readJSONTail() = %q, %v", tail, ok)
	}
	if _, ok := lx.readJSONTail(); ok {
		t.Error("second readJSONTail() should report nothing left")
	}
}
