// Package client provides the zone scrobble feed clients: the WebSocket
// subscription (engine.io/socket.io framing via package socketio) and the
// HTTP history fetch. Types mirror the radio API's JSON records.
package client

import (
	"encoding/json"
	"strings"
	"time"
)

// Artist credits a track.
type Artist struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Colors is the artwork palette the server computes for a track.
type Colors struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
}

// PlayFrom names the playlist or schedule a track was played from.
type PlayFrom struct {
	Name string `json:"name"`
}

// Scrobble is one track-change record, both in the history response and in
// live scrobble events.
type Scrobble struct {
	ID          string    `json:"id,omitempty"`
	TrackID     string    `json:"track_id"`
	SongName    string    `json:"song_name"`
	Artists     []Artist  `json:"artists"`
	ImageURL    string    `json:"image_url"`
	Colors      Colors    `json:"colors"`
	CreatedAt   string    `json:"created_at"`
	DurationMs  int       `json:"duration_ms"`
	URI         string    `json:"uri,omitempty"`
	PlayFrom    *PlayFrom `json:"play_from,omitempty"`
	ChannelName string    `json:"channel_name,omitempty"`

	// ScrobbleID is assigned locally when a record is added to a feed so
	// repeated plays of one track stay distinct. Never sent by the server.
	ScrobbleID string `json:"scrobble_id,omitempty"`

	// Raw is the record exactly as received.
	Raw json.RawMessage `json:"-"`
}

// ParseScrobble decodes one record and keeps the original bytes.
func ParseScrobble(data []byte) (Scrobble, error) {
	var s Scrobble
	if err := json.Unmarshal(data, &s); err != nil {
		return Scrobble{}, err
	}
	s.Raw = append(json.RawMessage(nil), data...)
	return s, nil
}

// Created parses CreatedAt. It returns the zero time if the timestamp is
// missing or malformed.
func (s Scrobble) Created() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Duration returns the track length.
func (s Scrobble) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

// ArtistNames joins the credited artists for display.
func (s Scrobble) ArtistNames() string {
	names := make([]string, 0, len(s.Artists))
	for _, a := range s.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// Source describes where the track is playing from.
func (s Scrobble) Source() string {
	if s.PlayFrom != nil && s.PlayFrom.Name != "" {
		return s.PlayFrom.Name
	}
	if s.ChannelName != "" {
		return s.ChannelName
	}
	return "unknown channel"
}
