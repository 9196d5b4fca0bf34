package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScrobble(t *testing.T) {
	raw := []byte(`{"track_id":"t1","song_name":"Starving","artists":[{"name":"Hailee Steinfeld"},{"name":"Grey"}],"colors":{"primary":"#c1a49e","accent":"#97112c"},"created_at":"2024-05-01T12:00:00.123Z","duration_ms":181880,"play_from":{"name":"Lounge Mix"},"extra":true}`)

	s, err := ParseScrobble(raw)
	require.NoError(t, err)

	assert.Equal(t, "Starving", s.SongName)
	assert.Equal(t, "Hailee Steinfeld, Grey", s.ArtistNames())
	assert.Equal(t, "#97112c", s.Colors.Accent)
	assert.Equal(t, 181880*time.Millisecond, s.Duration())
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 123000000, time.UTC), s.Created().UTC())
	assert.Equal(t, "Lounge Mix", s.Source())
	assert.JSONEq(t, string(raw), string(s.Raw))

	raw[0] = 'x'
	assert.Equal(t, byte('{'), s.Raw[0], "Raw must not alias the input")
}

func TestParseScrobbleInvalid(t *testing.T) {
	_, err := ParseScrobble([]byte(`{"track_id":`))
	assert.Error(t, err)
}

func TestScrobbleSource(t *testing.T) {
	assert.Equal(t, "unknown channel", Scrobble{}.Source())
	assert.Equal(t, "Mock Soundtrack", Scrobble{ChannelName: "Mock Soundtrack"}.Source())
	assert.Equal(t, "Mock Soundtrack", Scrobble{ChannelName: "Mock Soundtrack", PlayFrom: &PlayFrom{}}.Source())
}

func TestScrobbleCreatedInvalid(t *testing.T) {
	assert.True(t, Scrobble{CreatedAt: "yesterday"}.Created().IsZero())
	assert.True(t, Scrobble{}.Created().IsZero())
}
