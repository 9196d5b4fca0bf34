package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unorderedHistory = `[
	{"track_id":"b","song_name":"Second","created_at":"2024-05-01T12:05:00.000Z","duration_ms":1000},
	{"track_id":"c","song_name":"Third","created_at":"2024-05-01T12:10:00.000Z","duration_ms":1000},
	{"track_id":"a","song_name":"First","created_at":"2024-05-01T12:00:00.000Z","duration_ms":1000}
]`

func TestFetchHistory(t *testing.T) {
	var gotPath, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.Header.Get("X-API-Version")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(unorderedHistory))
	}))
	defer srv.Close()

	c, err := NewHistoryClient("zone-9", srv.URL+"/sound_zones/{zone}/history_tracks/latest", "", time.Second)
	require.NoError(t, err)

	got, err := c.FetchHistory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/sound_zones/zone-9/history_tracks/latest", gotPath)
	assert.Equal(t, DefaultAPIVersion, gotVersion)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].TrackID)
	assert.Equal(t, "b", got[1].TrackID)
	assert.Equal(t, "c", got[2].TrackID)
	assert.NotEmpty(t, got[0].Raw)
}

func TestFetchHistoryErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "zone not found", http.StatusNotFound)
		}))
		defer srv.Close()

		c, err := NewHistoryClient("z", srv.URL, "10", time.Second)
		require.NoError(t, err)
		_, err = c.FetchHistory(context.Background())

		var se *StatusError
		require.True(t, errors.As(err, &se), "got %v", err)
		assert.Equal(t, http.StatusNotFound, se.Code)
		assert.Equal(t, "zone not found", se.Body)
	})

	t.Run("bad_json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"a list"}`))
		}))
		defer srv.Close()

		c, err := NewHistoryClient("z", srv.URL, "10", time.Second)
		require.NoError(t, err)
		_, err = c.FetchHistory(context.Background())
		assert.ErrorContains(t, err, "decode history")
	})

	t.Run("bad_record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"track_id":"a"},{"track_id":7}]`))
		}))
		defer srv.Close()

		c, err := NewHistoryClient("z", srv.URL, "10", time.Second)
		require.NoError(t, err)
		_, err = c.FetchHistory(context.Background())
		assert.ErrorContains(t, err, "record 1")
	})

	t.Run("cancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c, err := NewHistoryClient("z", srv.URL, "10", time.Second)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = c.FetchHistory(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewHistoryClient(t *testing.T) {
	_, err := NewHistoryClient("", "", "", 0)
	assert.ErrorIs(t, err, ErrInvalidZoneID)

	c, err := NewHistoryClient("abc", "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://radio.api.soundtrackyourbrand.com/sound_zones/abc/history_tracks/latest", c.URL())
}

func TestSortByCreatedStable(t *testing.T) {
	s := []Scrobble{
		{TrackID: "late", CreatedAt: "2024-05-01T13:00:00Z"},
		{TrackID: "x", CreatedAt: "bogus"},
		{TrackID: "y", CreatedAt: "bogus"},
		{TrackID: "early", CreatedAt: "2024-05-01T11:00:00Z"},
	}
	SortByCreated(s)

	ids := make([]string, len(s))
	for i := range s {
		ids[i] = s[i].TrackID
	}
	assert.Equal(t, []string{"x", "y", "early", "late"}, ids)
}
