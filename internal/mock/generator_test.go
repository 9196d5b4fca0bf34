package mock

import (
	"math/rand"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewSource(1), func() time.Time { return fixedNow })
}

func TestNextStampsTrack(t *testing.T) {
	g := newTestGenerator()
	s := g.Next()

	if s.ChannelName != ChannelName {
		t.Errorf("ChannelName = %q, want %q", s.ChannelName, ChannelName)
	}
	if s.ID == "" {
		t.Error("ID should be set")
	}
	if !s.Created().Equal(fixedNow) {
		t.Errorf("Created() = %v, want %v", s.Created(), fixedNow)
	}
	if s.CreatedAt != "2024-05-01T12:00:00.000Z" {
		t.Errorf("CreatedAt = %q, want JSON time", s.CreatedAt)
	}

	found := false
	for _, c := range Catalog {
		if c.TrackID == s.TrackID {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("TrackID %q not in catalog", s.TrackID)
	}
}

func TestNextDoesNotMutateCatalog(t *testing.T) {
	g := newTestGenerator()
	for i := 0; i < 50; i++ {
		s := g.Next()
		s.Artists[0].Name = "changed"
	}
	for _, c := range Catalog {
		if c.ChannelName != "" || c.ID != "" || c.CreatedAt != "" {
			t.Fatalf("catalog entry %q was stamped", c.SongName)
		}
		if c.Artists[0].Name == "changed" {
			t.Fatalf("catalog entry %q artists were aliased", c.SongName)
		}
	}
}

func TestNextUniqueIDs(t *testing.T) {
	g := newTestGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.Next().ID
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	g := newTestGenerator()
	h := g.History(5)
	if len(h) != 5 {
		t.Fatalf("History(5) returned %d tracks", len(h))
	}
	if !h[0].Created().Equal(fixedNow) {
		t.Errorf("first track created %v, want %v", h[0].Created(), fixedNow)
	}
	for i := 1; i < len(h); i++ {
		if !h[i].Created().Before(h[i-1].Created()) {
			t.Errorf("track %d (%v) not older than track %d (%v)", i, h[i].Created(), i-1, h[i-1].Created())
		}
	}
}

func TestCatalogComplete(t *testing.T) {
	if len(Catalog) != 13 {
		t.Errorf("len(Catalog) = %d, want 13", len(Catalog))
	}
	for _, c := range Catalog {
		if c.SongName == "" || c.TrackID == "" || len(c.Artists) == 0 || c.DurationMs <= 0 {
			t.Errorf("incomplete catalog entry: %+v", c)
		}
		if c.Colors.Primary == "" || c.Colors.Accent == "" {
			t.Errorf("catalog entry %q missing colors", c.SongName)
		}
	}
}
