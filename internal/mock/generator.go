// Package mock produces demo track updates without a live zone.
package mock

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zone-feed/nowplaying/internal/client"
)

// ChannelName labels every generated track.
const ChannelName = "Mock Soundtrack"

// Catalog is the fixed set of tracks the generator picks from.
var Catalog = []client.Scrobble{
	{
		SongName:   "You Make My Dreams",
		Artists:    []client.Artist{{Name: "Daryl Hall & John Oates", URI: "4fHFnIMdNdCrxJwrmQ8pPj"}},
		Colors:     client.Colors{Primary: "#e2e1df", Accent: "#272321"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/002/938/0000293852_200.jpg",
		DurationMs: 190626,
		TrackID:    "soundtrack:track:3pk0v8IzJuWrrcBvncVWyD",
		URI:        "spotify:track:4o6BgsqLIBViaGVbx5rbRk",
	},
	{
		SongName:   "Scars To Your Beautiful",
		Artists:    []client.Artist{{Name: "Alessia Cara", URI: "4cciI4QHkd1dvcCjs62uU5"}},
		Colors:     client.Colors{Primary: "#b9c7ca", Accent: "#a03942"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/051/826/0005182655_200.jpg",
		DurationMs: 230226,
		TrackID:    "soundtrack:track:6tmsxyCEJr220A1i6qShVb",
		URI:        "spotify:track:42ydLwx4i5V49RXHOozJZq",
	},
	{
		SongName: "Waka Waka (This Time for Africa) [The Official 2010 FIFA World Cup (TM) Song]",
		Artists: []client.Artist{
			{Name: "Shakira", URI: "2yzHQzIGOeR2IvaMwY5aFI"},
			{Name: "Freshlyground", URI: "4FyOu0JTiIXNFgMLtEHHqa"},
		},
		Colors:     client.Colors{Primary: "#ede9e1", Accent: "#259957"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/008/226/0000822604_200.jpg",
		DurationMs: 202626,
		TrackID:    "soundtrack:track:4kpEDB8T4WGkeIp6R8hfc9",
		URI:        "spotify:track:2Cd9iWfcOpGDHLz6tVA3G4",
	},
	{
		SongName:   "Sweet but Psycho",
		Artists:    []client.Artist{{Name: "Ava Max", URI: "2KPlbDoOrszHsoe0C9C8du"}},
		Colors:     client.Colors{Primary: "#c8b1a1", Accent: "#ba3d1a"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/138/013/0013801367_200.jpg",
		DurationMs: 187436,
		TrackID:    "soundtrack:track:7t11dieIyGiyvvJytX1PHf",
		URI:        "spotify:track:7DnAm9FOTWE3cUvso43HhI",
	},
	{
		SongName: "This Is What You Came For",
		Artists: []client.Artist{
			{Name: "Calvin Harris", URI: "0kW6QDJPajgPy5APKtpZtX"},
			{Name: "Rihanna", URI: "4c2J7NUOmXPhEl3SRHimCS"},
		},
		Colors:     client.Colors{Primary: "#bbc2d0", Accent: "#0e2bbb"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/053/395/0005339516_200.jpg",
		DurationMs: 222160,
		TrackID:    "soundtrack:track:0hIbwVdtM32opIWUS036MN",
		URI:        "spotify:track:0azC730Exh71aQlOt9Zj3y",
	},
	{
		SongName:   "I'm Coming Out",
		Artists:    []client.Artist{{Name: "Diana Ross", URI: "623hr1m88CE7yVAPckmaSS"}},
		Colors:     client.Colors{Primary: "#bababa", Accent: "#121212"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/000/146/0000014687_200.jpg",
		DurationMs: 325266,
		TrackID:    "soundtrack:track:3UerMrafbFmRDw0R1Uah2G",
		URI:        "spotify:track:0ew27xRdxSexrWbODuLfeE",
	},
	{
		SongName:   `Happy (From "Despicable Me 2")`,
		Artists:    []client.Artist{{Name: "Pharrell Williams", URI: "7wEoGi9yFUb7mt542MmELn"}},
		Colors:     client.Colors{Primary: "#9b7c66", Accent: "#dbab29"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/097/375/0009737539_200.jpg",
		DurationMs: 232720,
		TrackID:    "soundtrack:track:556IgpLbfzKioXbwUTzpAH",
		URI:        "spotify:track:60nZcImufyMA1MKQY3dcCH",
	},
	{
		SongName:   "Faded",
		Artists:    []client.Artist{{Name: "Alan Walker", URI: "72N6b4O54y3w4egF2ADNAh"}},
		Colors:     client.Colors{Primary: "#e9dba3", Accent: "#1b1c27"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/087/343/0008734377_200.jpg",
		DurationMs: 212106,
		TrackID:    "soundtrack:track:5yRGNJh05HuxqeO8CfQ988",
		URI:        "spotify:track:698ItKASDavgwZ3WjaWjtz",
	},
	{
		SongName:   "New Rules",
		Artists:    []client.Artist{{Name: "Dua Lipa", URI: "0ajDEtqfMCjz2DiigWJWoo"}},
		Colors:     client.Colors{Primary: "#ad959f", Accent: "#130a11"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/064/764/0006476404_200.jpg",
		DurationMs: 209320,
		TrackID:    "soundtrack:track:0WeDR3AbVeYtliL9YuqURB",
		URI:        "spotify:track:2ekn2ttSfGqwhhate0LSR0",
	},
	{
		SongName: "Just the Two of Us (feat. Bill Withers)",
		Artists: []client.Artist{
			{Name: "Jr.", URI: "4bZXRPQZRsB6YGYlp8ZaJ6"},
			{Name: "Grover Washington, Jr.", URI: "109dqwCGdSdyAopX2LOQj6"},
			{Name: "Bill Withers", URI: "1Lx59mIUqmJqYPt3ucM26F"},
		},
		Colors:     client.Colors{Primary: "#463138", Accent: "#b2485b"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/004/609/0000460982_200.jpg",
		DurationMs: 237106,
		TrackID:    "soundtrack:track:0uiA0whoNYuGASF87Qio43",
		URI:        "spotify:track:1ko2lVN0vKGUl9zrU0qSlT",
	},
	{
		SongName: "Higher Love",
		Artists: []client.Artist{
			{Name: "Kygo", URI: "19YhJTULBl968CZF8FYT5f"},
			{Name: "Whitney Houston", URI: "3ISZIXYut3j32klI2eaBAP"},
		},
		Colors:     client.Colors{Primary: "#b6b6b5", Accent: "#d30453"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/097/376/0009737601_200.jpg",
		DurationMs: 228267,
		TrackID:    "soundtrack:track:0hfHDGybnQu6QlGJnbgfYw",
		URI:        "spotify:track:6oJ6le65B3SEqPwMRNXWjY",
	},
	{
		SongName: "Starving",
		Artists: []client.Artist{
			{Name: "Hailee Steinfeld", URI: "4mVrsMDEJRmLMbEPJjhjet"},
			{Name: "Grey", URI: "3jK5Euaa0MMLtvXxf19LFB"},
			{Name: "Zedd", URI: "0PXi20NlXzc53jUHAC4HXJ"},
		},
		Colors:     client.Colors{Primary: "#c1a49e", Accent: "#97112c"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/055/817/0005581785_200.jpg",
		DurationMs: 181880,
		TrackID:    "soundtrack:track:44Lu1GecivaqQgvWDXkh7g",
		URI:        "spotify:track:4Ce37cRWvM1vIGGynKcs22",
	},
	{
		SongName:   "Harder, Better, Faster, Stronger",
		Artists:    []client.Artist{{Name: "Daft Punk", URI: "1PQsyKzCPVuxXSrbDaGtZe"}},
		Colors:     client.Colors{Primary: "#cac9cc", Accent: "#a4411b"},
		ImageURL:   "https://artwork-cdn.7static.com/static/img/sleeveart/00/000/454/0000045472_200.jpg",
		DurationMs: 224693,
		TrackID:    "soundtrack:track:4iFiuP9PNlAOIToTr1Rf6X",
		URI:        "spotify:track:5W3cjX2J3tjhG8zb6u0qHn",
	},
}

// Generator hands out random catalog tracks stamped as just played.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator seeded from the current time.
func NewGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewSource(time.Now().UnixNano()), time.Now)
}

// NewGeneratorWithSource creates a deterministic generator for tests.
func NewGeneratorWithSource(src rand.Source, now func() time.Time) *Generator {
	return &Generator{rnd: rand.New(src), now: now}
}

// Next returns a random catalog track created now.
func (g *Generator) Next() client.Scrobble {
	g.mu.Lock()
	idx := g.rnd.Intn(len(Catalog))
	at := g.now()
	g.mu.Unlock()
	return stamp(Catalog[idx], at)
}

// History returns n tracks in the order the radio API sends them: newest
// first, one track length apart, ending at now.
func (g *Generator) History(n int) []client.Scrobble {
	g.mu.Lock()
	at := g.now()
	picks := make([]int, n)
	for i := range picks {
		picks[i] = g.rnd.Intn(len(Catalog))
	}
	g.mu.Unlock()

	out := make([]client.Scrobble, 0, n)
	for _, idx := range picks {
		s := stamp(Catalog[idx], at)
		out = append(out, s)
		at = at.Add(-s.Duration())
	}
	return out
}

func stamp(track client.Scrobble, at time.Time) client.Scrobble {
	s := track
	s.Artists = append([]client.Artist(nil), track.Artists...)
	s.ChannelName = ChannelName
	s.CreatedAt = at.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	s.ID = uuid.NewString()
	return s
}
