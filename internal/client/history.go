package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultHistoryURL is the latest-tracks endpoint; {zone} is replaced
	// by the zone id.
	DefaultHistoryURL = "https://radio.api.soundtrackyourbrand.com/sound_zones/{zone}/history_tracks/latest"

	// DefaultAPIVersion is the value of the required X-API-Version header.
	DefaultAPIVersion = "10"
)

// HistoryClient fetches the recent tracks of one zone over HTTP.
type HistoryClient struct {
	url        string
	apiVersion string
	client     *http.Client
}

// NewHistoryClient creates a client for zoneID. urlTemplate may contain
// {zone}; an empty template or apiVersion selects the defaults.
func NewHistoryClient(zoneID, urlTemplate, apiVersion string, timeout time.Duration) (*HistoryClient, error) {
	if zoneID == "" {
		return nil, ErrInvalidZoneID
	}
	if urlTemplate == "" {
		urlTemplate = DefaultHistoryURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HistoryClient{
		url:        strings.ReplaceAll(urlTemplate, "{zone}", zoneID),
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// URL returns the expanded endpoint.
func (c *HistoryClient) URL() string { return c.url }

// FetchHistory returns the zone's latest scrobbles, oldest first. The
// server sends them newest first.
func (c *HistoryClient) FetchHistory(ctx context.Context) ([]Scrobble, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Version", c.apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			Method: http.MethodGet,
			URL:    c.url,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	scrobbles := make([]Scrobble, 0, len(records))
	for i, rec := range records {
		s, err := ParseScrobble(rec)
		if err != nil {
			return nil, fmt.Errorf("decode history record %d: %w", i, err)
		}
		scrobbles = append(scrobbles, s)
	}
	SortByCreated(scrobbles)
	return scrobbles, nil
}

// SortByCreated orders scrobbles oldest first. Records with equal or
// unparseable timestamps keep their relative order.
func SortByCreated(scrobbles []Scrobble) {
	sort.SliceStable(scrobbles, func(i, j int) bool {
		return scrobbles[i].Created().Before(scrobbles[j].Created())
	})
}
