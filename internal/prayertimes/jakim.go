// Package prayertimes fetches Malaysian prayer schedules (waktusolat.app's
// JAKIM feed) and turns them into per-day avoidance windows for the
// eligibility filter. Fetched days are cached in redis; when the feed is down
// the last successfully fetched snapshot is served instead so a slow upstream
// never blocks a scheduling tick.
package prayertimes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/model"
	"github.com/papan-digital/minbar/internal/redis"
)

const (
	defaultBaseURL = "https://api.waktusolat.app/v2/solat"

	// congregational prayer occupies the hall for a while after the azan
	prayerWindowDuration = 30 * time.Minute

	// cached snapshots older than this are treated as missing; the filter
	// then fails closed for avoidance-declaring assignments
	maxSnapshotAge = 26 * time.Hour

	cacheTTL = 48 * time.Hour
)

// Client is a PrayerSource backed by the JAKIM feed with a redis fallback.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// jakimResponse is the shape of the waktusolat.app v2 feed: one month of
// prayer days with unix-timestamp times.
type jakimResponse struct {
	Zone    string `json:"zone"`
	Prayers []struct {
		Day     int   `json:"day"`
		Fajr    int64 `json:"fajr"`
		Syuruk  int64 `json:"syuruk"`
		Dhuhr   int64 `json:"dhuhr"`
		Asr     int64 `json:"asr"`
		Maghrib int64 `json:"maghrib"`
		Isha    int64 `json:"isha"`
	} `json:"prayers"`
}

// Day returns the prayer windows for one zone-day. Fresh feed data is cached;
// on fetch failure the cached snapshot is returned as long as it is younger
// than maxSnapshotAge.
func (c *Client) Day(ctx context.Context, zone string, date time.Time) (model.PrayerDay, error) {
	key := cacheKey(zone, date)

	day, err := c.fetch(ctx, zone, date)
	if err == nil {
		redis.SetJSON(ctx, key, day, cacheTTL)
		return day, nil
	}
	log.Warn().Err(err).Str("zone", zone).Msg("prayer feed fetch failed, trying cached snapshot")

	var cached model.PrayerDay
	if redis.GetJSON(ctx, key, &cached) {
		if time.Since(cached.FetchedAt) <= maxSnapshotAge {
			cached.Source = "cache"
			return cached, nil
		}
		log.Warn().Str("zone", zone).Time("fetched_at", cached.FetchedAt).Msg("cached prayer snapshot too stale to use")
	}

	return model.PrayerDay{}, fmt.Errorf("no usable prayer data for zone %s: %w", zone, err)
}

func (c *Client) fetch(ctx context.Context, zone string, date time.Time) (model.PrayerDay, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, zone), nil)
	if err != nil {
		return model.PrayerDay{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.PrayerDay{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.PrayerDay{}, fmt.Errorf("prayer feed returned %d", resp.StatusCode)
	}

	var payload jakimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.PrayerDay{}, fmt.Errorf("decoding prayer feed: %w", err)
	}

	for _, p := range payload.Prayers {
		if p.Day != date.Day() {
			continue
		}
		windows := []model.PrayerWindow{}
		for name, ts := range map[string]int64{
			"fajr":    p.Fajr,
			"dhuhr":   p.Dhuhr,
			"asr":     p.Asr,
			"maghrib": p.Maghrib,
			"isha":    p.Isha,
		} {
			start := time.Unix(ts, 0)
			windows = append(windows, model.PrayerWindow{
				Name:  name,
				Start: start,
				End:   start.Add(prayerWindowDuration),
			})
		}
		return model.PrayerDay{
			Zone:      zone,
			Date:      date.Format("2006-01-02"),
			Windows:   windows,
			Source:    "jakim",
			FetchedAt: time.Now(),
		}, nil
	}

	return model.PrayerDay{}, fmt.Errorf("prayer feed has no entry for day %d", date.Day())
}

func cacheKey(zone string, date time.Time) string {
	return fmt.Sprintf("prayers:%s:%s", zone, date.Format("2006-01-02"))
}
