package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stratuslabs/stratus/internal/cache"
	"github.com/stratuslabs/stratus/pkg/models"
)

// geocodeCacheTTL is longer than the weather TTL; place names don't move.
const geocodeCacheTTL = 24 * time.Hour

// Service assembles weather snapshots and location lookups, caching provider
// responses in Redis. Cache failures degrade to direct provider calls.
type Service struct {
	client Client
	cache  cache.Cache
	ttl    time.Duration
}

// NewService creates a weather Service. ttl bounds how long current/forecast
// responses are cached.
func NewService(client Client, ca cache.Cache, ttl time.Duration) *Service {
	return &Service{client: client, cache: ca, ttl: ttl}
}

// Snapshot returns current conditions plus the daily forecast for a point.
func (s *Service) Snapshot(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	var snap models.WeatherSnapshot
	if s.cachedGet(ctx, cache.WeatherKey(lat, lon), &snap) {
		return snap, nil
	}

	current, err := s.client.Current(ctx, lat, lon)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("fetching current conditions: %w", err)
	}

	forecast, err := s.client.Forecast(ctx, lat, lon)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("fetching forecast: %w", err)
	}

	snap = models.WeatherSnapshot{Current: current, Forecast: forecast}
	s.cachedSet(ctx, cache.WeatherKey(lat, lon), snap, s.ttl)
	return snap, nil
}

// Search resolves a free-text query to candidate locations.
func (s *Service) Search(ctx context.Context, query string) ([]models.Location, error) {
	var locations []models.Location
	if s.cachedGet(ctx, cache.GeocodeKey(query), &locations) {
		return locations, nil
	}

	locations, err := s.client.Geocode(ctx, query, 5)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}

	s.cachedSet(ctx, cache.GeocodeKey(query), locations, geocodeCacheTTL)
	return locations, nil
}

// Locate resolves coordinates to the nearest named location. An unresolvable
// point falls back to a coordinate-labelled location rather than failing —
// analysis can proceed without a pretty name.
func (s *Service) Locate(ctx context.Context, lat, lon float64) (models.Location, error) {
	var loc models.Location
	if s.cachedGet(ctx, cache.ReverseGeocodeKey(lat, lon), &loc) {
		return loc, nil
	}

	loc, err := s.client.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) || errors.Is(err, ErrWeatherUpstream) {
			return models.Location{
				Name: fmt.Sprintf("%.2f, %.2f", lat, lon),
				Lat:  lat,
				Lon:  lon,
			}, nil
		}
		return models.Location{}, fmt.Errorf("reverse geocoding: %w", err)
	}

	s.cachedSet(ctx, cache.ReverseGeocodeKey(lat, lon), loc, geocodeCacheTTL)
	return loc, nil
}

// cachedGet returns true when the key was present and decoded cleanly.
func (s *Service) cachedGet(ctx context.Context, key string, out any) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *Service) cachedSet(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, raw, ttl)
}
