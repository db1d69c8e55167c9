// Package weather talks to the weather/geocoding provider and assembles
// dashboard snapshots.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stratuslabs/stratus/pkg/models"
)

// Sentinel errors for weather provider failures.
var (
	ErrWeatherUnreachable = errors.New("weather provider unreachable")
	ErrWeatherUpstream    = errors.New("weather provider error")
	ErrWeatherTimeout     = errors.New("weather provider timeout")
	ErrLocationNotFound   = errors.New("location not found")
)

const maxForecastDays = 5

// Client is the interface for the weather/geocoding provider.
type Client interface {
	Current(ctx context.Context, lat, lon float64) (models.CurrentConditions, error)
	Forecast(ctx context.Context, lat, lon float64) ([]models.ForecastDay, error)
	Geocode(ctx context.Context, query string, limit int) ([]models.Location, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (models.Location, error)
}

// HTTPClient implements Client against an OpenWeatherMap-compatible API.
// All calls share one circuit breaker; a flapping upstream trips it rather
// than stacking timed-out requests.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewHTTPClient creates a weather HTTP client with a fixed request timeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		circuit: cb,
	}
}

// currentResponse mirrors the fields we consume from /data/2.5/weather.
type currentResponse struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (c *HTTPClient) Current(ctx context.Context, lat, lon float64) (models.CurrentConditions, error) {
	params := url.Values{
		"lat":   {formatCoord(lat)},
		"lon":   {formatCoord(lon)},
		"units": {"imperial"},
		"appid": {c.apiKey},
	}

	var payload currentResponse
	if err := c.getJSON(ctx, "/data/2.5/weather", params, &payload); err != nil {
		return models.CurrentConditions{}, err
	}

	observed := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		observed = time.Now().UTC()
	}

	description := ""
	if len(payload.Weather) > 0 {
		description = payload.Weather[0].Description
	}

	return models.CurrentConditions{
		TempF:       payload.Main.Temp,
		FeelsLikeF:  payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		WindMPH:     payload.Wind.Speed,
		Description: description,
		ObservedAt:  observed,
	}, nil
}

// forecastResponse mirrors /data/2.5/forecast: 3-hour entries spanning 5 days.
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMax  float64 `json:"temp_max"`
			TempMin  float64 `json:"temp_min"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

// Forecast fetches the 3-hourly forecast and aggregates it into at most five
// daily entries: max high, min low, max wind, mean humidity, max
// precipitation probability, and the description of the first entry that day.
func (c *HTTPClient) Forecast(ctx context.Context, lat, lon float64) ([]models.ForecastDay, error) {
	params := url.Values{
		"lat":   {formatCoord(lat)},
		"lon":   {formatCoord(lon)},
		"units": {"imperial"},
		"appid": {c.apiKey},
	}

	var payload forecastResponse
	if err := c.getJSON(ctx, "/data/2.5/forecast", params, &payload); err != nil {
		return nil, err
	}

	type dayAgg struct {
		high, low, wind float64
		humiditySum     int
		entries         int
		description     string
		pop             float64
	}

	days := make(map[string]*dayAgg)
	for _, entry := range payload.List {
		date := time.Unix(entry.Dt, 0).UTC().Format("2006-01-02")
		agg, ok := days[date]
		if !ok {
			agg = &dayAgg{high: entry.Main.TempMax, low: entry.Main.TempMin}
			if len(entry.Weather) > 0 {
				agg.description = entry.Weather[0].Description
			}
			days[date] = agg
		}
		if entry.Main.TempMax > agg.high {
			agg.high = entry.Main.TempMax
		}
		if entry.Main.TempMin < agg.low {
			agg.low = entry.Main.TempMin
		}
		if entry.Wind.Speed > agg.wind {
			agg.wind = entry.Wind.Speed
		}
		if entry.Pop > agg.pop {
			agg.pop = entry.Pop
		}
		agg.humiditySum += entry.Main.Humidity
		agg.entries++
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > maxForecastDays {
		dates = dates[:maxForecastDays]
	}

	forecast := make([]models.ForecastDay, 0, len(dates))
	for _, date := range dates {
		agg := days[date]
		humidity := 0
		if agg.entries > 0 {
			humidity = agg.humiditySum / agg.entries
		}
		forecast = append(forecast, models.ForecastDay{
			Date:         date,
			HighF:        agg.high,
			LowF:         agg.low,
			Humidity:     humidity,
			WindMPH:      agg.wind,
			Description:  agg.description,
			PrecipChance: int(agg.pop * 100),
		})
	}
	return forecast, nil
}

// geoResult mirrors the geocoding endpoints' entries.
type geoResult struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (c *HTTPClient) Geocode(ctx context.Context, query string, limit int) ([]models.Location, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(limit)},
		"appid": {c.apiKey},
	}

	var results []geoResult
	if err := c.getJSON(ctx, "/geo/1.0/direct", params, &results); err != nil {
		return nil, err
	}

	locations := make([]models.Location, 0, len(results))
	for _, r := range results {
		locations = append(locations, models.Location{
			Name:    r.Name,
			State:   r.State,
			Country: r.Country,
			Lat:     r.Lat,
			Lon:     r.Lon,
		})
	}
	return locations, nil
}

func (c *HTTPClient) ReverseGeocode(ctx context.Context, lat, lon float64) (models.Location, error) {
	params := url.Values{
		"lat":   {formatCoord(lat)},
		"lon":   {formatCoord(lon)},
		"limit": {"1"},
		"appid": {c.apiKey},
	}

	var results []geoResult
	if err := c.getJSON(ctx, "/geo/1.0/reverse", params, &results); err != nil {
		return models.Location{}, err
	}
	if len(results) == 0 {
		return models.Location{}, ErrLocationNotFound
	}

	r := results[0]
	return models.Location{
		Name:    r.Name,
		State:   r.State,
		Country: r.Country,
		Lat:     r.Lat,
		Lon:     r.Lon,
	}, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	body, err := c.circuit.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, classifyError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrWeatherUpstream, resp.StatusCode)
		}

		var raw json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding weather response: %w", err)
		}
		return raw, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open", ErrWeatherUnreachable)
		}
		return err
	}

	return json.Unmarshal(body.(json.RawMessage), out)
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrWeatherTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrWeatherTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrWeatherUnreachable, err)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

var _ Client = (*HTTPClient)(nil)
