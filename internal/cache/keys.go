package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Coordinates are rounded to two decimals (~1km) so nearby requests share a
// cache entry.

func WeatherKey(lat, lon float64) string {
	return fmt.Sprintf("weather:current:%.2f:%.2f", lat, lon)
}

func ForecastKey(lat, lon float64) string {
	return fmt.Sprintf("weather:forecast:%.2f:%.2f", lat, lon)
}

func GeocodeKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return "geo:direct:" + hex.EncodeToString(sum[:8])
}

func ReverseGeocodeKey(lat, lon float64) string {
	return fmt.Sprintf("geo:reverse:%.2f:%.2f", lat, lon)
}

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
