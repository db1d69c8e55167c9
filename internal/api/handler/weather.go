package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/stratuslabs/stratus/internal/api/response"
	"github.com/stratuslabs/stratus/internal/weather"
	"github.com/stratuslabs/stratus/pkg/models"
)

// WeatherService defines the interface the weather handler depends on.
type WeatherService interface {
	Snapshot(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
}

// NewWeatherHandler returns an http.HandlerFunc for GET /api/v1/weather.
func NewWeatherHandler(svc WeatherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, ok := parseCoord(w, r, "lat", -90, 90)
		if !ok {
			return
		}
		lon, ok := parseCoord(w, r, "lon", -180, 180)
		if !ok {
			return
		}

		snapshot, err := svc.Snapshot(r.Context(), lat, lon)
		if err != nil {
			writeWeatherError(w, err)
			return
		}
		response.JSON(w, snapshot)
	}
}

func writeWeatherError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		response.Error(w, http.StatusNotFound, "LOCATION_NOT_FOUND",
			"No weather data for the requested location", nil)
	case errors.Is(err, weather.ErrWeatherTimeout):
		response.Error(w, http.StatusGatewayTimeout, "WEATHER_TIMEOUT",
			"The weather provider took too long to respond", nil)
	case errors.Is(err, weather.ErrWeatherUnreachable), errors.Is(err, weather.ErrWeatherUpstream):
		response.Error(w, http.StatusBadGateway, "WEATHER_UNAVAILABLE",
			"The weather provider is not available", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
