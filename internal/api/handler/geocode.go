package handler

import (
	"context"
	"net/http"

	"github.com/stratuslabs/stratus/internal/api/response"
	"github.com/stratuslabs/stratus/pkg/models"
)

// GeocodeService defines the interface the geocode handlers depend on.
type GeocodeService interface {
	Search(ctx context.Context, query string) ([]models.Location, error)
	Locate(ctx context.Context, lat, lon float64) (models.Location, error)
}

// NewGeocodeHandler returns an http.HandlerFunc for GET /api/v1/geocode.
func NewGeocodeHandler(svc GeocodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"q is required", nil)
			return
		}

		locations, err := svc.Search(r.Context(), query)
		if err != nil {
			writeWeatherError(w, err)
			return
		}
		response.JSON(w, locations)
	}
}

// NewReverseGeocodeHandler returns an http.HandlerFunc for GET /api/v1/geocode/reverse.
func NewReverseGeocodeHandler(svc GeocodeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, ok := parseCoord(w, r, "lat", -90, 90)
		if !ok {
			return
		}
		lon, ok := parseCoord(w, r, "lon", -180, 180)
		if !ok {
			return
		}

		location, err := svc.Locate(r.Context(), lat, lon)
		if err != nil {
			writeWeatherError(w, err)
			return
		}
		response.JSON(w, location)
	}
}
