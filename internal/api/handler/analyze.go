package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stratuslabs/stratus/internal/analysis"
	"github.com/stratuslabs/stratus/internal/api/response"
	"github.com/stratuslabs/stratus/internal/weather"
	"github.com/stratuslabs/stratus/pkg/models"
)

// AnalysisService defines the interface the analyze handlers depend on.
type AnalysisService interface {
	Submit(ctx context.Context, userLat, userLon, targetLat, targetLon float64) (*analysis.Submission, error)
	Poll(id uuid.UUID) (models.AnalysisResult, bool, error)
}

type submitResponse struct {
	AnalysisID     string                 `json:"analysis_id"`
	UserLocation   models.Location        `json:"user_location"`
	TargetLocation models.Location        `json:"target_location"`
	Weather        models.WeatherSnapshot `json:"weather"`
	Analysis       models.AnalysisResult  `json:"analysis"`
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
// It accepts four coordinate query values and returns 202 with the job id and
// placeholder before any AI work happens.
func NewAnalyzeHandler(svc AnalysisService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userLat, ok := parseCoord(w, r, "user_lat", -90, 90)
		if !ok {
			return
		}
		userLon, ok := parseCoord(w, r, "user_lon", -180, 180)
		if !ok {
			return
		}
		targetLat, ok := parseCoord(w, r, "lat", -90, 90)
		if !ok {
			return
		}
		targetLon, ok := parseCoord(w, r, "lon", -180, 180)
		if !ok {
			return
		}

		sub, err := svc.Submit(r.Context(), userLat, userLon, targetLat, targetLon)
		if err != nil {
			switch {
			case errors.Is(err, weather.ErrWeatherTimeout):
				response.Error(w, http.StatusGatewayTimeout, "WEATHER_TIMEOUT",
					"The weather provider took too long to respond", nil)
			case errors.Is(err, weather.ErrWeatherUnreachable),
				errors.Is(err, weather.ErrWeatherUpstream):
				response.Error(w, http.StatusBadGateway, "WEATHER_UNAVAILABLE",
					"The weather provider is not available", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.Accepted(w, submitResponse{
			AnalysisID:     sub.Job.ID.String(),
			UserLocation:   sub.UserLocation,
			TargetLocation: sub.TargetLocation,
			Weather:        sub.Weather,
			Analysis:       sub.Placeholder,
		})
	}
}

type pollResponse struct {
	Completed bool                   `json:"completed"`
	Analysis  *models.AnalysisResult `json:"analysis,omitempty"`
}

// NewPollHandler returns an http.HandlerFunc for GET /api/v1/analyze/{analysisID}.
// The first poll that observes completion receives the result; the job is
// gone afterwards, so a repeat poll is a 404.
func NewPollHandler(svc AnalysisService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "analysisID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"analysisID must be a valid UUID", nil)
			return
		}

		result, completed, err := svc.Poll(id)
		if err != nil {
			if errors.Is(err, analysis.ErrJobNotFound) {
				response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND",
					"Unknown analysis id: never existed, already collected, or expired", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		if !completed {
			response.JSON(w, pollResponse{Completed: false})
			return
		}
		response.JSON(w, pollResponse{Completed: true, Analysis: &result})
	}
}

// parseCoord reads a required float query parameter within [min, max],
// writing a 400 and returning false on any violation.
func parseCoord(w http.ResponseWriter, r *http.Request, name string, min, max float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			name+" is required", nil)
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			name+" must be a number", nil)
		return 0, false
	}
	if v < min || v > max {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			name+" is out of range", nil)
		return 0, false
	}
	return v, true
}
