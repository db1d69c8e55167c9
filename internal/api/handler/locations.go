package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stratuslabs/stratus/internal/api/middleware"
	"github.com/stratuslabs/stratus/internal/api/response"
	"github.com/stratuslabs/stratus/internal/store"
	"github.com/stratuslabs/stratus/pkg/models"
)

type saveLocationRequest struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewListLocationsHandler returns an http.HandlerFunc for GET /api/v1/locations.
func NewListLocationsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED",
				"Authentication required", nil)
			return
		}

		locations, err := st.ListLocations(r.Context(), userID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list locations", nil)
			return
		}
		response.JSON(w, locations)
	}
}

// NewSaveLocationHandler returns an http.HandlerFunc for POST /api/v1/locations.
func NewSaveLocationHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED",
				"Authentication required", nil)
			return
		}

		var req saveLocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Request body must be valid JSON", nil)
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"name is required", nil)
			return
		}
		if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"lat/lon out of range", nil)
			return
		}

		loc := &models.SavedLocation{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      req.Name,
			State:     req.State,
			Country:   req.Country,
			Lat:       req.Lat,
			Lon:       req.Lon,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.SaveLocation(r.Context(), loc); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "DUPLICATE_LOCATION",
					"This location is already saved", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to save location", nil)
			return
		}
		response.Created(w, loc)
	}
}

// NewDeleteLocationHandler returns an http.HandlerFunc for DELETE /api/v1/locations/{locationID}.
func NewDeleteLocationHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED",
				"Authentication required", nil)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "locationID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"locationID must be a valid UUID", nil)
			return
		}

		if err := st.DeleteLocation(r.Context(), id, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND",
					"Location not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to delete location", nil)
			return
		}
		response.NoContent(w)
	}
}
