package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a named point on the map as returned by the geocoding provider.
// State and Country may be empty for sparse geocoder results.
type Location struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// SavedLocation is a location a user has pinned to their dashboard.
type SavedLocation struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UserID    uuid.UUID `db:"user_id"    json:"user_id"`
	Name      string    `db:"name"       json:"name"`
	State     string    `db:"state"      json:"state,omitempty"`
	Country   string    `db:"country"    json:"country,omitempty"`
	Lat       float64   `db:"lat"        json:"lat"`
	Lon       float64   `db:"lon"        json:"lon"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
