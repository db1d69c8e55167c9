package models

import "time"

// CurrentConditions holds the current observation for a point, imperial units.
type CurrentConditions struct {
	TempF       float64   `json:"temp_f"`
	FeelsLikeF  float64   `json:"feels_like_f"`
	Humidity    int       `json:"humidity"`
	WindMPH     float64   `json:"wind_mph"`
	Description string    `json:"description"`
	ObservedAt  time.Time `json:"observed_at"`
}

// ForecastDay is one day of aggregated forecast data.
type ForecastDay struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	HighF        float64 `json:"high_f"`
	LowF         float64 `json:"low_f"`
	Humidity     int     `json:"humidity"`
	WindMPH      float64 `json:"wind_mph"`
	Description  string  `json:"description"`
	PrecipChance int     `json:"precip_chance"` // percent
}

// WeatherSnapshot bundles current conditions with the daily forecast for a
// point. It is the opaque weather value carried by an AnalysisRequest.
type WeatherSnapshot struct {
	Current  CurrentConditions `json:"current"`
	Forecast []ForecastDay     `json:"forecast"`
}
