package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/stratuslabs/stratus/pkg/models"
	"github.com/stretchr/testify/assert"
)

func testAnalysisRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		UserLocation: models.Location{
			Name: "Seattle", State: "WA", Country: "US",
			Lat: 47.6062, Lon: -122.3321,
		},
		TargetLocation: models.Location{
			Name: "Phoenix", State: "AZ", Country: "US",
			Lat: 33.4484, Lon: -112.074,
		},
		Weather: models.WeatherSnapshot{
			Current: models.CurrentConditions{
				TempF:       104.5,
				FeelsLikeF:  109.2,
				Humidity:    12,
				WindMPH:     8.1,
				Description: "clear sky",
				ObservedAt:  time.Date(2025, 7, 14, 18, 0, 0, 0, time.UTC),
			},
			Forecast: []models.ForecastDay{
				{Date: "2025-07-15", HighF: 108, LowF: 84, Humidity: 10, WindMPH: 9, Description: "sunny"},
				{Date: "2025-07-16", HighF: 110, LowF: 86, Humidity: 8, WindMPH: 12, Description: "sunny"},
				{Date: "2025-07-17", HighF: 106, LowF: 83, Humidity: 15, WindMPH: 7, Description: "partly cloudy"},
				{Date: "2025-07-18", HighF: 102, LowF: 81, Humidity: 20, WindMPH: 6, Description: "scattered clouds"},
				{Date: "2025-07-19", HighF: 99, LowF: 79, Humidity: 25, WindMPH: 10, Description: "light rain"},
			},
		},
	}
}

func TestBuildContextPrompt_IncludesBothLocations(t *testing.T) {
	prompt := BuildContextPrompt(testAnalysisRequest())

	assert.Contains(t, prompt, "Seattle, WA, US")
	assert.Contains(t, prompt, "Phoenix, AZ, US")
	assert.Contains(t, prompt, "47.6062, -122.3321")
	assert.Contains(t, prompt, "33.4484, -112.0740")
}

func TestBuildContextPrompt_IncludesCurrentConditions(t *testing.T) {
	prompt := BuildContextPrompt(testAnalysisRequest())

	assert.Contains(t, prompt, "Temperature: 104.5°F")
	assert.Contains(t, prompt, "Feels like: 109.2°F")
	assert.Contains(t, prompt, "Humidity: 12%")
	assert.Contains(t, prompt, "Wind speed: 8.1 mph")
	assert.Contains(t, prompt, "clear sky")
}

func TestBuildContextPrompt_AsksForAllFourKeys(t *testing.T) {
	prompt := BuildContextPrompt(testAnalysisRequest())

	assert.Contains(t, prompt, `"context_warnings"`)
	assert.Contains(t, prompt, `"suggestions"`)
	assert.Contains(t, prompt, `"fun_facts"`)
	assert.Contains(t, prompt, `"climate_comparison"`)
}

func TestBuildContextPrompt_TruncatesForecast(t *testing.T) {
	prompt := BuildContextPrompt(testAnalysisRequest())

	// Only the first three forecast days go into the combined prompt.
	assert.Contains(t, prompt, "2025-07-17")
	assert.NotContains(t, prompt, "2025-07-18")
}

func TestBuildContextPrompt_MissingFieldsRenderPlaceholders(t *testing.T) {
	req := models.AnalysisRequest{}
	prompt := BuildContextPrompt(req)

	assert.Contains(t, prompt, "Unknown")
	assert.Contains(t, prompt, "N/A")
}

func TestBuildSuggestionsPrompt_CarriesFullForecast(t *testing.T) {
	prompt := BuildSuggestionsPrompt(testAnalysisRequest())

	assert.Contains(t, prompt, "Seattle")
	for _, date := range []string{"2025-07-15", "2025-07-16", "2025-07-17", "2025-07-18", "2025-07-19"} {
		assert.Contains(t, prompt, date)
	}
	assert.Contains(t, prompt, "Format as JSON array of strings.")
}

func TestBuildFactsPrompt_TargetsRemoteLocation(t *testing.T) {
	prompt := BuildFactsPrompt(testAnalysisRequest())

	assert.Contains(t, prompt, "Phoenix")
	assert.Contains(t, prompt, "Current: 104.5°F, 12% humidity")
	assert.Contains(t, prompt, "Forecast: 5 days of data")
}

func TestBuildPrompts_AreDeterministic(t *testing.T) {
	req := testAnalysisRequest()
	assert.Equal(t, BuildContextPrompt(req), BuildContextPrompt(req))
	assert.Equal(t, BuildSuggestionsPrompt(req), BuildSuggestionsPrompt(req))
	assert.Equal(t, BuildFactsPrompt(req), BuildFactsPrompt(req))
}

func TestDisplayName_DropsEmptyParts(t *testing.T) {
	assert.Equal(t, "Tokyo, JP", displayName(models.Location{Name: "Tokyo", Country: "JP"}))
	assert.Equal(t, "Unknown", displayName(models.Location{}))
	assert.False(t, strings.Contains(displayName(models.Location{Name: "Paris"}), ","))
}
