package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stratuslabs/stratus/pkg/models"
)

// System instructions and sampling parameters for the three analysis calls.
const (
	ContextSystem      = "You are a helpful weather assistant that provides location-based weather insights and practical suggestions."
	ContextMaxTokens   = 800
	ContextTemperature = 0.7

	SuggestionsSystem      = "You provide practical weather-based suggestions."
	SuggestionsMaxTokens   = 400
	SuggestionsTemperature = 0.6

	FactsSystem      = "You provide interesting weather facts and insights."
	FactsMaxTokens   = 300
	FactsTemperature = 0.8
)

// combinedForecastDays caps how much forecast detail the combined context
// prompt carries; the suggestions prompt gets the full forecast.
const combinedForecastDays = 3

// BuildContextPrompt renders the combined context/warnings/suggestions/facts
// prompt comparing the user's location with the target location. Pure
// function; missing text fields render as "N/A" rather than failing.
func BuildContextPrompt(req models.AnalysisRequest) string {
	cur := req.Weather.Current

	var b strings.Builder
	b.WriteString("You are a helpful weather assistant providing location-based weather insights.\n\n")

	b.WriteString("USER CONTEXT:\n")
	fmt.Fprintf(&b, "- User's current location: %s\n", displayName(req.UserLocation))
	fmt.Fprintf(&b, "- User's coordinates: %.4f, %.4f\n\n", req.UserLocation.Lat, req.UserLocation.Lon)

	b.WriteString("TARGET LOCATION:\n")
	fmt.Fprintf(&b, "- Location: %s\n", displayName(req.TargetLocation))
	fmt.Fprintf(&b, "- Coordinates: %.4f, %.4f\n\n", req.TargetLocation.Lat, req.TargetLocation.Lon)

	b.WriteString("CURRENT WEATHER:\n")
	fmt.Fprintf(&b, "- Temperature: %.1f°F\n", cur.TempF)
	fmt.Fprintf(&b, "- Feels like: %.1f°F\n", cur.FeelsLikeF)
	fmt.Fprintf(&b, "- Humidity: %d%%\n", cur.Humidity)
	fmt.Fprintf(&b, "- Wind speed: %.1f mph\n", cur.WindMPH)
	fmt.Fprintf(&b, "- Weather description: %s\n\n", orNA(cur.Description))

	b.WriteString("5-DAY FORECAST:\n")
	b.WriteString(forecastJSON(req.Weather.Forecast, combinedForecastDays))
	b.WriteString("\n\n")

	b.WriteString("Please provide:\n")
	b.WriteString("1. **Location Context**: How the target location's climate differs from the user's location\n")
	b.WriteString("2. **Weather Warnings**: Important weather considerations for someone from the user's location\n")
	b.WriteString("3. **Smart Suggestions**: Practical advice based on the weather forecast\n")
	b.WriteString("4. **Fun Facts**: Interesting weather or location facts\n\n")

	b.WriteString("Format your response as JSON with these keys:\n")
	b.WriteString("- \"context_warnings\": [array of warnings]\n")
	b.WriteString("- \"suggestions\": [array of suggestions]\n")
	b.WriteString("- \"fun_facts\": [array of fun facts]\n")
	b.WriteString("- \"climate_comparison\": \"brief comparison text\"\n\n")

	b.WriteString("Keep responses concise and practical. Focus on actionable insights.")
	return b.String()
}

// BuildSuggestionsPrompt renders the suggestions-only prompt. It carries the
// full forecast, unlike the combined prompt.
func BuildSuggestionsPrompt(req models.AnalysisRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on this 5-day weather forecast, provide practical suggestions for someone in %s.\n\n",
		orUnknown(req.UserLocation.Name))

	b.WriteString("FORECAST DATA:\n")
	b.WriteString(forecastJSON(req.Weather.Forecast, len(req.Weather.Forecast)))
	b.WriteString("\n\n")

	b.WriteString("Provide 3-5 practical suggestions including:\n")
	b.WriteString("- Outdoor activity recommendations\n")
	b.WriteString("- Clothing suggestions\n")
	b.WriteString("- Timing for outdoor tasks\n")
	b.WriteString("- Weather-related precautions\n\n")

	b.WriteString("Format as JSON array of strings.")
	return b.String()
}

// BuildFactsPrompt renders the fun-facts prompt for the target location.
func BuildFactsPrompt(req models.AnalysisRequest) string {
	cur := req.Weather.Current

	var b strings.Builder
	fmt.Fprintf(&b, "Create 2-3 interesting weather facts or insights for %s.\n\n",
		orUnknown(req.TargetLocation.Name))

	b.WriteString("WEATHER DATA:\n")
	fmt.Fprintf(&b, "Current: %.1f°F, %d%% humidity\n", cur.TempF, cur.Humidity)
	fmt.Fprintf(&b, "Forecast: %d days of data\n\n", len(req.Weather.Forecast))

	b.WriteString("Focus on:\n")
	b.WriteString("- Interesting weather patterns\n")
	b.WriteString("- Local climate facts\n")
	b.WriteString("- Seasonal insights\n")
	b.WriteString("- Weather records or averages\n\n")

	b.WriteString("Format as JSON array of strings.")
	return b.String()
}

// displayName renders "Name, State, Country" dropping empty parts.
func displayName(loc models.Location) string {
	parts := []string{orUnknown(loc.Name)}
	if loc.State != "" {
		parts = append(parts, loc.State)
	}
	if loc.Country != "" {
		parts = append(parts, loc.Country)
	}
	return strings.Join(parts, ", ")
}

func forecastJSON(days []models.ForecastDay, limit int) string {
	if limit > len(days) {
		limit = len(days)
	}
	out, err := json.MarshalIndent(days[:limit], "", "  ")
	if err != nil {
		return "[]"
	}
	return string(out)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
