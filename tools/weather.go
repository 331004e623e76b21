// tools/weather.go
package tools

import (
	"context"
	"fmt"
	"strings"
)

// weatherData holds the canned conditions per city, keyed lowercase.
var weatherData = map[string]string{
	"new york":      "☀️ Sunny, 22°C (72°F), gentle breeze",
	"london":        "🌧️ Light rain, 15°C (59°F), cloudy skies",
	"tokyo":         "⛅ Partly cloudy, 18°C (64°F), humid conditions",
	"paris":         "☀️ Clear skies, 20°C (68°F), perfect weather",
	"sydney":        "🌞 Sunny, 25°C (77°F), ideal beach weather",
	"san francisco": "🌫️ Foggy, 16°C (61°F), typical SF morning",
	"berlin":        "☁️ Overcast, 12°C (54°F), cool and breezy",
	"mumbai":        "🌡️ Hot & humid, 32°C (90°F), monsoon season",
	"singapore":     "🌦️ Tropical, 28°C (82°F), afternoon storms",
}

// weatherCities fixes the scan order for ExtractCity; map iteration
// would pick an arbitrary city when the text mentions more than one.
var weatherCities = []string{
	"new york", "london", "tokyo", "paris", "sydney",
	"san francisco", "berlin", "mumbai", "singapore",
}

// WeatherTool reports conditions for a small set of cities.
type WeatherTool struct {
	base
}

// NewWeatherTool creates the weather tool
func NewWeatherTool() *WeatherTool {
	return &WeatherTool{base: base{
		name:                 "weather",
		description:          "Get current weather for a city",
		parameterName:        "city",
		parameterDescription: "The city to look up weather for",
		defaultArgument:      "New York",
		keywords: []string{
			"weather", "temperature", "climate", "forecast",
			"hot", "cold", "rain", "sunny",
		},
	}}
}

// ArgumentFromInput pulls a city name out of free text
func (t *WeatherTool) ArgumentFromInput(input string) string {
	return ExtractCity(input)
}

// Invoke looks up the city, falling back to the default when no city was
// given.
func (t *WeatherTool) Invoke(ctx context.Context, arg string) (string, error) {
	city := strings.TrimSpace(arg)
	if city == "" {
		city = t.defaultArgument
	}

	entry, ok := weatherData[strings.ToLower(city)]
	if !ok {
		entry = fmt.Sprintf("Weather info not available for %s", city)
	}
	return fmt.Sprintf("Weather in %s: %s", titleCase(city), entry), nil
}

// ExtractCity finds a city name in the text. Known cities are matched
// first so that multi-word names like "san francisco" survive; otherwise
// the word after a location preposition is taken.
func ExtractCity(text string) string {
	lower := strings.ToLower(text)
	for _, city := range weatherCities {
		if strings.Contains(lower, city) {
			return city
		}
	}

	words := strings.Fields(lower)
	for i, word := range words {
		if (word == "in" || word == "for" || word == "at") && i+1 < len(words) {
			return strings.Trim(words[i+1], ".,!?")
		}
	}
	return ""
}

// titleCase upper-cases the first letter of every space-separated word
// and lower-cases the rest, so "TOKYO" and "tokyo" both render as
// "Tokyo". strings.Title is deprecated, hence by hand.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
		}
	}
	return strings.Join(words, " ")
}
