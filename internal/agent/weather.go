package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashvetsov/agenthub/internal/providers"
)

const weatherCacheTTL = 10 * time.Minute

const maxHourlyLines = 48

const weatherSystemPrompt = `You are a helpful weather assistant that analyzes comprehensive weather data to answer user questions.

AVAILABLE DATA:
- Current weather conditions (temperature in F, precipitation in inches, weather code, wind speed in mph, humidity %)
- Hourly forecasts for the next 72 hours (3 days) with the same parameters
- Daily summaries for the next 3 days (min/max temperature in F, total precipitation in inches, weather code)
- All times are in the user's local timezone

WEATHER CODES (key ones):
0 = Clear sky, 1-3 = Partly cloudy, 45-48 = Fog, 51-67 = Rain (light to heavy),
71-86 = Snow, 95-99 = Thunderstorms

YOUR TASK:
- Analyze the relevant time periods based on the user's question
- For "today" questions: use current + today's hourly/daily data
- For "tomorrow" questions: use tomorrow's hourly/daily data
- For "this afternoon/evening" questions: focus on relevant hourly data
- For "this week" questions: use daily summaries
- Provide specific, actionable advice based on the data
- Use Fahrenheit for all temperature references
- Directly answer the user's question based on the data provided
- End your response with a clear action item or conclusion on a new line
- When the user gives greetings or small talk, just acknowledge the greeting

Be conversational but precise. Always ground your answers in the actual data provided.`

type weatherSnapshot struct {
	location *providers.Location
	forecast *providers.Forecast
}

// NewWeather builds the weather agent. Location and forecast are fetched
// together and cached for ten minutes so repeated turns in one conversation
// do not hammer the providers.
func NewWeather(p *providers.Set) Agent {
	var cache providers.Cached[weatherSnapshot]

	fetch := func(ctx context.Context) (weatherSnapshot, error) {
		loc, err := p.Location.Lookup(ctx)
		if err != nil {
			return weatherSnapshot{}, fmt.Errorf("resolve location: %w", err)
		}
		forecast, err := p.Weather.Forecast(ctx, loc.Lat, loc.Lon)
		if err != nil {
			return weatherSnapshot{}, fmt.Errorf("fetch forecast: %w", err)
		}
		return weatherSnapshot{location: loc, forecast: forecast}, nil
	}

	augment := func(ctx context.Context, userMessage string, status *Status) string {
		status.Set("Fetching weather data...")

		snap, err := cache.GetOrRefresh(ctx, weatherCacheTTL, fetch)
		if err != nil {
			return "I'm sorry, I couldn't fetch weather data at the moment.\n\nUser question: " + userMessage
		}

		status.Set("Analyzing weather conditions...")
		return formatWeatherPrompt(snap, userMessage)
	}

	return NewAugmented("Weather Agent", "Ask a weather-related question", weatherSystemPrompt, augment)
}

func formatWeatherPrompt(snap weatherSnapshot, userMessage string) string {
	loc, f := snap.location, snap.forecast

	var b strings.Builder
	fmt.Fprintf(&b, "Location: %s, %s, %s\n", loc.City, loc.Region, loc.Country)
	fmt.Fprintf(&b, "Current: %.1fF, %.2fin precip, wind %.1fmph, %.0f%% humidity, weather code %d\n\n",
		f.Current.Temperature, f.Current.Precipitation, f.Current.WindSpeed, f.Current.Humidity, f.Current.WeatherCode)

	b.WriteString("HOURLY FORECAST (next 48 hours):\n")
	for i := range f.Hourly.Time {
		if i >= maxHourlyLines {
			break
		}
		fmt.Fprintf(&b, "%s: %.1fF, %.2fin, code %d\n",
			f.Hourly.Time[i], f.Hourly.Temperature[i], f.Hourly.Precipitation[i], f.Hourly.WeatherCode[i])
	}

	b.WriteString("\nDAILY FORECAST:\n")
	for i := range f.Daily.Time {
		fmt.Fprintf(&b, "%s: %.1fF - %.1fF, %.2fin total, code %d\n",
			f.Daily.Time[i], f.Daily.TemperatureMin[i], f.Daily.TemperatureMax[i], f.Daily.PrecipitationSum[i], f.Daily.WeatherCode[i])
	}

	fmt.Fprintf(&b, "\nUser question: %s\n", userMessage)
	return b.String()
}
