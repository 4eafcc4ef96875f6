package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const defaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

// Forecast mirrors the open-meteo response fields the weather agent uses:
// current conditions, hourly series, and daily summaries, all in imperial
// units with times in the local timezone.
type Forecast struct {
	Current CurrentConditions `json:"current"`
	Hourly  HourlySeries      `json:"hourly"`
	Daily   DailySeries       `json:"daily"`
}

type CurrentConditions struct {
	Temperature   float64 `json:"temperature_2m"`
	Precipitation float64 `json:"precipitation"`
	WeatherCode   int     `json:"weather_code"`
	WindSpeed     float64 `json:"wind_speed_10m"`
	Humidity      float64 `json:"relative_humidity_2m"`
}

type HourlySeries struct {
	Time          []string  `json:"time"`
	Temperature   []float64 `json:"temperature_2m"`
	Precipitation []float64 `json:"precipitation"`
	WeatherCode   []int     `json:"weather_code"`
}

type DailySeries struct {
	Time             []string  `json:"time"`
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
	WeatherCode      []int     `json:"weather_code"`
}

// WeatherClient fetches forecasts from open-meteo.
type WeatherClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewWeatherClient(client *http.Client) *WeatherClient {
	return &WeatherClient{BaseURL: defaultWeatherURL, HTTP: client}
}

// Forecast fetches a 3-day forecast for the given coordinates.
func (c *WeatherClient) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "temperature_2m,precipitation,weather_code,wind_speed_10m,relative_humidity_2m")
	q.Set("hourly", "temperature_2m,precipitation,weather_code,wind_speed_10m,relative_humidity_2m")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,weather_code")
	q.Set("forecast_days", "3")
	q.Set("timezone", "auto")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")
	q.Set("precipitation_unit", "inch")

	var f Forecast
	if err := getJSON(ctx, c.HTTP, c.BaseURL+"?"+q.Encode(), &f); err != nil {
		return nil, err
	}
	return &f, nil
}
