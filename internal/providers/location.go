package providers

import (
	"context"
	"net/http"
)

const defaultLocationURL = "http://ip-api.com/json/"

// Location is an approximate position derived from the caller's IP.
type Location struct {
	City    string  `json:"city"`
	Region  string  `json:"regionName"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// LocationClient resolves the machine's approximate location.
type LocationClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewLocationClient(client *http.Client) *LocationClient {
	return &LocationClient{BaseURL: defaultLocationURL, HTTP: client}
}

// Lookup returns the current approximate location.
func (c *LocationClient) Lookup(ctx context.Context) (*Location, error) {
	var loc Location
	if err := getJSON(ctx, c.HTTP, c.BaseURL, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}
