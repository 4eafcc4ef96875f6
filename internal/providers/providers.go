// Package providers holds the thin clients for external data services used by
// the data-augmenting agents. Every client takes an injected *http.Client and
// base URL so tests can point it at a fake server. Provider accuracy and
// freshness are explicitly not guaranteed; callers substitute fallback text on
// failure.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Set bundles one instance of every provider client.
type Set struct {
	Location *LocationClient
	Weather  *WeatherClient
	News     *NewsClient
	Stocks   *StockClient
	Search   *SearchClient
}

// NewSet creates all provider clients sharing one HTTP client.
func NewSet(httpClient *http.Client) *Set {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Set{
		Location: NewLocationClient(httpClient),
		Weather:  NewWeatherClient(httpClient),
		News:     NewNewsClient(httpClient),
		Stocks:   NewStockClient(httpClient),
		Search:   NewSearchClient(httpClient),
	}
}

// getJSON fetches url and decodes the JSON body into v.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "agenthub/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
