package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLocationLookup(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"city":"Austin","regionName":"Texas","country":"United States","lat":30.2672,"lon":-97.7431}`)
	}))
	defer srv.Close()

	client := NewLocationClient(srv.Client())
	client.BaseURL = srv.URL

	loc, err := client.Lookup(context.Background())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if loc.City != "Austin" || loc.Region != "Texas" {
		t.Fatalf("got %+v", loc)
	}
	if loc.Lat == 0 || loc.Lon == 0 {
		t.Fatalf("coordinates not decoded: %+v", loc)
	}
}

func TestWeatherForecastQueryAndDecode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("forecast_days") != "3" {
			t.Errorf("forecast_days = %q, want 3", q.Get("forecast_days"))
		}
		if q.Get("temperature_unit") != "fahrenheit" {
			t.Errorf("temperature_unit = %q", q.Get("temperature_unit"))
		}
		fmt.Fprint(w, `{
			"current":{"temperature_2m":72.5,"precipitation":0,"weather_code":1,"wind_speed_10m":8.1,"relative_humidity_2m":40},
			"hourly":{"time":["2026-08-28T00:00"],"temperature_2m":[70.1],"precipitation":[0],"weather_code":[1]},
			"daily":{"time":["2026-08-28"],"temperature_2m_max":[95.2],"temperature_2m_min":[71.3],"precipitation_sum":[0],"weather_code":[1]}
		}`)
	}))
	defer srv.Close()

	client := NewWeatherClient(srv.Client())
	client.BaseURL = srv.URL

	f, err := client.Forecast(context.Background(), 30.2672, -97.7431)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if f.Current.Temperature != 72.5 {
		t.Fatalf("current temperature = %v", f.Current.Temperature)
	}
	if len(f.Daily.Time) != 1 || f.Daily.TemperatureMax[0] != 95.2 {
		t.Fatalf("daily series not decoded: %+v", f.Daily)
	}
}

func TestStockQuoteComputesChange(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{
			"symbol":"AAPL","longName":"Apple Inc.",
			"regularMarketPrice":220.0,"chartPreviousClose":200.0,
			"regularMarketVolume":52000000
		}}],"error":null}}`)
	}))
	defer srv.Close()

	client := NewStockClient(srv.Client())
	client.BaseURL = srv.URL

	q, err := client.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Name != "Apple Inc." || q.Price != 220.0 {
		t.Fatalf("got %+v", q)
	}
	if q.ChangePct < 9.99 || q.ChangePct > 10.01 {
		t.Fatalf("ChangePct = %v, want ~10", q.ChangePct)
	}
}

func TestStockQuoteReportsAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	client := NewStockClient(srv.Client())
	client.BaseURL = srv.URL

	if _, err := client.Quote(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for delisted symbol")
	}
}

func TestFormatVolume(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int64
		want string
	}{
		{1_500_000_000_000, "1.50T"},
		{2_300_000_000, "2.30B"},
		{52_000_000, "52.00M"},
		{999, "999"},
	}
	for _, tc := range cases {
		if got := FormatVolume(tc.in); got != tc.want {
			t.Errorf("FormatVolume(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSearchLookupCombinesAbstractAndTopics(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format = %q", r.URL.Query().Get("format"))
		}
		fmt.Fprint(w, `{
			"AbstractText":"Go is a statically typed language.",
			"RelatedTopics":[{"Text":"Topic one"},{"Text":"Topic two"},{"Text":"Topic three"},{"Text":"Topic four"}]
		}`)
	}))
	defer srv.Close()

	client := NewSearchClient(srv.Client())
	client.BaseURL = srv.URL

	got, err := client.Lookup(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !strings.Contains(got, "statically typed") {
		t.Fatalf("missing abstract: %q", got)
	}
	if strings.Contains(got, "Topic four") {
		t.Fatalf("more than three related topics included: %q", got)
	}
}

func TestSearchLookupEmptyResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"AbstractText":"","RelatedTopics":[]}`)
	}))
	defer srv.Close()

	client := NewSearchClient(srv.Client())
	client.BaseURL = srv.URL

	if _, err := client.Lookup(context.Background(), "asdfqwerty"); err == nil {
		t.Fatal("expected error for empty instant answer")
	}
}

func TestNewsHeadlinesLimitsAndFallsBack(t *testing.T) {
	t.Parallel()

	feedXML := func(n int) string {
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Feed</title>`)
		for i := range n {
			fmt.Fprintf(&b, "<item><title>Story %d</title><pubDate>Thu, 28 Aug 2026 10:00:00 GMT</pubDate></item>", i)
		}
		b.WriteString(`</channel></rss>`)
		return b.String()
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML(5))
	}))
	defer srv.Close()

	client := NewNewsClient(srv.Client())
	client.Feeds = []FeedSource{
		{URL: srv.URL + "/a", Name: "Feed A"},
		{URL: "http://127.0.0.1:1/dead", Name: "Dead Feed"},
		{URL: srv.URL + "/b", Name: "Feed B"},
	}

	got, err := client.Headlines(context.Background())
	if err != nil {
		t.Fatalf("Headlines: %v", err)
	}
	if !strings.Contains(got, "Source: Feed A") || !strings.Contains(got, "Source: Feed B") {
		t.Fatalf("missing live feeds: %q", got)
	}
	if strings.Contains(got, "Dead Feed") {
		t.Fatalf("dead feed should be skipped: %q", got)
	}
	// three per feed, two live feeds
	if strings.Count(got, "Source:") != 6 {
		t.Fatalf("headline count = %d, want 6", strings.Count(got, "Source:"))
	}
}

func TestNewsHeadlinesAllFeedsDown(t *testing.T) {
	t.Parallel()

	client := NewNewsClient(&http.Client{})
	client.Feeds = []FeedSource{{URL: "http://127.0.0.1:1/dead", Name: "Dead"}}

	if _, err := client.Headlines(context.Background()); err == nil {
		t.Fatal("expected error when every feed fails")
	}
}
