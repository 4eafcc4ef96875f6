package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const defaultStocksURL = "https://query1.finance.yahoo.com"

// Quote is a current snapshot for one ticker symbol.
type Quote struct {
	Symbol    string
	Name      string
	Price     float64
	ChangePct float64
	Volume    int64
}

// chartResponse covers the fields we need from Yahoo's v8 chart endpoint.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				LongName           string  `json:"longName"`
				ShortName          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
				RegularMarketVolume int64  `json:"regularMarketVolume"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// StockClient fetches quote snapshots from Yahoo Finance.
type StockClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewStockClient(client *http.Client) *StockClient {
	return &StockClient{BaseURL: defaultStocksURL, HTTP: client}
}

// Quote fetches the current snapshot for one symbol.
func (c *StockClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.BaseURL, url.PathEscape(symbol))

	var resp chartResponse
	if err := getJSON(ctx, c.HTTP, u, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("quote %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("quote %s: no data", symbol)
	}

	meta := resp.Chart.Result[0].Meta
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = meta.Symbol
	}

	q := &Quote{
		Symbol: meta.Symbol,
		Name:   name,
		Price:  meta.RegularMarketPrice,
		Volume: meta.RegularMarketVolume,
	}
	if meta.PreviousClose != 0 {
		q.ChangePct = (meta.RegularMarketPrice - meta.PreviousClose) / meta.PreviousClose * 100
	}
	return q, nil
}

// FormatVolume renders a share count with T/B/M suffixes.
func FormatVolume(n int64) string {
	switch {
	case n >= 1_000_000_000_000:
		return fmt.Sprintf("%.2fT", float64(n)/1_000_000_000_000)
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
