package agent

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ashvetsov/agenthub/internal/providers"
)

const maxQuotedSymbols = 5

const stockSystemPrompt = `You are an expert financial advisor and stock market analyst with access to REAL-TIME market data. You provide comprehensive investment guidance, market analysis, and financial education using current, accurate stock prices and market information.

ANALYSIS APPROACH:
- Always reference CURRENT, REAL market data when available
- Provide both technical and fundamental perspectives based on live data
- Explain reasoning behind recommendations with actual numbers
- Include risk factors and potential downsides

INVESTMENT PHILOSOPHY:
- Emphasize long-term wealth building over speculation
- Stress the importance of diversification
- Recommend dollar-cost averaging for regular investors
- Advocate for emergency funds before investing
- Suggest low-cost index funds for beginners

COMMUNICATION STYLE:
- Use clear, jargon-free explanations
- Provide specific, actionable advice with current data
- Include relevant numbers and percentages from live market data
- End with a clear recommendation or next step

IMPORTANT: Always include a disclaimer that this is not personalized financial advice and users should consult with qualified financial advisors for their specific situations.`

// companySymbols maps common company names to ticker symbols for extraction
// from free-form questions.
var companySymbols = map[string]string{
	"apple": "AAPL", "microsoft": "MSFT", "google": "GOOGL", "alphabet": "GOOGL",
	"amazon": "AMZN", "tesla": "TSLA", "meta": "META", "facebook": "META",
	"netflix": "NFLX", "nvidia": "NVDA", "amd": "AMD", "intel": "INTC",
	"disney": "DIS", "coca cola": "KO", "pepsi": "PEP", "walmart": "WMT",
	"visa": "V", "mastercard": "MA", "jpmorgan": "JPM", "goldman": "GS",
}

var marketOverviewSymbols = []string{"SPY", "QQQ", "IWM"}

var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// NewStock builds the financial assistant agent over the quote provider.
func NewStock(p *providers.Set) Agent {
	augment := func(ctx context.Context, userMessage string, status *Status) string {
		status.Set("Fetching market data...")
		overview := marketOverview(ctx, p.Stocks)

		status.Set("Analyzing stock information...")
		stockData := fetchMentionedStocks(ctx, p.Stocks, userMessage)

		status.Set("Preparing financial analysis...")
		return fmt.Sprintf(`CURRENT MARKET OVERVIEW:
%s

SPECIFIC STOCK DATA:
%s

Current Date: %s
Market Hours: US markets trade 9:30 AM - 4:00 PM ET

User Question: %s
`, overview, stockData, time.Now().Format("2006-01-02"), userMessage)
	}

	return NewAugmented("Stock Agent", "Ask about stocks, investments, or financial advice", stockSystemPrompt, augment)
}

func marketOverview(ctx context.Context, client *providers.StockClient) string {
	var b strings.Builder
	b.WriteString("Market ETF Performance:\n")
	for _, symbol := range marketOverviewSymbols {
		q, err := client.Quote(ctx, symbol)
		if err != nil {
			fmt.Fprintf(&b, "- %s: Data unavailable\n", symbol)
			continue
		}
		fmt.Fprintf(&b, "- %s: $%.2f (%+.2f%% today)\n", symbol, q.Price, q.ChangePct)
	}
	return b.String()
}

// ExtractSymbols pulls candidate ticker symbols out of a free-form message:
// known company names first, then anything shaped like an uppercase ticker.
// At most maxQuotedSymbols are returned, sorted for deterministic output.
func ExtractSymbols(message string) []string {
	seen := map[string]bool{}
	lower := strings.ToLower(message)

	for name, symbol := range companySymbols {
		if strings.Contains(lower, name) {
			seen[symbol] = true
		}
	}
	// Only already-uppercase words count as explicit tickers.
	for _, m := range tickerPattern.FindAllString(message, -1) {
		seen[m] = true
	}

	symbols := make([]string, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	if len(symbols) > maxQuotedSymbols {
		symbols = symbols[:maxQuotedSymbols]
	}
	return symbols
}

func fetchMentionedStocks(ctx context.Context, client *providers.StockClient, message string) string {
	var b strings.Builder
	for _, symbol := range ExtractSymbols(message) {
		q, err := client.Quote(ctx, symbol)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n%s - %s:\n- Price: $%.2f\n- Change: %+.2f%% today\n- Volume: %s\n",
			q.Symbol, q.Name, q.Price, q.ChangePct, providers.FormatVolume(q.Volume))
	}
	if b.Len() == 0 {
		return "No specific stock data requested."
	}
	return b.String()
}
