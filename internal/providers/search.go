package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultSearchURL = "https://api.duckduckgo.com/"

const maxRelatedTopics = 3

type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// SearchClient queries the DuckDuckGo instant answer API.
type SearchClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewSearchClient(client *http.Client) *SearchClient {
	return &SearchClient{BaseURL: defaultSearchURL, HTTP: client}
}

// Lookup returns a short text summary for the query, or an error when the
// instant answer API has nothing useful.
func (c *SearchClient) Lookup(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	var ans instantAnswer
	if err := getJSON(ctx, c.HTTP, c.BaseURL+"?"+q.Encode(), &ans); err != nil {
		return "", err
	}

	var parts []string
	if ans.Answer != "" {
		parts = append(parts, ans.Answer)
	}
	if ans.AbstractText != "" {
		parts = append(parts, ans.AbstractText)
	}
	for i, t := range ans.RelatedTopics {
		if i >= maxRelatedTopics {
			break
		}
		if t.Text != "" {
			parts = append(parts, "- "+t.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("search %q: no results", query)
	}
	return strings.Join(parts, "\n"), nil
}
