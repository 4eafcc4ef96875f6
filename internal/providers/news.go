package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedSource is one RSS feed to pull headlines from.
type FeedSource struct {
	URL  string
	Name string
}

var defaultFeeds = []FeedSource{
	{URL: "http://feeds.bbci.co.uk/news/rss.xml", Name: "BBC News"},
	{URL: "https://rss.cnn.com/rss/edition.rss", Name: "CNN"},
	{URL: "https://feeds.npr.org/1001/rss.xml", Name: "NPR"},
}

const (
	itemsPerFeed = 3
	maxHeadlines = 8
)

// NewsClient aggregates headlines from a set of RSS feeds.
type NewsClient struct {
	Feeds  []FeedSource
	parser *gofeed.Parser
}

func NewNewsClient(client *http.Client) *NewsClient {
	parser := gofeed.NewParser()
	parser.Client = client
	return &NewsClient{Feeds: defaultFeeds, parser: parser}
}

// Headlines returns a numbered digest of current headlines, up to three per
// feed and eight overall. Feeds that fail are skipped; an error is returned
// only when every feed fails.
func (c *NewsClient) Headlines(ctx context.Context) (string, error) {
	var b strings.Builder
	count := 0

	for _, feed := range c.Feeds {
		if count >= maxHeadlines {
			break
		}
		parsed, err := c.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			slog.Debug("skipping unreachable feed", "feed", feed.Name, "error", err)
			continue
		}
		for i, item := range parsed.Items {
			if i >= itemsPerFeed || count >= maxHeadlines {
				break
			}
			count++
			published := "Unknown date"
			if item.Published != "" {
				published = item.Published
			}
			fmt.Fprintf(&b, "%d. %s\n   Source: %s | Published: %s\n\n", count, item.Title, feed.Name, published)
		}
	}

	if count == 0 {
		return "", fmt.Errorf("no headlines available from %d feeds", len(c.Feeds))
	}
	return b.String(), nil
}
