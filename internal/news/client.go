// Package news fetches company news headlines from the Google News RSS
// search feed. Results are cached per query for a short TTL since headlines
// change far less often than users re-run lookups.
package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sync"
	"time"

	"krxcli/pkg/contracts/domain"
)

// Feed locale parameters for Korean market news.
const (
	langKorean  = "ko"
	geoKorea    = "KR"
	editionCode = "KR:ko"
)

// DefaultLimit is how many headlines one query returns at most.
const DefaultLimit = 10

// publishedLayout is the display form of an item's publication time.
const publishedLayout = "2006-01-02 15:04"

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Client fetches headlines from an RSS search feed, caching per query.
type Client struct {
	baseURL  string
	cacheTTL time.Duration
	client   *http.Client
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	items   []domain.Headline
	fetched time.Time
}

// NewClient creates a news client against the given feed base URL.
func NewClient(baseURL string, timeout, cacheTTL time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		cacheTTL: cacheTTL,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With(slog.String("component", "news_client")),
		cache:    make(map[string]cacheEntry),
	}
}

// BuildQueries returns the search queries to try for a company, most
// specific first. Broader fallbacks improve recall for thinly covered
// listings.
func BuildQueries(name, symbol string) []string {
	queries := []string{name + " 주가"}
	if symbol != "" && digitsOnly.MatchString(symbol) {
		queries = append(queries, name+" "+symbol)
	}
	return append(queries, name+" 실적", name)
}

// Headlines fetches up to limit headlines for the query. An empty result
// is a valid outcome, not an error.
func (c *Client) Headlines(ctx context.Context, query string, limit int) ([]domain.Headline, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	c.mu.Lock()
	if entry, ok := c.cache[query]; ok && time.Since(entry.fetched) < c.cacheTTL {
		items := entry.items
		c.mu.Unlock()
		return capItems(items, limit), nil
	}
	c.mu.Unlock()

	items, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[query] = cacheEntry{items: items, fetched: time.Now()}
	c.mu.Unlock()

	return capItems(items, limit), nil
}

// fetch downloads and decodes the RSS feed for one query.
func (c *Client) fetch(ctx context.Context, query string) ([]domain.Headline, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("hl", langKorean)
	q.Set("gl", geoKorea)
	q.Set("ceid", editionCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news fetch: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("news read body: %w", err)
	}

	items, err := parseFeed(body)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "headlines fetched",
		slog.String("query", query),
		slog.Int("items", len(items)),
	)

	return items, nil
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
	Source  struct {
		Name string `xml:",chardata"`
	} `xml:"source"`
}

// parseFeed decodes an RSS payload into headlines. Items without a parsable
// pubDate keep an empty Published field.
func parseFeed(body []byte) ([]domain.Headline, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("news decode: %w", err)
	}

	items := make([]domain.Headline, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		if it.Title == "" || it.Link == "" {
			continue
		}
		items = append(items, domain.Headline{
			Title:     it.Title,
			Link:      it.Link,
			Source:    it.Source.Name,
			Published: formatPubDate(it.PubDate),
		})
	}

	return items, nil
}

func formatPubDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC1123, time.RFC1123Z} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(publishedLayout)
		}
	}
	return ""
}

func capItems(items []domain.Headline, limit int) []domain.Headline {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
