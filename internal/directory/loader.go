package directory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"krxcli/pkg/contracts/domain"
)

var (
	rowPattern  = regexp.MustCompile(`(?s)<tr[^>]*>(.*?)</tr>`)
	cellPattern = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	digitsOnly  = regexp.MustCompile(`^\d+$`)
)

// Loader fetches the KRX listed-company roster and caches it.
// The roster is loaded once and then served from memory until the cache
// TTL elapses; concurrent cold loads are collapsed into a single fetch.
type Loader struct {
	url      string
	cacheTTL time.Duration
	client   *http.Client
	logger   *slog.Logger

	group singleflight.Group

	mu       sync.RWMutex
	records  []domain.CompanyRecord
	loadedAt time.Time
}

// NewLoader creates a directory loader for the given source URL.
func NewLoader(url string, cacheTTL, timeout time.Duration, logger *slog.Logger) *Loader {
	return &Loader{
		url:      url,
		cacheTTL: cacheTTL,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With(slog.String("component", "directory_loader")),
	}
}

// Companies returns the full company roster, fetching it from the KRX
// source on first use. The cached roster is immutable; callers must not
// modify the returned slice.
func (l *Loader) Companies(ctx context.Context) ([]domain.CompanyRecord, error) {
	l.mu.RLock()
	if l.records != nil && time.Since(l.loadedAt) < l.cacheTTL {
		records := l.records
		l.mu.RUnlock()
		return records, nil
	}
	l.mu.RUnlock()

	// Collapse concurrent cold loads into one upstream request.
	v, err, _ := l.group.Do("krx-roster", func() (interface{}, error) {
		// Another caller may have filled the cache while we waited.
		l.mu.RLock()
		if l.records != nil && time.Since(l.loadedAt) < l.cacheTTL {
			records := l.records
			l.mu.RUnlock()
			return records, nil
		}
		l.mu.RUnlock()

		records, err := l.fetch(ctx)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.records = records
		l.loadedAt = time.Now()
		l.mu.Unlock()

		return records, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.CompanyRecord), nil
}

// fetch downloads and decodes the roster. Single attempt, no retry.
func (l *Loader) fetch(ctx context.Context) ([]domain.CompanyRecord, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("directory request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory fetch: status %d", resp.StatusCode)
	}

	// The KRX download endpoint serves an EUC-KR encoded HTML table.
	decoded, err := io.ReadAll(transform.NewReader(resp.Body, korean.EUCKR.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("directory decode: %w", err)
	}

	records, err := parseRoster(string(decoded))
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "company roster loaded",
		slog.Int("companies", len(records)),
		slog.String("duration", time.Since(start).String()),
	)

	return records, nil
}

// parseRoster extracts (name, code) pairs from the KRX corpList HTML table.
// Rows with non-numeric codes are discarded; codes are zero-padded to the
// canonical 6-digit form.
func parseRoster(html string) ([]domain.CompanyRecord, error) {
	var records []domain.CompanyRecord

	for _, row := range rowPattern.FindAllStringSubmatch(html, -1) {
		cells := cellPattern.FindAllStringSubmatch(row[1], -1)
		if len(cells) < 2 {
			continue // header or separator row
		}

		name := cleanCell(cells[0][1])
		code := cleanCell(cells[1][1])
		if name == "" || !digitsOnly.MatchString(code) || len(code) > 6 {
			continue
		}

		records = append(records, domain.CompanyRecord{
			Name:   name,
			Symbol: PadSymbol(code),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("directory parse: no company rows found")
	}

	return records, nil
}

// cleanCell strips markup and surrounding whitespace from a table cell.
func cleanCell(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	return strings.TrimSpace(s)
}

// PadSymbol zero-pads a numeric code to the canonical 6-digit symbol form.
func PadSymbol(code string) string {
	if len(code) >= 6 {
		return code
	}
	return strings.Repeat("0", 6-len(code)) + code
}
