package news

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>검색 결과</title>
    <item>
      <title>삼성전자 4분기 실적 발표</title>
      <link>https://news.example.com/1</link>
      <pubDate>Fri, 27 Jan 2023 00:30:00 GMT</pubDate>
      <source url="https://yna.example.com">연합뉴스</source>
    </item>
    <item>
      <title>반도체 업황 전망</title>
      <link>https://news.example.com/2</link>
      <pubDate>Fri, 27 Jan 2023 09:00:00 +0900</pubDate>
      <source url="https://hk.example.com">한국경제</source>
    </item>
    <item>
      <title></title>
      <link>https://news.example.com/skip</link>
    </item>
    <item>
      <title>날짜 없는 기사</title>
      <link>https://news.example.com/3</link>
      <pubDate>tomorrow-ish</pubDate>
    </item>
  </channel>
</rss>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, ttl time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, ttl, testLogger())
}

func TestHeadlines(t *testing.T) {
	var gotQuery, gotLang, gotGeo, gotEdition string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLang = r.URL.Query().Get("hl")
		gotGeo = r.URL.Query().Get("gl")
		gotEdition = r.URL.Query().Get("ceid")
		w.Write([]byte(feedXML))
	}, time.Minute)

	items, err := c.Headlines(context.Background(), "삼성전자 주가", 10)
	require.NoError(t, err)

	assert.Equal(t, "삼성전자 주가", gotQuery)
	assert.Equal(t, "ko", gotLang)
	assert.Equal(t, "KR", gotGeo)
	assert.Equal(t, "KR:ko", gotEdition)

	// The untitled item is dropped; the unparsable date survives without one.
	require.Len(t, items, 3)
	assert.Equal(t, "삼성전자 4분기 실적 발표", items[0].Title)
	assert.Equal(t, "https://news.example.com/1", items[0].Link)
	assert.Equal(t, "연합뉴스", items[0].Source)
	assert.Equal(t, "2023-01-27 00:30", items[0].Published)
	assert.Equal(t, "2023-01-27 09:00", items[1].Published)
	assert.Empty(t, items[2].Published)
}

func TestHeadlines_LimitCapsItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}, time.Minute)

	items, err := c.Headlines(context.Background(), "삼성전자", 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestHeadlines_CachedPerQuery(t *testing.T) {
	var hits int64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(feedXML))
	}, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := c.Headlines(context.Background(), "삼성전자 주가", 10)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "repeat queries within the TTL must hit the cache")

	_, err := c.Headlines(context.Background(), "카카오 주가", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits), "a different query is a separate cache entry")
}

func TestHeadlines_ZeroTTLRefetches(t *testing.T) {
	var hits int64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(feedXML))
	}, 0)

	for i := 0; i < 2; i++ {
		_, err := c.Headlines(context.Background(), "삼성전자 주가", 10)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestHeadlines_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, time.Minute)

	_, err := c.Headlines(context.Background(), "삼성전자", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestHeadlines_MalformedFeed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>점검 중</html"))
	}, time.Minute)

	_, err := c.Headlines(context.Background(), "삼성전자", 10)
	assert.Error(t, err)
}

func TestBuildQueries(t *testing.T) {
	got := BuildQueries("삼성전자", "005930")
	assert.Equal(t, []string{
		"삼성전자 주가",
		"삼성전자 005930",
		"삼성전자 실적",
		"삼성전자",
	}, got)
}

func TestBuildQueries_NonNumericSymbolSkipped(t *testing.T) {
	got := BuildQueries("삼성전자", "KRX:005930")
	assert.Equal(t, []string{
		"삼성전자 주가",
		"삼성전자 실적",
		"삼성전자",
	}, got)
}
