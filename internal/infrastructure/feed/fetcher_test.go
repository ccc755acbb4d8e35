package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SportsFeed/internal/logging"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Sample Sport</title>
    <item>
      <title>Man City 3-1 Arsenal</title>
      <link>https://www.example.com/match/1</link>
      <description>&lt;p&gt;Premier League report&lt;/p&gt;</description>
      <pubDate>Mon, 12 Oct 2026 18:30:00 GMT</pubDate>
      <media:content url="https://cdn.example.com/match1.jpg" medium="image"/>
    </item>
    <item>
      <title>Liverpool vs Chelsea</title>
      <link>https://www.example.com/match/2</link>
      <description>Fixture preview</description>
    </item>
  </channel>
</rss>`

func proxyServer(t *testing.T, feeds map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		body, ok := feeds[target]
		if !ok {
			http.Error(w, "unknown", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"contents": body})
	}))
}

func TestAllOriginsGatewayRetrieve(t *testing.T) {
	t.Parallel()

	srv := proxyServer(t, map[string]string{"https://feeds.example.com/rss": sampleRSS})
	defer srv.Close()

	gw := NewAllOriginsGateway(srv.URL+"/get?url=", srv.Client())
	contents, err := gw.Retrieve(context.Background(), "https://feeds.example.com/rss")
	require.NoError(t, err)
	assert.Contains(t, contents, "Man City 3-1 Arsenal")

	_, err = gw.Retrieve(context.Background(), "https://missing.example.com/rss")
	assert.Error(t, err)
}

func TestAllOriginsGatewayEmptyContents(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"contents": ""}`))
	}))
	defer srv.Close()

	gw := NewAllOriginsGateway(srv.URL+"/get?url=", srv.Client())
	_, err := gw.Retrieve(context.Background(), "https://feeds.example.com/rss")
	assert.Error(t, err)
}

func TestFetcherCollectsSuccessesOnly(t *testing.T) {
	t.Parallel()

	srv := proxyServer(t, map[string]string{
		"https://feeds.example.com/rss":  sampleRSS,
		"https://broken.example.com/rss": "this is not a feed",
	})
	defer srv.Close()

	fetcher := NewFetcher(NewAllOriginsGateway(srv.URL+"/get?url=", srv.Client()), 0, logging.Discard())
	entries := fetcher.Fetch(context.Background(), []string{
		"https://feeds.example.com/rss",
		"https://broken.example.com/rss",
		"https://offline.example.com/rss",
	})

	require.Len(t, entries, 2)
	first := entries[0]
	assert.Equal(t, "https://feeds.example.com/rss", first.Endpoint)
	assert.Equal(t, "Man City 3-1 Arsenal", first.Title)
	assert.Equal(t, "https://www.example.com/match/1", first.Link)
	assert.Equal(t, "https://cdn.example.com/match1.jpg", first.MediaURL)
	require.NotNil(t, first.Published)
	assert.Equal(t, 2026, first.Published.Year())
	assert.True(t, strings.Contains(first.Description, "Premier League report"))

	assert.Nil(t, entries[1].Published)
}

func TestFetcherAllEndpointsFailing(t *testing.T) {
	t.Parallel()

	srv := proxyServer(t, nil)
	defer srv.Close()

	fetcher := NewFetcher(NewAllOriginsGateway(srv.URL+"/get?url=", srv.Client()), 0, logging.Discard())
	entries := fetcher.Fetch(context.Background(), []string{"https://a.example.com", "https://b.example.com"})
	assert.Empty(t, entries)
}

func TestDirectGateway(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	fetcher := NewFetcher(NewDirectGateway(srv.Client()), 0, logging.Discard())
	entries := fetcher.Fetch(context.Background(), []string{srv.URL + "/rss", srv.URL + "/down"})
	assert.Len(t, entries, 2)
}
