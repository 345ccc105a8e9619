package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss xmlns:atom="http://www.w3.org/2005/Atom" xmlns:ht="https://trends.google.com/trending/rss" version="2.0">
  <channel>
    <title>Daily Search Trends</title>
    <item>
      <title>AI chips</title>
      <ht:approx_traffic>50,000+</ht:approx_traffic>
      <ht:news_item>
        <ht:news_item_title>Chipmakers race ahead</ht:news_item_title>
        <ht:news_item_snippet>New silicon for inference.</ht:news_item_snippet>
        <ht:news_item_url>https://news.example.com/chips</ht:news_item_url>
        <ht:news_item_source>Example News</ht:news_item_source>
      </ht:news_item>
      <ht:news_item>
        <ht:news_item_title>Second story</ht:news_item_title>
        <ht:news_item_url>https://news.example.com/second</ht:news_item_url>
      </ht:news_item>
    </item>
    <item>
      <title>Local derby</title>
      <ht:approx_traffic>2K+</ht:approx_traffic>
    </item>
    <item>
      <title>   </title>
    </item>
  </channel>
</rss>`

func TestRSSSourceFetchTopics(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	src := NewRSSSource(server.URL+"/trending/rss", Locale{Language: "en", Region: "US"}, server.Client())
	topics, err := src.FetchTopics(context.Background())
	if err != nil {
		t.Fatalf("FetchTopics error: %v", err)
	}

	if gotQuery != "geo=US&hl=en" {
		t.Fatalf("unexpected query: %s", gotQuery)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}

	first := topics[0]
	if first.Title != "AI chips" || first.TrafficEstimate != 50000 {
		t.Fatalf("unexpected first topic: %+v", first)
	}
	if len(first.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(first.Articles))
	}
	if first.Articles[0].Link != "https://news.example.com/chips" || first.Articles[0].Snippet != "New silicon for inference." {
		t.Fatalf("unexpected article: %+v", first.Articles[0])
	}
	if topics[1].TrafficEstimate != 2000 || len(topics[1].Articles) != 0 {
		t.Fatalf("unexpected second topic: %+v", topics[1])
	}
}

func TestRSSSourceReportsHTTPErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := NewRSSSource(server.URL, Locale{}, server.Client()).FetchTopics(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestParseTraffic(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"50,000+": 50000,
		"200+":    200,
		"2K+":     2000,
		"1M+":     1000000,
		"":        0,
		"lots":    0,
	}
	for in, want := range cases {
		if got := ParseTraffic(in); got != want {
			t.Fatalf("ParseTraffic(%q) = %v, want %v", in, got, want)
		}
	}
}
