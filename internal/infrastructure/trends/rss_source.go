package trends

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/ports"
)

const defaultFeedURL = "https://trends.google.com/trending/rss"

// Locale selects the trends feed region and language.
type Locale struct {
	Language string
	Region   string
}

// RSSSource reads daily trending searches from the Google Trends RSS feed.
type RSSSource struct {
	endpoint string
	locale   Locale
	client   *http.Client
}

var _ ports.TopicSource = (*RSSSource)(nil)

// NewRSSSource wires an HTTP client; an empty endpoint uses the public feed.
func NewRSSSource(endpoint string, locale Locale, client *http.Client) *RSSSource {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultFeedURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RSSSource{endpoint: endpoint, locale: locale, client: client}
}

type feed struct {
	Channel struct {
		Items []feedItem `xml:"item"`
	} `xml:"channel"`
}

type feedItem struct {
	Title         string     `xml:"title"`
	ApproxTraffic string     `xml:"approx_traffic"`
	News          []newsItem `xml:"news_item"`
}

type newsItem struct {
	Title   string `xml:"news_item_title"`
	Snippet string `xml:"news_item_snippet"`
	URL     string `xml:"news_item_url"`
}

// FetchTopics downloads and parses the feed for the configured locale.
func (s *RSSSource) FetchTopics(ctx context.Context) ([]domain.Topic, error) {
	feedURL, err := s.feedURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "AutoBlog/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request trends feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("trends feed returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed feed
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse trends feed: %w", err)
	}

	topics := make([]domain.Topic, 0, len(parsed.Channel.Items))
	for _, item := range parsed.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		topic := domain.Topic{
			Title:           title,
			TrafficEstimate: ParseTraffic(item.ApproxTraffic),
			Articles:        make([]domain.TopicArticle, 0, len(item.News)),
		}
		for _, n := range item.News {
			topic.Articles = append(topic.Articles, domain.TopicArticle{
				Title:   strings.TrimSpace(n.Title),
				Link:    strings.TrimSpace(n.URL),
				Snippet: strings.TrimSpace(n.Snippet),
			})
		}
		topics = append(topics, topic)
	}

	return topics, nil
}

func (s *RSSSource) feedURL() (string, error) {
	parsed, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid trends url %s: %w", s.endpoint, err)
	}
	query := parsed.Query()
	if s.locale.Region != "" {
		query.Set("geo", s.locale.Region)
	}
	if s.locale.Language != "" {
		query.Set("hl", s.locale.Language)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// ParseTraffic converts approximate traffic labels such as "50,000+" or
// "2M+" into a number. Unparsable labels yield zero.
func ParseTraffic(label string) float64 {
	label = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), "+"))
	label = strings.ReplaceAll(label, ",", "")
	if label == "" {
		return 0
	}

	multiplier := 1.0
	switch suffix := strings.ToUpper(label[len(label)-1:]); suffix {
	case "K":
		multiplier = 1e3
		label = label[:len(label)-1]
	case "M":
		multiplier = 1e6
		label = label[:len(label)-1]
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
	if err != nil {
		return 0
	}
	return value * multiplier
}
