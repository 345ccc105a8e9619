package search

import (
	"context"
	"encoding/json"
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

const defaultBaseURL = "https://www.googleapis.com"

// GoogleClient queries the Google Custom Search JSON API.
type GoogleClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.SearchClient = (*GoogleClient)(nil)

// NewGoogleClient builds a client; an empty baseURL targets the public API.
func NewGoogleClient(baseURL string, client *http.Client) *GoogleClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GoogleClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

type searchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
}

// Search runs one query and returns the result items in API order.
func (c *GoogleClient) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	if !query.Credentials.Complete() {
		return nil, fmt.Errorf("custom search: missing credentials")
	}

	params := url.Values{}
	params.Set("key", query.Credentials.APIKey)
	params.Set("cx", query.Credentials.SearchEngineID)
	params.Set("q", query.Query)
	if query.Num > 0 {
		params.Set("num", strconv.Itoa(query.Num))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/customsearch/v1?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("custom search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("custom search error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode custom search response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		results = append(results, domain.SearchResult{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
		})
	}
	return results, nil
}
