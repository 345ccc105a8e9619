package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/ports"
)

const disabledMessage = "Publishing is disabled or not configured"

// ErrInvalidResponse is returned when WordPress answers without a post id.
var ErrInvalidResponse = errors.New("invalid response from WordPress API")

// WordPressConfig describes the target site.
type WordPressConfig struct {
	Enabled    bool
	URL        string
	Username   string
	Password   string
	Categories []int
	Tags       []int
}

// WordPress publishes posts through the WordPress REST API.
type WordPress struct {
	cfg        WordPressConfig
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Publisher = (*WordPress)(nil)

// NewWordPress builds a publisher; a nil client gets a 30s timeout.
func NewWordPress(cfg WordPressConfig, client *http.Client, logger *slog.Logger) *WordPress {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WordPress{cfg: cfg, httpClient: client, logger: logger}
}

type wpPost struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Categories []int  `json:"categories"`
	Tags       []int  `json:"tags"`
	Excerpt    string `json:"excerpt,omitempty"`
}

type wpResponse struct {
	ID   json.Number `json:"id"`
	Link string      `json:"link"`
}

// Publish creates the post on the configured site.
func (w *WordPress) Publish(ctx context.Context, post domain.Post) (domain.PublishResult, error) {
	if !w.cfg.Enabled || strings.TrimSpace(w.cfg.URL) == "" {
		w.logger.Info(disabledMessage)
		return domain.PublishResult{Success: false, Message: disabledMessage}, nil
	}

	payload := wpPost{
		Title:      post.Title,
		Content:    post.HTML,
		Status:     "publish",
		Categories: w.cfg.Categories,
		Tags:       w.cfg.Tags,
	}
	if payload.Categories == nil {
		payload.Categories = []int{1}
	}
	if payload.Tags == nil {
		payload.Tags = []int{}
	}
	if post.Seo != nil && post.Seo.MetaDescription != "" {
		payload.Excerpt = post.Seo.MetaDescription
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.PublishResult{}, fmt.Errorf("marshal wordpress payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return domain.PublishResult{}, fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(w.cfg.Username, w.cfg.Password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return domain.PublishResult{}, fmt.Errorf("publish content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.PublishResult{}, fmt.Errorf("wordpress error %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var decoded wpResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.PublishResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if decoded.ID == "" || decoded.ID == "0" {
		return domain.PublishResult{}, ErrInvalidResponse
	}

	w.logger.Info("content published", "wordpress_id", decoded.ID.String(), "url", decoded.Link)
	return domain.PublishResult{
		Success: true,
		ID:      decoded.ID.String(),
		URL:     decoded.Link,
		Message: "Content published successfully",
	}, nil
}
