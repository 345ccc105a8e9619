package domain

import "time"

// Post is the durable artifact produced by a pipeline run.
type Post struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Keyword      string       `json:"keyword"`
	Content      string       `json:"content"`
	HTML         string       `json:"html"`
	Markdown     string       `json:"markdown"`
	CreatedAt    time.Time    `json:"createdAt"`
	TrendData    ScoredTopic  `json:"trendData"`
	Seo          *SeoMetadata `json:"seo,omitempty"`
	Published    bool         `json:"published"`
	PublishedURL string       `json:"publishedUrl,omitempty"`
}

// ArchiveEntry is the summary of a post kept in the archive index.
type ArchiveEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Keyword      string    `json:"keyword"`
	CreatedAt    time.Time `json:"createdAt"`
	Published    bool      `json:"published"`
	PublishedURL string    `json:"publishedUrl,omitempty"`
}

// Summary returns the archive entry describing the post.
func (p Post) Summary() ArchiveEntry {
	return ArchiveEntry{
		ID:           p.ID,
		Title:        p.Title,
		Keyword:      p.Keyword,
		CreatedAt:    p.CreatedAt,
		Published:    p.Published,
		PublishedURL: p.PublishedURL,
	}
}

// PublishResult is the outcome reported by a publishing platform.
type PublishResult struct {
	Success bool
	ID      string
	URL     string
	Message string
}
