package domain

import "time"

// DraftContent is the generated article before formatting.
type DraftContent struct {
	Content   string    `json:"content"`
	Keyword   string    `json:"keyword"`
	WordCount int       `json:"wordCount"`
	Timestamp time.Time `json:"timestamp"`
}

// SeoMetadata annotates a draft for search engines.
type SeoMetadata struct {
	SeoTitle        string   `json:"seoTitle"`
	MetaDescription string   `json:"metaDescription"`
	RelatedKeywords []string `json:"relatedKeywords"`
}

// FormattedContent holds the raw draft and its HTML and Markdown views.
type FormattedContent struct {
	Content   string    `json:"content"`
	HTML      string    `json:"html"`
	Markdown  string    `json:"markdown"`
	Timestamp time.Time `json:"timestamp"`
}
