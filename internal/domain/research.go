package domain

import "time"

// SearchCredentials authorize requests against the search backend.
type SearchCredentials struct {
	APIKey         string
	SearchEngineID string
}

// Complete reports whether both credentials are present.
func (c SearchCredentials) Complete() bool {
	return c.APIKey != "" && c.SearchEngineID != ""
}

// SearchQuery is a single request to the search backend.
type SearchQuery struct {
	Credentials SearchCredentials
	Query       string
	Num         int
}

// SearchResult is a ranked item returned by the search backend.
type SearchResult struct {
	Title       string
	Link        string
	Snippet     string
	DisplayLink string
}

// ResearchSource is a search result retained as research material.
type ResearchSource struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// ResearchBundle is the compiled supporting text for a keyword. Content is
// never empty, even when Sources is.
type ResearchBundle struct {
	Keyword   string           `json:"keyword"`
	Sources   []ResearchSource `json:"sources"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
}
