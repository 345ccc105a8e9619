package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/ports"
)

const (
	searchResultLimit = 10
	keyInsightCount   = 3
)

// Researcher gathers supporting text for a keyword. It degrades to a fixed
// template whenever the search backend cannot help, so it never fails.
type Researcher struct {
	client ports.SearchClient
	creds  domain.SearchCredentials
	logger *slog.Logger
	now    func() time.Time
}

// NewResearcher wires a search client with its credentials.
func NewResearcher(client ports.SearchClient, creds domain.SearchCredentials, logger *slog.Logger) *Researcher {
	return &Researcher{
		client: client,
		creds:  creds,
		logger: logger,
		now:    time.Now,
	}
}

// Research returns live search research or Basic Research as a fallback. A
// panicking search client also resolves to Basic Research.
func (r *Researcher) Research(ctx context.Context, keyword domain.ScoredTopic) (bundle domain.ResearchBundle) {
	r.debug("research keyword", "keyword", keyword.Title)

	defer func() {
		if rec := recover(); rec != nil {
			r.logError("research panicked, falling back to basic research", "keyword", keyword.Title, "panic", rec)
			bundle = r.basicResearch(keyword.Title)
		}
	}()

	if r.client == nil || !r.creds.Complete() {
		r.warn("missing search api key or search engine id, falling back to basic research")
		return r.basicResearch(keyword.Title)
	}

	results, err := r.client.Search(ctx, domain.SearchQuery{
		Credentials: r.creds,
		Query:       keyword.Title,
		Num:         searchResultLimit,
	})
	if err != nil {
		r.logError("search failed, falling back to basic research", "keyword", keyword.Title, "error", err)
		return r.basicResearch(keyword.Title)
	}
	if len(results) == 0 {
		r.warn("no search results found, falling back to basic research", "keyword", keyword.Title)
		return r.basicResearch(keyword.Title)
	}

	sources := make([]domain.ResearchSource, 0, len(results))
	for _, item := range results {
		sources = append(sources, domain.ResearchSource{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
			Source:  item.DisplayLink,
		})
	}

	r.debug("research completed", "keyword", keyword.Title, "sources", len(sources))
	return domain.ResearchBundle{
		Keyword:   keyword.Title,
		Sources:   sources,
		Content:   CompileResearch(sources, keyword.Title),
		Timestamp: r.now().UTC(),
	}
}

// CompileResearch renders search sources into a structured research document.
func CompileResearch(sources []domain.ResearchSource, keyword string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research on %s\n\n", keyword)

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "This research compilation provides information about \"%s\" from various sources.\n\n", keyword)

	insights := sources
	var rest []domain.ResearchSource
	if len(sources) > keyInsightCount {
		insights = sources[:keyInsightCount]
		rest = sources[keyInsightCount:]
	}

	b.WriteString("## Key Insights\n\n")
	for i, source := range insights {
		writeSource(&b, fmt.Sprintf("Insight %d", i+1), source)
	}

	b.WriteString("## Detailed Information\n\n")
	for i, source := range rest {
		writeSource(&b, fmt.Sprintf("Source %d", i+1), source)
	}

	if len(sources) > 0 {
		b.WriteString("## Related Topics\n\n")
		for _, suffix := range []string{"trends", "examples", "best practices", "future", "applications"} {
			fmt.Fprintf(&b, "- %s %s\n", keyword, suffix)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeSource(b *strings.Builder, heading string, source domain.ResearchSource) {
	fmt.Fprintf(b, "### %s: %s\n", heading, source.Title)
	fmt.Fprintf(b, "%s\n\n", source.Snippet)
	fmt.Fprintf(b, "Source: [%s](%s)\n\n", source.Source, source.Link)
}

// BasicResearch is the deterministic template used when search is unavailable.
func BasicResearch(keyword string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Basic Research on %s\n\n", keyword)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "This is a template for researching \"%s\". Since detailed search results weren't available, "+
		"this provides a structure for the content generation.\n\n", keyword)
	b.WriteString("## Suggested Sections\n\n")
	fmt.Fprintf(&b, "- Introduction to %s\n", keyword)
	fmt.Fprintf(&b, "- Current trends related to %s\n", keyword)
	fmt.Fprintf(&b, "- Key aspects of %s\n", keyword)
	b.WriteString("- Applications or use cases\n")
	b.WriteString("- Future outlook\n")
	b.WriteString("- Related topics\n\n")
	b.WriteString("## Context\n\n")
	fmt.Fprintf(&b, "The content should be informative, engaging, and valuable to readers interested in %s.\n", keyword)
	return b.String()
}

func (r *Researcher) basicResearch(keyword string) domain.ResearchBundle {
	r.debug("creating basic research template", "keyword", keyword)
	return domain.ResearchBundle{
		Keyword:   keyword,
		Sources:   []domain.ResearchSource{},
		Content:   BasicResearch(keyword),
		Timestamp: r.now().UTC(),
	}
}

func (r *Researcher) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Researcher) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}

func (r *Researcher) logError(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}
