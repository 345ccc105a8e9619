package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/ports"
)

var tagExpr = regexp.MustCompile(`<[^>]*>`)

// WordRange is the advisory article length; it is only logged.
type WordRange struct {
	Min int
	Max int
}

// Generator drafts long-form articles through a generative-text backend.
type Generator struct {
	llm    ports.TextGenerator
	words  WordRange
	logger *slog.Logger
	now    func() time.Time
}

// NewGenerator wires the text backend used for drafting.
func NewGenerator(llm ports.TextGenerator, words WordRange, logger *slog.Logger) *Generator {
	return &Generator{llm: llm, words: words, logger: logger, now: time.Now}
}

// Generate drafts an article for the keyword grounded in the research text.
func (g *Generator) Generate(ctx context.Context, keyword domain.ScoredTopic, research domain.ResearchBundle) (domain.DraftContent, error) {
	if g.llm == nil {
		return domain.DraftContent{}, errors.New("generate content: text generator is not configured")
	}

	if g.logger != nil {
		g.logger.Debug("generate content", "keyword", keyword.Title, "research_sources", len(research.Sources))
	}

	text, err := g.llm.GenerateText(ctx, BuildArticlePrompt(keyword.Title, research.Content))
	if err != nil {
		return domain.DraftContent{}, fmt.Errorf("generate content: %w", err)
	}

	words := CountWords(text)
	if g.logger != nil {
		g.logger.Info("content generated", "keyword", keyword.Title, "word_count", words)
		if (g.words.Min > 0 && words < g.words.Min) || (g.words.Max > 0 && words > g.words.Max) {
			g.logger.Warn("word count outside target range",
				"word_count", words,
				"min", g.words.Min,
				"max", g.words.Max,
			)
		}
	}

	return domain.DraftContent{
		Content:   text,
		Keyword:   keyword.Title,
		WordCount: words,
		Timestamp: g.now().UTC(),
	}, nil
}

// BuildArticlePrompt renders the drafting instructions for the backend.
func BuildArticlePrompt(keyword, research string) string {
	return fmt.Sprintf(`Create a comprehensive, engaging blog post about "%s".

Use the following research as your foundation:
%s

Write a blog post that includes:
1. An attention-grabbing headline that includes the main keyword
2. An engaging introduction explaining why this topic matters now
3. 4-6 well-structured sections with descriptive subheadings
4. Practical examples, applications, or case studies
5. A conclusion with key takeaways
6. SEO optimization for the keyword

Format the article with HTML tags (h1, h2, h3, p, ul, li, etc.) for web publishing.
The blog should be 1200-1500 words in length, professional but conversational in tone, and aimed at tech-savvy readers.

Also include:
- A suggested meta description (150-160 characters)
- 5-7 relevant related keywords for SEO purposes`, keyword, research)
}

// CountWords strips markup tags and counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(tagExpr.ReplaceAllString(text, " ")))
}
