package seo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/formatter"
	"AutoBlog/internal/ports"
)

const (
	maxDescriptionLen = 160
	maxKeywords       = 7
)

var (
	metaDescriptionExpr = regexp.MustCompile(`(?i)meta[\s-]*description[^:]*:\s*(.+)`)
	inlineKeywordsExpr  = regexp.MustCompile(`(?i)keywords?[^:]*:\s*(.+)`)
)

// Extractor derives SEO metadata from the structure of a generated draft.
type Extractor struct{}

var _ ports.SeoOptimizer = (*Extractor)(nil)

// NewExtractor returns a draft-based SEO optimizer.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Optimize reads the headline, suggested meta description and related
// keywords the model was asked to include.
func (e *Extractor) Optimize(_ context.Context, draft domain.DraftContent, keyword domain.ScoredTopic) (*domain.SeoMetadata, error) {
	html := draft.Content
	if !formatter.HasMarkup(html) {
		html = formatter.MarkdownToHTML(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse draft: %w", err)
	}

	meta := &domain.SeoMetadata{
		SeoTitle:        cleanText(doc.Find("h1").First().Text()),
		MetaDescription: metaDescription(doc),
		RelatedKeywords: relatedKeywords(doc),
	}

	if len(meta.RelatedKeywords) == 0 && keyword.Title != "" {
		meta.RelatedKeywords = []string{keyword.Title}
	}

	return meta, nil
}

func metaDescription(doc *goquery.Document) string {
	var found string
	doc.Find("p, li, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := metaDescriptionExpr.FindStringSubmatch(s.Text()); m != nil {
			found = m[1]
			return false
		}
		return true
	})

	if found == "" {
		doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := cleanText(s.Text())
			if text != "" {
				found = text
				return false
			}
			return true
		})
	}

	return truncate(cleanText(found), maxDescriptionLen)
}

func relatedKeywords(doc *goquery.Document) []string {
	var keywords []string
	doc.Find("h2, h3, h4, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(strings.ToLower(text), "keyword") {
			return true
		}

		if list := s.NextAllFiltered("ul, ol").First(); list.Length() > 0 {
			list.Find("li").Each(func(_ int, li *goquery.Selection) {
				keywords = appendKeyword(keywords, li.Text())
			})
			if len(keywords) > 0 {
				return false
			}
		}

		if m := inlineKeywordsExpr.FindStringSubmatch(text); m != nil {
			for _, part := range strings.Split(m[1], ",") {
				keywords = appendKeyword(keywords, part)
			}
		}
		return len(keywords) == 0
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

func appendKeyword(keywords []string, raw string) []string {
	kw := cleanText(raw)
	if kw == "" {
		return keywords
	}
	for _, existing := range keywords {
		if strings.EqualFold(existing, kw) {
			return keywords
		}
	}
	return append(keywords, kw)
}

func cleanText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, `"'“”`)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
