// Package formatter renders drafts into HTML and Markdown views.
//
// The conversions are line-oriented regular expression substitutions, not a
// parser. Nested or malformed markup is not handled and round-tripping is
// lossy; unrecognized markup passes through unchanged.
package formatter

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"AutoBlog/internal/domain"
)

type rule struct {
	expr *regexp.Regexp
	repl string
}

var markdownToHTML = []rule{
	{regexp.MustCompile(`(?m)^# (.*?)$`), "<h1>${1}</h1>"},
	{regexp.MustCompile(`(?m)^## (.*?)$`), "<h2>${1}</h2>"},
	{regexp.MustCompile(`(?m)^### (.*?)$`), "<h3>${1}</h3>"},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "<strong>${1}</strong>"},
	{regexp.MustCompile(`\*(.*?)\*`), "<em>${1}</em>"},
	{regexp.MustCompile(`(?m)^- (.*?)$`), "<li>${1}</li>"},
	{regexp.MustCompile(`(?:<li>.*?</li>\n)+`), "<ul>${0}</ul>"},
	{regexp.MustCompile(`(?m)^([^<\n].*?)$`), "<p>${1}</p>"},
}

var htmlToMarkdown = []rule{
	{regexp.MustCompile(`<h1>(.*?)</h1>`), "# ${1}\n\n"},
	{regexp.MustCompile(`<h2>(.*?)</h2>`), "## ${1}\n\n"},
	{regexp.MustCompile(`<h3>(.*?)</h3>`), "### ${1}\n\n"},
	{regexp.MustCompile(`<strong>(.*?)</strong>`), "**${1}**"},
	{regexp.MustCompile(`<em>(.*?)</em>`), "*${1}*"},
	{regexp.MustCompile(`<li>(.*?)</li>`), "- ${1}\n"},
	{regexp.MustCompile(`</?ul>`), ""},
	{regexp.MustCompile(`<p>(.*?)</p>`), "${1}\n\n"},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Formatter produces the publishable views of a draft.
type Formatter struct {
	logger *slog.Logger
	now    func() time.Time
}

// New returns a formatter; logger may be nil.
func New(logger *slog.Logger) *Formatter {
	return &Formatter{logger: logger, now: time.Now}
}

// Format derives HTML and Markdown from the draft. Content without structural
// markup is converted from Markdown first; SEO metadata, when present, is
// prepended as an HTML comment. Conversion failures fall back to the input.
func (f *Formatter) Format(draft domain.DraftContent, seo *domain.SeoMetadata) domain.FormattedContent {
	f.debug("format content", "keyword", draft.Keyword)

	raw := draft.Content
	html := raw
	if !HasMarkup(html) {
		html = f.guard("markdown to html", html, MarkdownToHTML)
	}

	if seo != nil {
		html = f.guard("seo comment", html, func(in string) string {
			return AddSeoComment(in, *seo)
		})
	}

	markdown := f.guard("html to markdown", html, HTMLToMarkdown)

	return domain.FormattedContent{
		Content:   raw,
		HTML:      html,
		Markdown:  markdown,
		Timestamp: f.now().UTC(),
	}
}

// HasMarkup reports whether content already carries structural HTML. Only
// <h1> and <p> are checked; other block-level tags are not recognized.
func HasMarkup(content string) bool {
	return strings.Contains(content, "<h1>") || strings.Contains(content, "<p>")
}

// MarkdownToHTML converts headings 1-3, bold, italic and unordered lists, and
// wraps remaining non-empty lines as paragraphs.
func MarkdownToHTML(markdown string) string {
	return apply(markdown, markdownToHTML)
}

// HTMLToMarkdown inverts MarkdownToHTML and collapses runs of blank lines.
func HTMLToMarkdown(html string) string {
	return apply(html, htmlToMarkdown)
}

// AddSeoComment prepends the SEO metadata as an HTML comment block.
func AddSeoComment(html string, seo domain.SeoMetadata) string {
	var b strings.Builder
	b.WriteString("<!-- SEO Information\n")
	if seo.SeoTitle != "" {
		fmt.Fprintf(&b, "Title: %s\n", seo.SeoTitle)
	}
	if seo.MetaDescription != "" {
		fmt.Fprintf(&b, "Description: %s\n", seo.MetaDescription)
	}
	if len(seo.RelatedKeywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(seo.RelatedKeywords, ", "))
	}
	b.WriteString("-->\n\n")
	b.WriteString(html)
	return b.String()
}

func apply(in string, rules []rule) string {
	out := in
	for _, r := range rules {
		out = r.expr.ReplaceAllString(out, r.repl)
	}
	return out
}

func (f *Formatter) guard(step, in string, convert func(string) string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			if f.logger != nil {
				f.logger.Error("formatting step failed, passing input through", "step", step, "panic", rec)
			}
			out = in
		}
	}()
	return convert(in)
}

func (f *Formatter) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
