package formatter

import (
	"strings"
	"testing"

	"AutoBlog/internal/domain"
)

func TestMarkdownToHTML(t *testing.T) {
	t.Parallel()

	in := "# Title\n## Section\n### Detail\nSome **bold** and *soft* words.\n\n- one\n- two\n\nEnd"
	want := "<h1>Title</h1>\n<h2>Section</h2>\n<h3>Detail</h3>\n" +
		"<p>Some <strong>bold</strong> and <em>soft</em> words.</p>\n\n" +
		"<ul><li>one</li>\n<li>two</li>\n</ul>\n<p>End</p>"

	if got := MarkdownToHTML(in); got != want {
		t.Fatalf("MarkdownToHTML mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestHTMLToMarkdownCollapsesBlankLines(t *testing.T) {
	t.Parallel()

	got := HTMLToMarkdown("<h1>T</h1><p>a</p>\n\n\n\n<p>b <strong>c</strong> <em>d</em></p><ul><li>x</li></ul>")
	want := "# T\n\na\n\nb **c** *d*\n\n- x\n"
	if got != want {
		t.Fatalf("HTMLToMarkdown mismatch\n got: %q\nwant: %q", got, want)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("blank lines not collapsed: %q", got)
	}
}

func TestFormatDoesNotRewrapMarkup(t *testing.T) {
	t.Parallel()

	f := New(nil)
	html := "<h1>Edge AI</h1>\n<p>Already formatted.</p>"

	first := f.Format(domain.DraftContent{Content: html}, nil)
	if first.HTML != html {
		t.Fatalf("markup content re-wrapped: %q", first.HTML)
	}

	second := f.Format(domain.DraftContent{Content: first.HTML}, nil)
	if second.HTML != first.HTML {
		t.Fatalf("formatting is not idempotent: %q vs %q", second.HTML, first.HTML)
	}
	if first.Content != html {
		t.Fatalf("raw content not preserved: %q", first.Content)
	}
}

func TestFormatConvertsPlainMarkdown(t *testing.T) {
	t.Parallel()

	out := New(nil).Format(domain.DraftContent{Content: "# Edge AI\nIntro line"}, nil)
	if out.HTML != "<h1>Edge AI</h1>\n<p>Intro line</p>" {
		t.Fatalf("unexpected html: %q", out.HTML)
	}
	if out.Markdown != "# Edge AI\n\nIntro line\n\n" {
		t.Fatalf("unexpected markdown: %q", out.Markdown)
	}
}

func TestFormatPrependsSeoComment(t *testing.T) {
	t.Parallel()

	seo := &domain.SeoMetadata{
		SeoTitle:        "Edge AI Explained",
		RelatedKeywords: []string{"edge ai", "tinyml"},
	}
	out := New(nil).Format(domain.DraftContent{Content: "<h1>Edge AI</h1>"}, seo)

	wantPrefix := "<!-- SEO Information\nTitle: Edge AI Explained\nKeywords: edge ai, tinyml\n-->\n\n<h1>Edge AI</h1>"
	if out.HTML != wantPrefix {
		t.Fatalf("unexpected html: %q", out.HTML)
	}
	if !strings.HasPrefix(out.Markdown, "<!-- SEO Information") {
		t.Fatalf("comment should pass through to markdown: %q", out.Markdown)
	}
	if !strings.Contains(out.Markdown, "# Edge AI") {
		t.Fatalf("heading not converted: %q", out.Markdown)
	}
}

func TestFormatToleratesArbitraryInput(t *testing.T) {
	t.Parallel()

	f := New(nil)
	for _, in := range []string{
		"",
		"<div><span>unknown</span></div>",
		"**unclosed bold",
		"<h1>broken <p> nesting</h1></p>",
		"\x00\xff binary",
	} {
		out := f.Format(domain.DraftContent{Content: in}, nil)
		if out.Content != in {
			t.Fatalf("raw content changed for %q", in)
		}
	}
}

func TestHasMarkup(t *testing.T) {
	t.Parallel()

	if !HasMarkup("<p>x</p>") || !HasMarkup("<h1>x</h1>") {
		t.Fatal("expected markup to be detected")
	}
	if HasMarkup("<h2>only h2</h2>") {
		t.Fatal("only <h1> and <p> count as markup")
	}
}
