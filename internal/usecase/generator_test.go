package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"AutoBlog/internal/domain"
)

func bundleWith(content string) domain.ResearchBundle {
	return domain.ResearchBundle{Keyword: "k", Content: content, Sources: []domain.ResearchSource{}}
}

type stubLLM struct {
	text    string
	err     error
	prompts []string
}

func (s *stubLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"":                                 0,
		"   ":                              0,
		"one two  three":                   3,
		"<h1>Title</h1><p>Body text</p>":   3,
		"<p>a</p>\n\n<ul><li>b</li></ul>c": 3,
		"tab\tseparated\nlines":            3,
	}
	for in, want := range cases {
		if got := CountWords(in); got != want {
			t.Fatalf("CountWords(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestGenerateBuildsDraft(t *testing.T) {
	t.Parallel()

	llm := &stubLLM{text: "<h1>Edge AI</h1><p>Edge AI is here.</p>"}
	gen := NewGenerator(llm, WordRange{Min: 1000, Max: 1500}, nil)

	research := BasicResearch("Edge AI")
	draft, err := gen.Generate(context.Background(), keyword("Edge AI"), bundleWith(research))
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if draft.Keyword != "Edge AI" {
		t.Fatalf("unexpected keyword: %s", draft.Keyword)
	}
	if draft.WordCount != 6 {
		t.Fatalf("unexpected word count: %d", draft.WordCount)
	}
	if draft.Content != llm.text {
		t.Fatalf("draft content altered: %q", draft.Content)
	}

	if len(llm.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(llm.prompts))
	}
	prompt := llm.prompts[0]
	for _, want := range []string{
		`blog post about "Edge AI"`,
		research,
		"4-6 well-structured sections",
		"1200-1500 words",
		"meta description (150-160 characters)",
		"5-7 relevant related keywords",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestGenerateWrapsBackendError(t *testing.T) {
	t.Parallel()

	base := errors.New("unexpected api response format")
	gen := NewGenerator(&stubLLM{err: base}, WordRange{}, nil)

	_, err := gen.Generate(context.Background(), keyword("x"), bundleWith("r"))
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "generate content:") {
		t.Fatalf("error lacks stage context: %v", err)
	}
}

func TestGenerateWithoutBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewGenerator(nil, WordRange{}, nil).Generate(context.Background(), keyword("x"), bundleWith("r")); err == nil {
		t.Fatal("expected error without backend")
	}
}
