package main

import (
	"errors"
	"strings"
	"testing"

	"AutoBlog/internal/usecase"
)

func TestRenderResultSuccess(t *testing.T) {
	t.Parallel()

	out := renderResult(usecase.Result{
		Success: true,
		PostID:  "post-2026-10-14-edge-ai",
		Title:   "Edge AI",
		Keyword: "edge ai",
		Score:   37.4,
		Stage:   usecase.StageDone,
	})
	for _, want := range []string{"success", "post-2026-10-14-edge-ai", "edge ai (37.4)", "done"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResultFailure(t *testing.T) {
	t.Parallel()

	out := renderResult(usecase.Failure(usecase.StageTopics, errors.New("feed down")))
	if !strings.Contains(out, "failed") || !strings.Contains(out, "feed down") || !strings.Contains(out, "topics") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
