package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/retry"
)

type fakeTopics struct {
	topics []domain.Topic
	err    error
	calls  int
}

func (f *fakeTopics) FetchTopics(context.Context) ([]domain.Topic, error) {
	f.calls++
	return f.topics, f.err
}

type savedPost struct {
	dir  string
	post domain.Post
}

type memoryStore struct {
	mu       sync.Mutex
	saves    []savedPost
	archive  []domain.ArchiveEntry
	snapshot string
	saveErr  error
}

func (m *memoryStore) SavePost(_ context.Context, dir string, post domain.Post) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saves = append(m.saves, savedPost{dir: dir, post: post})
	return filepath.Join(dir, post.ID+".json"), nil
}

func (m *memoryStore) SaveTopics(_ context.Context, dir, name string, _ []domain.Topic) (string, error) {
	m.snapshot = filepath.Join(dir, name+".json")
	return m.snapshot, nil
}

func (m *memoryStore) UpdateArchive(_ context.Context, post domain.Post) error {
	m.archive = append([]domain.ArchiveEntry{post.Summary()}, m.archive...)
	return nil
}

type fakePublisher struct {
	result domain.PublishResult
	errs   []error
	calls  int
	seen   domain.Post
}

func (f *fakePublisher) Publish(_ context.Context, post domain.Post) (domain.PublishResult, error) {
	f.calls++
	f.seen = post
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return domain.PublishResult{}, err
	}
	return f.result, nil
}

type fakeIndex struct{ posts []domain.Post }

func (f *fakeIndex) Upsert(_ context.Context, post domain.Post) error {
	f.posts = append(f.posts, post)
	return nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, msg string) error {
	f.messages = append(f.messages, msg)
	return f.err
}

type fakeSeo struct {
	meta *domain.SeoMetadata
	err  error
}

func (f fakeSeo) Optimize(context.Context, domain.DraftContent, domain.ScoredTopic) (*domain.SeoMetadata, error) {
	return f.meta, f.err
}

var runDay = time.Date(2026, 10, 14, 7, 30, 0, 0, time.UTC)

func trendingTopics() []domain.Topic {
	return []domain.Topic{
		{Title: "Local derby", TrafficEstimate: 200000},
		{Title: "AI data centers", TrafficEstimate: 50000, Articles: articles(4)},
		{Title: "Weather", TrafficEstimate: 1000},
	}
}

type harness struct {
	topics    *fakeTopics
	llm       *stubLLM
	store     *memoryStore
	index     *fakeIndex
	publisher *fakePublisher
	notifier  *fakeNotifier
	deps      PipelineDeps
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	h := &harness{
		topics:    &fakeTopics{topics: trendingTopics()},
		llm:       &stubLLM{text: "<h1>AI Data Centers</h1><p>Power hungry.</p>"},
		store:     &memoryStore{},
		index:     &fakeIndex{},
		publisher: &fakePublisher{result: domain.PublishResult{Success: true, ID: "7", URL: "https://blog.example/ai"}},
		notifier:  &fakeNotifier{},
	}
	h.deps = PipelineDeps{
		Topics: h.topics,
		Selector: SelectorPreferences{
			RelevantTerms: []string{"ai", "data"},
			MinScore:      10,
		},
		Researcher: NewResearcher(nil, domain.SearchCredentials{}, nil),
		Generator:  NewGenerator(h.llm, WordRange{}, nil),
		Store:      h.store,
		Index:      h.index,
		Publisher:  h.publisher,
		Notifier:   h.notifier,
		BlogName:   "Tech Blog",
		Dirs: Dirs{
			Data:   filepath.Join(dir, "data"),
			Posts:  filepath.Join(dir, "data", "posts"),
			Logs:   filepath.Join(dir, "data", "logs"),
			Trends: filepath.Join(dir, "data", "trends"),
			Pages:  filepath.Join(dir, "docs", "posts"),
		},
		Retry: retry.Policy{MaxRetries: 3, Delay: 0},
		Now:   func() time.Time { return runDay },
	}
	return h
}

func TestPipelineRunProducesPost(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := NewPipeline(h.deps).Run(context.Background())

	if !res.Success {
		t.Fatalf("run failed: %+v", res)
	}
	if res.PostID != "post-2026-10-14-ai-data-centers" {
		t.Fatalf("unexpected post id: %s", res.PostID)
	}
	if res.Stage != StageDone || res.Published {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(h.store.saves) != 2 {
		t.Fatalf("expected artifact and pages copy, got %d saves", len(h.store.saves))
	}
	if h.store.saves[0].dir != h.deps.Dirs.Posts || h.store.saves[1].dir != h.deps.Dirs.Pages {
		t.Fatalf("unexpected save targets: %+v", h.store.saves)
	}

	post := h.store.saves[0].post
	if post.Title != "Blog about AI data centers" {
		t.Fatalf("unexpected title: %s", post.Title)
	}
	if post.HTML != h.llm.text || post.Markdown == "" {
		t.Fatalf("formatted views missing: %+v", post)
	}
	if !post.CreatedAt.Equal(runDay) || post.TrendData.Title != "AI data centers" {
		t.Fatalf("unexpected metadata: %+v", post)
	}

	if len(h.store.archive) != 1 || h.store.archive[0].ID != res.PostID {
		t.Fatalf("archive not updated: %+v", h.store.archive)
	}
	if h.store.snapshot != filepath.Join(h.deps.Dirs.Trends, "trends-2026-10-14.json") {
		t.Fatalf("unexpected snapshot: %s", h.store.snapshot)
	}
	if h.publisher.calls != 0 {
		t.Fatal("publisher called while publishing disabled")
	}
	if len(h.index.posts) != 1 {
		t.Fatalf("index not updated: %d", len(h.index.posts))
	}
	if len(h.notifier.messages) != 1 || !strings.Contains(h.notifier.messages[0], "Saved as "+res.PostID) {
		t.Fatalf("unexpected notifications: %v", h.notifier.messages)
	}

	// research fell back to the basic template
	if !strings.Contains(h.llm.prompts[0], BasicResearch("AI data centers")) {
		t.Fatal("prompt does not embed basic research")
	}
}

func TestPipelineTopicsFailureAfterRetries(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.topics.err = errors.New("feed unavailable")
	h.deps.Retry.MaxRetries = 2

	res := NewPipeline(h.deps).Run(context.Background())
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Stage != StageTopics {
		t.Fatalf("unexpected stage: %s", res.Stage)
	}
	if !strings.Contains(res.Error, "Error fetching trending topics after 2 retries") || !strings.Contains(res.Error, "feed unavailable") {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if h.topics.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", h.topics.calls)
	}
	if len(h.store.saves) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestPipelineEmptyTopicsFailsAtKeyword(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.topics.topics = nil

	res := NewPipeline(h.deps).Run(context.Background())
	if res.Success || res.Stage != StageKeyword {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Error, ErrNoTopics.Error()) {
		t.Fatalf("unexpected error: %s", res.Error)
	}
}

func TestPipelineGenerationFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.llm.err = errors.New("unexpected api response format")

	res := NewPipeline(h.deps).Run(context.Background())
	if res.Success || res.Stage != StageGenerate {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(h.llm.prompts) != 4 {
		t.Fatalf("expected 4 attempts, got %d", len(h.llm.prompts))
	}
	if !strings.Contains(res.Error, "Error generating content after 3 retries") {
		t.Fatalf("unexpected error: %s", res.Error)
	}
}

func TestPipelinePublishesAndResaves(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.deps.Publishing = true
	h.deps.Seo = fakeSeo{meta: &domain.SeoMetadata{SeoTitle: "AI Data Centers Explained", MetaDescription: "Why power matters."}}
	h.publisher.errs = []error{errors.New("timeout")}

	res := NewPipeline(h.deps).Run(context.Background())
	if !res.Success || !res.Published || res.PublishedURL != "https://blog.example/ai" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if h.publisher.calls != 2 {
		t.Fatalf("expected one retry, got %d calls", h.publisher.calls)
	}
	if h.publisher.seen.Published {
		t.Fatal("publisher must receive the unpublished artifact")
	}
	if h.publisher.seen.Title != "AI Data Centers Explained" {
		t.Fatalf("seo title not used: %s", h.publisher.seen.Title)
	}

	if len(h.store.saves) != 3 {
		t.Fatalf("expected re-save after publish, got %d saves", len(h.store.saves))
	}
	last := h.store.saves[2]
	if last.dir != h.deps.Dirs.Posts || !last.post.Published || last.post.PublishedURL != "https://blog.example/ai" {
		t.Fatalf("unexpected re-save: %+v", last)
	}
	if h.store.archive[0].Published {
		t.Fatal("archive entry is written before publishing")
	}
	if !strings.HasPrefix(last.post.HTML, "<!-- SEO Information\nTitle: AI Data Centers Explained") {
		t.Fatalf("seo comment missing: %q", last.post.HTML)
	}
}

func TestPipelineUnsuccessfulPublishKeepsDraft(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.deps.Publishing = true
	h.publisher.result = domain.PublishResult{Success: false, Message: "Publishing is disabled or not configured"}

	res := NewPipeline(h.deps).Run(context.Background())
	if !res.Success || res.Published {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(h.store.saves) != 2 {
		t.Fatalf("no re-save expected, got %d", len(h.store.saves))
	}
}

func TestPipelineSeoFailureDegrades(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.deps.Seo = fakeSeo{err: errors.New("parse failed")}
	h.notifier.err = errors.New("telegram down")

	res := NewPipeline(h.deps).Run(context.Background())
	if !res.Success {
		t.Fatalf("run failed: %+v", res)
	}
	if h.store.saves[0].post.Seo != nil {
		t.Fatal("metadata should be absent")
	}
}

func TestPipelinePersistFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.saveErr = errors.New("disk full")

	res := NewPipeline(h.deps).Run(context.Background())
	if res.Success || res.Stage != StagePersist || !strings.Contains(res.Error, "disk full") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestPipelineRecoversFromPanic(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.deps.Seo = panickySeo{}

	res := NewPipeline(h.deps).Run(context.Background())
	if res.Success || res.Stage != StageFormat || !strings.Contains(res.Error, "boom") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

type panickySeo struct{}

func (panickySeo) Optimize(context.Context, domain.DraftContent, domain.ScoredTopic) (*domain.SeoMetadata, error) {
	panic("boom")
}

func TestPostID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"AI data centers": "post-2026-10-14-ai-data-centers",
		"GPT-5 & You!":    "post-2026-10-14-gpt-5---you-",
		"Ünïcode":         "post-2026-10-14--n-code",
	}
	for title, want := range cases {
		if got := PostID(runDay, title); got != want {
			t.Fatalf("PostID(%q) = %s, want %s", title, got, want)
		}
	}
}
