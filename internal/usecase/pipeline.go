package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/formatter"
	"AutoBlog/internal/ports"
	"AutoBlog/internal/retry"
)

const (
	topicsLabel   = "Error fetching trending topics"
	researchLabel = "Error performing research"
	generateLabel = "Error generating content"
	publishLabel  = "Error publishing content"
)

var slugExpr = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Dirs are the working directories of a run.
type Dirs struct {
	Data   string
	Posts  string
	Logs   string
	Trends string
	Pages  string
}

func (d Dirs) all() []string {
	return []string{d.Data, d.Posts, d.Logs, d.Trends, d.Pages}
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Topics     ports.TopicSource
	Selector   SelectorPreferences
	Researcher *Researcher
	Generator  *Generator
	Seo        ports.SeoOptimizer
	Formatter  *formatter.Formatter
	Store      ports.PostStore
	Index      ports.PostIndex
	Publisher  ports.Publisher
	Notifier   ports.Notifier
	Publishing bool
	BlogName   string
	Dirs       Dirs
	Retry      retry.Policy
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline runs the trend-to-post workflow once per call to Run.
type Pipeline struct {
	topics     ports.TopicSource
	selector   SelectorPreferences
	researcher *Researcher
	generator  *Generator
	seo        ports.SeoOptimizer
	formatter  *formatter.Formatter
	store      ports.PostStore
	index      ports.PostIndex
	publisher  ports.Publisher
	notifier   ports.Notifier
	publishing bool
	blogName   string
	dirs       Dirs
	retry      retry.Policy
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	f := deps.Formatter
	if f == nil {
		f = formatter.New(logger)
	}
	policy := deps.Retry
	if policy.Logger == nil {
		policy.Logger = logger
	}
	return &Pipeline{
		topics:     deps.Topics,
		selector:   deps.Selector,
		researcher: deps.Researcher,
		generator:  deps.Generator,
		seo:        deps.Seo,
		formatter:  f,
		store:      deps.Store,
		index:      deps.Index,
		publisher:  deps.Publisher,
		notifier:   deps.Notifier,
		publishing: deps.Publishing,
		blogName:   deps.BlogName,
		dirs:       deps.Dirs,
		retry:      policy,
		logger:     logger,
		now:        now,
	}
}

// Run executes every stage in order. It never panics; any failure is reported
// through the returned Result.
func (p *Pipeline) Run(ctx context.Context) (result Result) {
	stage := StageInit
	started := p.now()

	defer func() {
		if rec := recover(); rec != nil {
			result = p.fail(stage, fmt.Errorf("unexpected panic: %v", rec))
		}
	}()

	enter := func(next Stage) {
		p.logger.Debug("stage started", "stage", string(next))
		stage = next
	}

	p.logger.Info("AutoBlog workflow started")
	if err := p.ensureDirectories(); err != nil {
		return p.fail(stage, err)
	}
	if p.topics == nil || p.researcher == nil || p.generator == nil || p.store == nil {
		return p.fail(stage, errors.New("pipeline is missing a required collaborator"))
	}

	enter(StageTopics)
	topics, err := retry.Do(ctx, p.retry, topicsLabel, p.topics.FetchTopics)
	if err != nil {
		return p.fail(stage, err)
	}
	p.logger.Info("trending topics fetched", "count", len(topics))
	p.snapshotTopics(ctx, started, topics)

	enter(StageKeyword)
	keyword, err := SelectKeyword(topics, p.selector)
	if err != nil {
		return p.fail(stage, err)
	}
	p.logger.Info("keyword selected", "keyword", keyword.Title, "score", keyword.Score)

	enter(StageResearch)
	research, err := retry.Do(ctx, p.retry, researchLabel, func(ctx context.Context) (domain.ResearchBundle, error) {
		return p.researcher.Research(ctx, keyword), nil
	})
	if err != nil {
		return p.fail(stage, err)
	}

	enter(StageGenerate)
	draft, err := retry.Do(ctx, p.retry, generateLabel, func(ctx context.Context) (domain.DraftContent, error) {
		return p.generator.Generate(ctx, keyword, research)
	})
	if err != nil {
		return p.fail(stage, err)
	}

	enter(StageFormat)
	seo := p.optimize(ctx, draft, keyword)
	formatted := p.formatter.Format(draft, seo)

	enter(StagePersist)
	post := buildPost(keyword, formatted, seo, started)
	if err := p.persist(ctx, post); err != nil {
		return p.fail(stage, err)
	}

	if p.publishing {
		enter(StagePublish)
		if p.publisher == nil {
			return p.fail(stage, errors.New("publishing is enabled but no publisher is configured"))
		}
		published, err := retry.Do(ctx, p.retry, publishLabel, func(ctx context.Context) (domain.PublishResult, error) {
			return p.publisher.Publish(ctx, post)
		})
		if err != nil {
			return p.fail(stage, err)
		}
		if published.Success {
			post.Published = true
			post.PublishedURL = published.URL
			if _, err := p.store.SavePost(ctx, p.dirs.Posts, post); err != nil {
				return p.fail(stage, fmt.Errorf("save published post: %w", err))
			}
			p.upsertIndex(ctx, post)
		} else {
			p.logger.Warn("post not published", "message", published.Message)
		}
	}

	enter(StageDone)
	p.notify(ctx, post)
	p.logger.Info("AutoBlog workflow completed",
		"post_id", post.ID,
		"published", post.Published,
		"duration", p.now().Sub(started).Round(time.Millisecond).String(),
	)

	return Result{
		Success:      true,
		PostID:       post.ID,
		Title:        post.Title,
		Keyword:      post.Keyword,
		Score:        keyword.Score,
		Published:    post.Published,
		PublishedURL: post.PublishedURL,
		Stage:        StageDone,
	}
}

func (p *Pipeline) fail(stage Stage, err error) Result {
	p.logger.Error("workflow failed", "stage", string(stage), "next", string(StageFailed), "error", err)
	return Failure(stage, err)
}

func (p *Pipeline) ensureDirectories() error {
	for _, dir := range p.dirs.all() {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

func (p *Pipeline) snapshotTopics(ctx context.Context, at time.Time, topics []domain.Topic) {
	if p.dirs.Trends == "" {
		return
	}
	name := "trends-" + at.UTC().Format(time.DateOnly)
	if _, err := p.store.SaveTopics(ctx, p.dirs.Trends, name, topics); err != nil {
		p.logger.Warn("topic snapshot not saved", "error", err)
	}
}

func (p *Pipeline) optimize(ctx context.Context, draft domain.DraftContent, keyword domain.ScoredTopic) *domain.SeoMetadata {
	if p.seo == nil {
		return nil
	}
	meta, err := p.seo.Optimize(ctx, draft, keyword)
	if err != nil {
		p.logger.Warn("seo optimization failed, continuing without metadata", "error", err)
		return nil
	}
	return meta
}

// persist writes the artifact, its pages copy and the archive entry.
func (p *Pipeline) persist(ctx context.Context, post domain.Post) error {
	path, err := p.store.SavePost(ctx, p.dirs.Posts, post)
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	p.logger.Info("post saved", "post_id", post.ID, "path", path)

	if _, err := p.store.SavePost(ctx, p.dirs.Pages, post); err != nil {
		return fmt.Errorf("save pages copy: %w", err)
	}
	if err := p.store.UpdateArchive(ctx, post); err != nil {
		return fmt.Errorf("update archive: %w", err)
	}
	p.upsertIndex(ctx, post)
	return nil
}

func (p *Pipeline) upsertIndex(ctx context.Context, post domain.Post) {
	if p.index == nil {
		return
	}
	if err := p.index.Upsert(ctx, post); err != nil {
		p.logger.Warn("post index not updated", "post_id", post.ID, "error", err)
	}
}

func (p *Pipeline) notify(ctx context.Context, post domain.Post) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(ctx, buildAnnouncement(p.blogName, post)); err != nil {
		p.logger.Warn("run notification failed", "error", err)
	}
}

func buildPost(keyword domain.ScoredTopic, formatted domain.FormattedContent, seo *domain.SeoMetadata, at time.Time) domain.Post {
	title := "Blog about " + keyword.Title
	if seo != nil && seo.SeoTitle != "" {
		title = seo.SeoTitle
	}
	created := at.UTC()
	return domain.Post{
		ID:        PostID(created, keyword.Title),
		Title:     title,
		Keyword:   keyword.Title,
		Content:   formatted.Content,
		HTML:      formatted.HTML,
		Markdown:  formatted.Markdown,
		CreatedAt: created,
		TrendData: keyword,
		Seo:       seo,
		Published: false,
	}
}

// PostID is "post-<YYYY-MM-DD>-<slug>" where the slug replaces every
// non-alphanumeric character of the title with "-" and lowercases the rest.
func PostID(at time.Time, title string) string {
	slug := strings.ToLower(slugExpr.ReplaceAllString(title, "-"))
	return "post-" + at.UTC().Format(time.DateOnly) + "-" + slug
}

func buildAnnouncement(blogName string, post domain.Post) string {
	var b strings.Builder
	if blogName != "" {
		fmt.Fprintf(&b, "%s: ", blogName)
	}
	fmt.Fprintf(&b, "new post %q\nKeyword: %s (score %.1f)", post.Title, post.Keyword, post.TrendData.Score)
	if post.PublishedURL != "" {
		fmt.Fprintf(&b, "\n%s", post.PublishedURL)
	} else {
		fmt.Fprintf(&b, "\nSaved as %s", post.ID)
	}
	return b.String()
}
