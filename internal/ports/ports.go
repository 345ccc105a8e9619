package ports

import (
	"context"

	"AutoBlog/internal/domain"
)

// TopicSource pulls candidate trending topics from upstream providers.
type TopicSource interface {
	FetchTopics(ctx context.Context) ([]domain.Topic, error)
}

// SearchClient queries a web search backend.
type SearchClient interface {
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error)
}

// TextGenerator produces generated text for a prompt (e.g., Gemini).
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SeoOptimizer derives search-engine metadata for a draft.
type SeoOptimizer interface {
	Optimize(ctx context.Context, draft domain.DraftContent, keyword domain.ScoredTopic) (*domain.SeoMetadata, error)
}

// PostStore persists post artifacts, topic snapshots and the archive index.
type PostStore interface {
	SavePost(ctx context.Context, dir string, post domain.Post) (string, error)
	SaveTopics(ctx context.Context, dir, name string, topics []domain.Topic) (string, error)
	UpdateArchive(ctx context.Context, post domain.Post) error
}

// PostIndex mirrors posts into a queryable database.
type PostIndex interface {
	Upsert(ctx context.Context, post domain.Post) error
}

// Publisher hands a post off to the target publishing platform.
type Publisher interface {
	Publish(ctx context.Context, post domain.Post) (domain.PublishResult, error)
}

// Notifier announces finished runs on a chat channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
