package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"AutoBlog/internal/config"
	"AutoBlog/internal/domain"
	"AutoBlog/internal/formatter"
	"AutoBlog/internal/infrastructure/llm"
	"AutoBlog/internal/infrastructure/publisher"
	"AutoBlog/internal/infrastructure/search"
	"AutoBlog/internal/infrastructure/seo"
	"AutoBlog/internal/infrastructure/storage"
	"AutoBlog/internal/infrastructure/telegram"
	"AutoBlog/internal/infrastructure/trends"
	"AutoBlog/internal/ports"
	"AutoBlog/internal/retry"
	"AutoBlog/internal/usecase"
)

const lockFile = "autoblog.lock"

// ErrRunInProgress is reported when another process holds the run lock.
var ErrRunInProgress = errors.New("another autoblog run is in progress")

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	index  *storage.SQLRepository
}

// New validates the configuration and opens the optional post index.
func New(cfg config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Warn(w)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &Application{cfg: cfg, logger: logger}
	if cfg.Database.Driver != "" {
		db, err := storage.OpenSQL(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.index = storage.NewSQLRepository(db, cfg.Database.Driver)
	}
	return a, nil
}

// Run executes one pipeline run under the process-wide lock.
func (a *Application) Run(ctx context.Context) usecase.Result {
	dataDir := a.cfg.System.DataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return usecase.Failure(usecase.StageInit, fmt.Errorf("create data dir: %w", err))
	}

	lock := flock.New(filepath.Join(dataDir, lockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return usecase.Failure(usecase.StageInit, fmt.Errorf("acquire lock: %w", err))
	}
	if !ok {
		a.logger.Error("run lock held", "lock", lock.Path())
		return usecase.Failure(usecase.StageInit, ErrRunInProgress)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			a.logger.Warn("failed to release run lock", "error", err)
		}
	}()

	logger := a.logger.With("run_id", uuid.NewString())
	if a.index != nil {
		if err := a.index.EnsureSchema(ctx); err != nil {
			logger.Warn("post index unavailable", "error", err)
		}
	}

	return a.pipeline(logger).Run(ctx)
}

// Close releases the post index connection.
func (a *Application) Close() error {
	if a.index == nil {
		return nil
	}
	return a.index.Close()
}

func (a *Application) pipeline(logger *slog.Logger) *usecase.Pipeline {
	cfg := a.cfg

	source := trends.NewRSSSource(cfg.GoogleTrends.FeedURL, trends.Locale{
		Language: cfg.GoogleTrends.Language,
		Region:   cfg.GoogleTrends.Region,
	}, nil)

	researcher := usecase.NewResearcher(
		search.NewGoogleClient(cfg.GoogleSearch.BaseURL, nil),
		domain.SearchCredentials{APIKey: cfg.GoogleSearch.APIKey, SearchEngineID: cfg.GoogleSearch.SearchEngineID},
		logger.With("component", "researcher"),
	)

	generator := usecase.NewGenerator(
		llm.NewGeminiClient(llm.GeminiConfig{
			BaseURL: cfg.Gemini.BaseURL,
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
		}),
		usecase.WordRange{Min: cfg.Content.MinWordCount, Max: cfg.Content.MaxWordCount},
		logger.With("component", "generator"),
	)

	var publisherPort ports.Publisher
	if cfg.Publishing.Enabled {
		wp := cfg.Publishing.WordPress
		publisherPort = publisher.NewWordPress(publisher.WordPressConfig{
			Enabled:    cfg.Publishing.Enabled,
			URL:        wp.URL,
			Username:   wp.Username,
			Password:   wp.Password,
			Categories: wp.Categories,
			Tags:       wp.Tags,
		}, nil, logger.With("component", "publisher"))
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	var index ports.PostIndex
	if a.index != nil {
		index = a.index
	}

	return usecase.NewPipeline(usecase.PipelineDeps{
		Topics: source,
		Selector: usecase.SelectorPreferences{
			RelevantTerms:      cfg.KeywordPreferences.RelevantTerms,
			MinScore:           cfg.KeywordPreferences.MinScore,
			MaxTopicsToAnalyze: cfg.KeywordPreferences.MaxTopicsToAnalyze,
			Language:           cfg.Content.Language,
		},
		Researcher: researcher,
		Generator:  generator,
		Seo:        seo.NewExtractor(),
		Formatter:  formatter.New(logger.With("component", "formatter")),
		Store:      storage.NewJSONStore(cfg.System.GithubPagesDir, logger.With("component", "storage")),
		Index:      index,
		Publisher:  publisherPort,
		Notifier:   notifier,
		Publishing: cfg.Publishing.Enabled,
		BlogName:   cfg.Blog.Name,
		Dirs: usecase.Dirs{
			Data:   cfg.System.DataDir,
			Posts:  cfg.System.PostsDir,
			Logs:   cfg.System.LogsDir,
			Trends: cfg.System.TrendsDir,
			Pages:  cfg.System.GithubPagesDir,
		},
		Retry: retry.Policy{
			MaxRetries: cfg.System.MaxRetries,
			Delay:      cfg.System.RetryDelay(),
			Logger:     logger.With("component", "retry"),
		},
		Logger: logger.With("component", "pipeline"),
	})
}
