package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "AUTOBLOG_CONFIG"
	defaultConfigFile   = "config.json"
	googleAPIKeyEnv     = "GOOGLE_API_KEY"
	searchEngineIDEnv   = "GOOGLE_SEARCH_ENGINE_ID"
	geminiModelEnv      = "GEMINI_MODEL"
	wordpressURLEnv     = "WORDPRESS_URL"
	wordpressUserEnv    = "WORDPRESS_USERNAME"
	wordpressPassEnv    = "WORDPRESS_PASSWORD"
	databaseDSNEnv      = "DATABASE_DSN"
	telegramTokenEnv    = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv   = "TELEGRAM_CHAT_ID"
	logLevelEnv         = "LOG_LEVEL"
	defaultRetryDelayMs = 1000
	defaultMaxRetries   = 3
)

// Config holds high-level settings required across the application.
type Config struct {
	GoogleTrends       TrendsConfig       `json:"googleTrends" yaml:"googleTrends"`
	KeywordPreferences KeywordConfig      `json:"keywordPreferences" yaml:"keywordPreferences"`
	Gemini             GeminiConfig       `json:"gemini" yaml:"gemini"`
	GoogleSearch       SearchConfig       `json:"googleSearch" yaml:"googleSearch"`
	Content            ContentConfig      `json:"content" yaml:"content"`
	Blog               BlogConfig         `json:"blog" yaml:"blog"`
	Publishing         PublishingConfig   `json:"publishing" yaml:"publishing"`
	System             SystemConfig       `json:"system" yaml:"system"`
	Logging            LoggingConfig      `json:"logging" yaml:"logging"`
	Database           DatabaseConfig     `json:"database" yaml:"database"`
	Notifications      NotificationConfig `json:"notifications" yaml:"notifications"`
}

// TrendsConfig selects the trending-topics locale.
type TrendsConfig struct {
	Language string `json:"language" yaml:"language"`
	Region   string `json:"region" yaml:"region"`
	FeedURL  string `json:"feedUrl" yaml:"feedUrl"`
}

// KeywordConfig tunes keyword scoring.
type KeywordConfig struct {
	RelevantTerms      []string `json:"relevantTerms" yaml:"relevantTerms"`
	MinScore           float64  `json:"minScore" yaml:"minScore"`
	MaxTopicsToAnalyze int      `json:"maxTopicsToAnalyze" yaml:"maxTopicsToAnalyze"`
}

// GeminiConfig defines how to contact the generative text API.
type GeminiConfig struct {
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	Model   string `json:"model" yaml:"model"`
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

// SearchConfig holds Custom Search credentials.
type SearchConfig struct {
	APIKey         string `json:"apiKey" yaml:"apiKey"`
	SearchEngineID string `json:"searchEngineId" yaml:"searchEngineId"`
	BaseURL        string `json:"baseUrl" yaml:"baseUrl"`
}

// ContentConfig is the advisory article shape.
type ContentConfig struct {
	MinWordCount int    `json:"minWordCount" yaml:"minWordCount"`
	MaxWordCount int    `json:"maxWordCount" yaml:"maxWordCount"`
	Language     string `json:"language" yaml:"language"`
}

// BlogConfig describes the blog itself.
type BlogConfig struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	BaseURL     string `json:"baseUrl" yaml:"baseUrl"`
	Language    string `json:"language" yaml:"language"`
}

// PublishingConfig toggles the WordPress hand-off.
type PublishingConfig struct {
	Enabled   bool            `json:"enabled" yaml:"enabled"`
	WordPress WordPressConfig `json:"wordpress" yaml:"wordpress"`
}

// WordPressConfig carries the REST endpoint and credentials.
type WordPressConfig struct {
	URL        string `json:"url" yaml:"url"`
	Username   string `json:"username" yaml:"username"`
	Password   string `json:"password" yaml:"password"`
	Categories []int  `json:"categories" yaml:"categories"`
	Tags       []int  `json:"tags" yaml:"tags"`
}

// SystemConfig lists working directories and retry settings.
type SystemConfig struct {
	DataDir        string `json:"dataDir" yaml:"dataDir"`
	LogsDir        string `json:"logsDir" yaml:"logsDir"`
	PostsDir       string `json:"postsDir" yaml:"postsDir"`
	TrendsDir      string `json:"trendsDir" yaml:"trendsDir"`
	GithubPagesDir string `json:"githubPagesDir" yaml:"githubPagesDir"`
	MaxRetries     int    `json:"maxRetries" yaml:"maxRetries"`
	RetryDelayMs   int    `json:"retryDelay" yaml:"retryDelay"`
}

// RetryDelay converts the configured milliseconds to a duration.
func (s SystemConfig) RetryDelay() time.Duration {
	if s.RetryDelayMs < 0 {
		return 0
	}
	return time.Duration(s.RetryDelayMs) * time.Millisecond
}

// Dirs returns every working directory the run needs.
func (s SystemConfig) Dirs() []string {
	return []string{s.DataDir, s.PostsDir, s.LogsDir, s.TrendsDir, s.GithubPagesDir}
}

// LoggingConfig sets the log verbosity.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// DatabaseConfig enables the optional SQL post index.
type DatabaseConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `json:"botToken" yaml:"botToken"`
	ChatID   string `json:"chatId" yaml:"chatId"`
}

// Load reads $AUTOBLOG_CONFIG or ./config.json over the defaults and applies environment overrides.
func Load() Config {
	path := os.Getenv(configPathEnv)
	if path == "" {
		path = defaultConfigFile
	}
	return LoadFrom(path)
}

// LoadFrom merges the file at path (if present) into the defaults.
// A missing file is silent; an unreadable or invalid one keeps the defaults.
func LoadFrom(path string) Config {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("config: no %s found, using defaults", path)
	case err != nil:
		log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
	default:
		merged := Default()
		if err := decode(path, raw, &merged); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = merged
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// decode unmarshals onto a pre-filled struct: nested objects merge key by key,
// lists and scalars replace.
func decode(path string, raw []byte, into *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(raw, into)
	default:
		return json.Unmarshal(raw, into)
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(googleAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
		c.GoogleSearch.APIKey = v
	}
	if v := os.Getenv(searchEngineIDEnv); v != "" {
		c.GoogleSearch.SearchEngineID = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(wordpressURLEnv); v != "" {
		c.Publishing.WordPress.URL = v
	}
	if v := os.Getenv(wordpressUserEnv); v != "" {
		c.Publishing.WordPress.Username = v
	}
	if v := os.Getenv(wordpressPassEnv); v != "" {
		c.Publishing.WordPress.Password = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// Validate fails when publishing is enabled without a target or credentials.
// Missing generation or search credentials only produce warnings.
func (c Config) Validate() (warnings []string, err error) {
	if c.Gemini.APIKey == "" {
		warnings = append(warnings, "No Google API key provided - some features may not work")
	}
	if c.GoogleSearch.SearchEngineID == "" && c.GoogleSearch.APIKey != "" {
		warnings = append(warnings, "No Google Search Engine ID provided - search features may not work")
	}

	if c.Publishing.Enabled {
		wp := c.Publishing.WordPress
		if strings.TrimSpace(wp.URL) == "" {
			return warnings, errors.New("WordPress URL is required when publishing is enabled")
		}
		if wp.Username == "" || wp.Password == "" {
			return warnings, errors.New("WordPress credentials are required when publishing is enabled")
		}
	}

	if c.Database.Driver != "" && c.Database.DSN == "" {
		return warnings, errors.New("database dsn is required when a database driver is set")
	}

	return warnings, nil
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		GoogleTrends: TrendsConfig{Language: "en", Region: "US"},
		KeywordPreferences: KeywordConfig{
			RelevantTerms:      []string{"ai", "technology", "digital", "automation", "machine learning", "data", "cloud"},
			MinScore:           10,
			MaxTopicsToAnalyze: 10,
		},
		Gemini:  GeminiConfig{Model: "gemini-pro"},
		Content: ContentConfig{MinWordCount: 1000, MaxWordCount: 1500, Language: "en"},
		Blog: BlogConfig{
			Name:        "AutoBloga Tech Blog",
			Description: "Automated insights on technology trends",
			BaseURL:     "https://example.com",
			Language:    "en",
		},
		Publishing: PublishingConfig{
			Enabled:   false,
			WordPress: WordPressConfig{Categories: []int{1}, Tags: []int{}},
		},
		System: SystemConfig{
			DataDir:        "data",
			LogsDir:        filepath.Join("data", "logs"),
			PostsDir:       filepath.Join("data", "posts"),
			TrendsDir:      filepath.Join("data", "trends"),
			GithubPagesDir: filepath.Join("docs", "posts"),
			MaxRetries:     defaultMaxRetries,
			RetryDelayMs:   defaultRetryDelayMs,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
