package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/ports"
)

const (
	archiveFile  = "archives.json"
	archiveLimit = 100
)

// JSONStore writes artifacts as indented JSON files.
type JSONStore struct {
	pagesDir string
	logger   *slog.Logger
	mu       sync.Mutex
}

var _ ports.PostStore = (*JSONStore)(nil)

// NewJSONStore keeps the archive index under pagesDir.
func NewJSONStore(pagesDir string, logger *slog.Logger) *JSONStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &JSONStore{pagesDir: pagesDir, logger: logger}
}

// SavePost writes the post to <dir>/<id>.json and returns the path.
func (s *JSONStore) SavePost(ctx context.Context, dir string, post domain.Post) (string, error) {
	if post.ID == "" {
		return "", errors.New("save post: empty id")
	}
	return s.save(ctx, dir, post.ID, post)
}

// SaveTopics writes a snapshot of fetched topics to <dir>/<name>.json.
func (s *JSONStore) SaveTopics(ctx context.Context, dir, name string, topics []domain.Topic) (string, error) {
	if topics == nil {
		topics = []domain.Topic{}
	}
	return s.save(ctx, dir, name, topics)
}

// UpdateArchive prepends the post summary to the archive index, keeping the newest entries.
func (s *JSONStore) UpdateArchive(ctx context.Context, post domain.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.Archive()
	entries = append([]domain.ArchiveEntry{post.Summary()}, entries...)
	if len(entries) > archiveLimit {
		entries = entries[:archiveLimit]
	}

	if err := writeJSON(filepath.Join(s.pagesDir, archiveFile), entries); err != nil {
		return fmt.Errorf("update archive: %w", err)
	}
	s.logger.Debug("archive updated", "entries", len(entries))
	return nil
}

// Archive reads the archive index; a missing or corrupt file yields an empty list.
func (s *JSONStore) Archive() []domain.ArchiveEntry {
	path := filepath.Join(s.pagesDir, archiveFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("archive unreadable, starting fresh", "path", path, "error", err)
		}
		return []domain.ArchiveEntry{}
	}

	var entries []domain.ArchiveEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("archive corrupt, starting fresh", "path", path, "error", err)
		return []domain.ArchiveEntry{}
	}
	return entries
}

// LoadPost reads <dir>/<id>.json.
func (s *JSONStore) LoadPost(dir, id string) (domain.Post, error) {
	var post domain.Post
	raw, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		return post, fmt.Errorf("load post: %w", err)
	}
	if err := json.Unmarshal(raw, &post); err != nil {
		return post, fmt.Errorf("decode post %s: %w", id, err)
	}
	return post, nil
}

func (s *JSONStore) save(ctx context.Context, dir, name string, v any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".json")
	if err := writeJSON(path, v); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	s.logger.Debug("data saved", "path", path)
	return path, nil
}

// writeJSON replaces path through a temp file so readers never see a partial document.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
