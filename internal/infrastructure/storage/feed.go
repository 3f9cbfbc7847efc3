package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"NewsPress/internal/domain"
	"NewsPress/internal/ports"
)

// FeedStore persists edition snapshots as JSON files under
// <root>/<local_date>/<time_of_day>.json. Every flush rewrites the full
// snapshot into a temp file and renames it over the destination, so a
// reader never observes a torn feed — only a complete, possibly
// smaller-than-final one.
type FeedStore struct {
	root   string
	logger *slog.Logger
}

var _ ports.FeedStore = (*FeedStore)(nil)

// NewFeedStore writes feeds beneath root.
func NewFeedStore(root string, logger *slog.Logger) *FeedStore {
	return &FeedStore{root: root, logger: logger}
}

// Flush serializes the whole edition and atomically replaces the feed file.
func (f *FeedStore) Flush(ctx context.Context, edition *domain.Edition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(edition)
	if err != nil {
		return fmt.Errorf("marshal edition: %w", err)
	}

	dir := filepath.Join(f.root, edition.LocalDate)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create feed dir: %w", err)
	}

	dest := filepath.Join(dir, string(edition.TimeOfDay)+".json")

	tmp, err := os.CreateTemp(dir, "."+string(edition.TimeOfDay)+".json.*")
	if err != nil {
		return fmt.Errorf("create temp feed: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp feed: %w", err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace feed: %w", err)
	}

	if f.logger != nil {
		f.logger.Debug("flushed feed", "path", dest, "articles", len(edition.Articles))
	}
	return nil
}
