package usecase

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"NewsPress/internal/domain"
	"NewsPress/internal/ports"
)

// FetchPool retrieves article bodies with a fixed concurrency bound. A
// fetch that errors or yields an empty body drops its article; the pool
// never fails the run.
type FetchPool struct {
	fetcher ports.ArticleFetcher
	size    int
	logger  *slog.Logger
}

// NewFetchPool bounds concurrent fetches to size (minimum one).
func NewFetchPool(fetcher ports.ArticleFetcher, size int, logger *slog.Logger) *FetchPool {
	if size < 1 {
		size = 1
	}
	return &FetchPool{fetcher: fetcher, size: size, logger: logger}
}

// FetchAll fetches every ref and returns the surviving contents compacted
// in the refs' original order, so downstream stages see submission order
// regardless of which fetch finished first.
func (p *FetchPool) FetchAll(ctx context.Context, refs []domain.ArticleRef) []domain.ArticleContent {
	slots := make([]*domain.ArticleContent, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			content, err := p.fetcher.FetchArticle(gctx, ref)
			if err != nil {
				p.warn("fetch dropped", "url", ref.URL, "source", ref.SourceSite, "error", err)
				return nil
			}
			if strings.TrimSpace(content.RawText) == "" {
				p.warn("fetch produced no content", "url", ref.URL, "source", ref.SourceSite)
				return nil
			}
			slots[i] = &content
			return nil
		})
	}

	// Workers absorb their own errors, so Wait only reflects ctx cancellation.
	_ = g.Wait()

	contents := make([]domain.ArticleContent, 0, len(refs))
	for _, slot := range slots {
		if slot != nil {
			contents = append(contents, *slot)
		}
	}

	if p.logger != nil {
		p.logger.Info("fetched article contents", "requested", len(refs), "fetched", len(contents))
	}
	return contents
}

func (p *FetchPool) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
