package parser

import (
	"context"
	"fmt"
	"log/slog"

	"NewsPress/internal/config"
	"NewsPress/internal/domain"
	"NewsPress/internal/ports"
	"NewsPress/internal/scanner"
)

// StrategySource implements ArticleSource and ArticleFetcher via registered
// scanner strategies. A source that fails to index contributes zero
// articles; the run continues with the remaining sources.
type StrategySource struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	byName   map[string]config.SourceConfig
	logger   *slog.Logger
}

var (
	_ ports.ArticleSource  = (*StrategySource)(nil)
	_ ports.ArticleFetcher = (*StrategySource)(nil)
)

// NewStrategySource wires the scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	byName := make(map[string]config.SourceConfig, len(sources))
	for _, src := range sources {
		byName[src.Name] = src
	}
	return &StrategySource{
		registry: reg,
		sources:  sources,
		byName:   byName,
		logger:   log,
	}
}

// IndexArticles iterates over configured sources in order, executing their
// scanners and collapsing cross-source duplicate URLs to the first
// occurrence. The returned refs carry their run-wide index.
func (s *StrategySource) IndexArticles(ctx context.Context) ([]domain.ArticleRef, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	seen := map[string]struct{}{}
	var refs []domain.ArticleRef

	for _, site := range s.sources {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			s.warn("source skipped", "source", site.Name, "error", err)
			continue
		}

		found, err := strategy.Index(ctx, toScannerSource(site))
		if err != nil {
			s.warn("indexing failed", "source", site.Name, "error", err)
			continue
		}

		added := 0
		for _, ref := range found {
			if _, ok := seen[ref.URL]; ok {
				continue
			}
			seen[ref.URL] = struct{}{}
			ref.Index = len(refs)
			refs = append(refs, ref)
			added++
		}

		s.info("indexed article urls", "source", site.Name, "count", len(found), "new", added)
	}

	return refs, nil
}

// FetchArticle extracts one article's text via its source's strategy.
func (s *StrategySource) FetchArticle(ctx context.Context, ref domain.ArticleRef) (domain.ArticleContent, error) {
	site, ok := s.byName[ref.SourceSite]
	if !ok {
		return domain.ArticleContent{}, fmt.Errorf("unknown source %s", ref.SourceSite)
	}

	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("source %s: %w", site.Name, err)
	}

	return strategy.Extract(ctx, toScannerSource(site), ref)
}

func toScannerSource(cfg config.SourceConfig) scanner.Source {
	return scanner.Source{
		Name:          cfg.Name,
		IndexURL:      cfg.IndexURL,
		FeedURL:       cfg.FeedURL,
		LinkSelector:  cfg.LinkSelector,
		TitleSelector: cfg.TitleSelector,
		BodySelector:  cfg.BodySelector,
		Options:       cfg.Options,
	}
}

func (s *StrategySource) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
