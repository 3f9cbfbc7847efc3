package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsPress/internal/domain"
	"NewsPress/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source      ports.ArticleSource
	Fetcher     ports.ArticleFetcher
	Summarizer  ports.Summarizer
	Feed        ports.FeedStore
	Tree        ports.DocumentTree
	Archive     ports.EditionArchive
	Concurrency int
	Logger      *slog.Logger
}

// Pipeline implements the edition build workflow: index, fetch under a
// concurrency bound, summarize strictly one at a time, flush the feed after
// every append, then merge the finished edition into the document tree.
type Pipeline struct {
	source      ports.ArticleSource
	fetcher     ports.ArticleFetcher
	summarizer  ports.Summarizer
	feed        ports.FeedStore
	tree        ports.DocumentTree
	archive     ports.EditionArchive
	concurrency int
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:      deps.Source,
		fetcher:     deps.Fetcher,
		summarizer:  deps.Summarizer,
		feed:        deps.Feed,
		tree:        deps.Tree,
		archive:     deps.Archive,
		concurrency: deps.Concurrency,
		logger:      deps.Logger,
	}
}

// BuildEdition runs one full edition keyed off now. Per-article failures
// only shrink the edition; feed or tree write failures are fatal. Whatever
// was flushed before an interruption remains a valid edition snapshot.
func (p *Pipeline) BuildEdition(ctx context.Context, now time.Time) error {
	if p.source == nil || p.summarizer == nil || p.feed == nil {
		return fmt.Errorf("pipeline is missing required adapters")
	}

	runID := uuid.NewString()
	log := p.logWith("run_id", runID)

	edition := domain.NewEdition(now)
	log.Info("edition started", "date", edition.LocalDate, "time_of_day", edition.TimeOfDay)

	// A zero-article run is still a valid edition; establish the snapshot
	// before any summarization happens.
	if err := p.feed.Flush(ctx, edition); err != nil {
		return fmt.Errorf("flush feed: %w", err)
	}

	refs, err := p.source.IndexArticles(ctx)
	if err != nil {
		return fmt.Errorf("index articles: %w", err)
	}
	log.Info("indexing complete", "articles", len(refs))

	pool := NewFetchPool(p.fetcher, p.concurrency, p.logger)
	contents := pool.FetchAll(ctx, refs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := NewSummarizeQueue(p.summarizer, len(contents), p.logger)
	go queue.Run(ctx)
	go func() {
		for _, content := range contents {
			if !queue.Submit(ctx, content) {
				return
			}
		}
		queue.Close()
	}()

	completed := 0
	for summary := range queue.Results() {
		edition.Append(summary)
		if err := p.feed.Flush(ctx, edition); err != nil {
			return fmt.Errorf("flush feed: %w", err)
		}
		if p.archive != nil {
			if err := p.archive.SaveArticle(ctx, runID, edition.Key(), summary); err != nil {
				log.Warn("archive write failed", "url", summary.Source, "error", err)
			}
		}
		completed++
		log.Info("processed article", "done", completed, "of", len(contents))
	}

	log.Info("edition complete", "articles", len(edition.Articles), "dropped", len(contents)-completed)

	if p.tree != nil {
		if err := p.tree.Merge(ctx, edition); err != nil {
			return fmt.Errorf("merge document tree: %w", err)
		}
	}

	return nil
}

func (p *Pipeline) logWith(args ...any) *slog.Logger {
	if p.logger != nil {
		return p.logger.With(args...)
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
