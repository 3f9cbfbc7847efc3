package ports

import (
	"context"
	"time"

	"NewsPress/internal/domain"
)

// ArticleSource discovers candidate articles across all configured sources.
// The returned refs are deduplicated by URL and ordered; indexing failures
// of individual sources are absorbed, never returned.
type ArticleSource interface {
	IndexArticles(ctx context.Context) ([]domain.ArticleRef, error)
}

// ArticleFetcher retrieves and extracts the text body of one article.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, ref domain.ArticleRef) (domain.ArticleContent, error)
}

// Summarizer converts raw article text into a structured summary. The
// backend behind it tolerates exactly one in-flight request; callers must
// never invoke it concurrently.
type Summarizer interface {
	Summarize(ctx context.Context, content domain.ArticleContent) (domain.ArticleSummary, error)
}

// FeedStore durably persists the full edition snapshot.
type FeedStore interface {
	Flush(ctx context.Context, edition *domain.Edition) error
}

// EditionArchive records published articles for operator history.
type EditionArchive interface {
	SaveArticle(ctx context.Context, runID string, key domain.EditionKey, article domain.ArticleSummary) error
}

// DocumentTree renders a finished edition and merges it into the
// documentation project's index files. Merging the same key twice is a
// no-op after the first success.
type DocumentTree interface {
	Merge(ctx context.Context, edition *domain.Edition) error
}

// Scheduler controls when editions are built.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
