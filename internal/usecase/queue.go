package usecase

import (
	"context"
	"log/slog"

	"NewsPress/internal/domain"
	"NewsPress/internal/ports"
)

// SummarizeQueue serializes access to the summarization backend: a single
// worker drains a FIFO channel, so no two backend calls are ever in flight
// at once. Items whose summarization fails or whose output violates the
// schema are dropped with a diagnostic; one bad item never blocks the rest.
type SummarizeQueue struct {
	summarizer ports.Summarizer
	logger     *slog.Logger
	in         chan domain.ArticleContent
	out        chan domain.ArticleSummary
}

// NewSummarizeQueue sizes the submission buffer; results are unbuffered so
// the consumer's flush of each summary completes before the next is handed
// over.
func NewSummarizeQueue(summarizer ports.Summarizer, buffer int, logger *slog.Logger) *SummarizeQueue {
	if buffer < 0 {
		buffer = 0
	}
	return &SummarizeQueue{
		summarizer: summarizer,
		logger:     logger,
		in:         make(chan domain.ArticleContent, buffer),
		out:        make(chan domain.ArticleSummary),
	}
}

// Submit enqueues one item in FIFO order. It returns false once ctx is done.
func (q *SummarizeQueue) Submit(ctx context.Context, content domain.ArticleContent) bool {
	select {
	case q.in <- content:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close signals that no further items will arrive.
func (q *SummarizeQueue) Close() {
	close(q.in)
}

// Results yields completed summaries in submission order.
func (q *SummarizeQueue) Results() <-chan domain.ArticleSummary {
	return q.out
}

// Run is the single worker loop. It exits when the input channel is closed
// and drained, or when ctx is cancelled.
func (q *SummarizeQueue) Run(ctx context.Context) {
	defer close(q.out)

	for {
		select {
		case content, ok := <-q.in:
			if !ok {
				return
			}
			summary, err := q.summarizer.Summarize(ctx, content)
			if err != nil {
				q.warn("article dropped", "url", content.Ref.URL, "error", err)
				continue
			}
			summary.Source = content.Ref.URL
			select {
			case q.out <- summary:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (q *SummarizeQueue) warn(msg string, args ...any) {
	if q.logger != nil {
		q.logger.Warn(msg, args...)
	}
}
