package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsPress/internal/domain"
	"NewsPress/internal/scanner"
)

// RSSScanner treats a source's feed as its index page. Item links are
// fetched and extracted like any other article.
type RSSScanner struct {
	parser *gofeed.Parser
	client *http.Client
	logger *slog.Logger
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner builds the strategy around a shared HTTP client.
func NewRSSScanner(client *http.Client, logger *slog.Logger) *RSSScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &RSSScanner{parser: parser, client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

// Index parses the feed once and returns item links in feed order.
func (r *RSSScanner) Index(ctx context.Context, src scanner.Source) ([]domain.ArticleRef, error) {
	feedURL := src.FeedURL
	if feedURL == "" {
		feedURL = src.IndexURL
	}
	if feedURL == "" {
		return nil, fmt.Errorf("source %s has no feed url", src.Name)
	}

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	refs := make([]domain.ArticleRef, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		refs = append(refs, domain.ArticleRef{SourceSite: src.Name, URL: item.Link})
	}

	return refs, nil
}

// Extract fetches one linked article and returns its text content. Body
// selectors are optional for feeds; without them the page goes straight
// through readability.
func (r *RSSScanner) Extract(ctx context.Context, src scanner.Source, ref domain.ArticleRef) (domain.ArticleContent, error) {
	body, err := fetchBody(ctx, r.client, ref.URL)
	if err != nil {
		return domain.ArticleContent{}, err
	}

	text, err := extractText(body, ref.URL, src.TitleSelector, src.BodySelector)
	if err != nil {
		return domain.ArticleContent{}, err
	}

	if r.logger != nil {
		r.logger.Debug("parsed feed article", "url", ref.URL, "bytes", len(text))
	}

	return domain.ArticleContent{Ref: ref, FetchedAt: time.Now(), RawText: text}, nil
}
