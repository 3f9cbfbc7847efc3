package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsPress/internal/domain"
	"NewsPress/internal/scanner"
)

// LitepageScanner indexes text-only front pages (CNN Lite, NPR Text and the
// like) and extracts article bodies through configured CSS selectors.
type LitepageScanner struct {
	client *http.Client
	logger *slog.Logger
}

var _ scanner.Scanner = (*LitepageScanner)(nil)

// NewLitepageScanner wires an HTTP client; a nil client gets a default with
// a 20 second timeout.
func NewLitepageScanner(client *http.Client, logger *slog.Logger) *LitepageScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &LitepageScanner{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (l *LitepageScanner) Name() string {
	return "litepage"
}

// Index fetches the source's front page once and resolves every matched
// link against the page URL, preserving document order.
func (l *LitepageScanner) Index(ctx context.Context, src scanner.Source) ([]domain.ArticleRef, error) {
	if src.IndexURL == "" {
		return nil, fmt.Errorf("source %s has no index url", src.Name)
	}
	if src.LinkSelector == "" {
		return nil, fmt.Errorf("source %s has no link selector", src.Name)
	}

	base, err := url.Parse(src.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("invalid index url %s: %w", src.IndexURL, err)
	}

	body, err := fetchBody(ctx, l.client, src.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", src.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}

	var refs []domain.ArticleRef
	doc.Find(src.LinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			href, ok = sel.Find("a[href]").First().Attr("href")
		}
		if !ok || href == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		refs = append(refs, domain.ArticleRef{SourceSite: src.Name, URL: resolved.String()})
	})

	return refs, nil
}

// Extract fetches one article page and returns its text content.
func (l *LitepageScanner) Extract(ctx context.Context, src scanner.Source, ref domain.ArticleRef) (domain.ArticleContent, error) {
	body, err := fetchBody(ctx, l.client, ref.URL)
	if err != nil {
		return domain.ArticleContent{}, err
	}

	text, err := extractText(body, ref.URL, src.TitleSelector, src.BodySelector)
	if err != nil {
		return domain.ArticleContent{}, err
	}

	if l.logger != nil {
		l.logger.Debug("parsed article", "url", ref.URL, "bytes", len(text))
	}

	return domain.ArticleContent{Ref: ref, FetchedAt: time.Now(), RawText: text}, nil
}
