package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ArticleRef identifies one article discovered on a source's index page.
// Index is the position within the deduplicated run-wide ordering and is
// what downstream stages use to keep edition ordering reproducible.
type ArticleRef struct {
	SourceSite string
	URL        string
	Index      int
}

// ArticleContent is the raw text fetched for a ref. It exists only between
// the fetch pool and the summarization queue.
type ArticleContent struct {
	Ref       ArticleRef
	FetchedAt time.Time
	RawText   string
}

// NamedEntity describes a person, place, or organization the backend
// extracted from an article.
type NamedEntity struct {
	Name                                string `json:"name"`
	WhatIsThisEntity                    string `json:"whatIsThisEntity"`
	WhyIsThisEntityRelevantToTheArticle string `json:"whyIsThisEntityRelevantToTheArticle"`
}

// ImportantDate is a date mentioned in an article with its relevance.
type ImportantDate struct {
	DateMentionedInArticle         string `json:"dateMentionedInArticle"`
	DescriptionOfWhyDateIsRelevant string `json:"descriptionOfWhyDateIsRelevant"`
}

// ImportantTimeframe is a span of time an article deems significant.
type ImportantTimeframe struct {
	ApproximateTimeFrameStart           string `json:"approximateTimeFrameStart"`
	ApproximateTimeFrameEnd             string `json:"approximateTimeFrameEnd"`
	DescriptionOfWhyTimeFrameIsRelevant string `json:"descriptionOfWhyTimeFrameIsRelevant"`
}

// ArticleSummary is the structured record the summarization backend
// produces for one article. Field names follow the published feed schema.
type ArticleSummary struct {
	Source               string               `json:"source"`
	DateOfPublication    string               `json:"dateOfPublication"`
	TimeOfPublication    string               `json:"timeOfPublication"`
	Title                string               `json:"title"`
	Category             string               `json:"category"`
	SummaryOfNewsArticle string               `json:"summaryOfNewsArticle"`
	KeyTakeAways         []string             `json:"keyTakeAways"`
	NamedEntities        []NamedEntity        `json:"namedEntities"`
	ImportantDates       []ImportantDate      `json:"importantDates"`
	ImportantTimeframes  []ImportantTimeframe `json:"importantTimeframes"`
	Tags                 []string             `json:"tags"`
	Content              string               `json:"content,omitempty"`
}

// Validate checks the fields the feed contract requires on every entry.
func (a ArticleSummary) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("summary missing title")
	}
	if strings.TrimSpace(a.SummaryOfNewsArticle) == "" {
		return fmt.Errorf("summary missing summaryOfNewsArticle")
	}
	return nil
}

// SourceTag extracts the registrable label from the source URL host, e.g.
// "https://lite.cnn.com/x" -> "cnn". Empty when the URL has no usable host.
func (a ArticleSummary) SourceTag() string {
	parsed, err := url.Parse(a.Source)
	if err != nil {
		return ""
	}
	host := parsed.Hostname()
	if host == "" {
		return ""
	}
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
