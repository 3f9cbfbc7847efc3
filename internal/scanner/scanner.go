package scanner

import (
	"context"
	"fmt"

	"NewsPress/internal/domain"
)

// Source carries a single site's scan parameters, resolved from config.
type Source struct {
	Name          string
	IndexURL      string
	FeedURL       string
	LinkSelector  string
	TitleSelector string
	BodySelector  string
	Options       map[string]string
}

// Scanner captures a single strategy implementation (lite page, RSS, etc.).
// Index enumerates the source's current article links; Extract pulls the
// text body of one of them.
type Scanner interface {
	Name() string
	Index(ctx context.Context, src Source) ([]domain.ArticleRef, error)
	Extract(ctx context.Context, src Source, ref domain.ArticleRef) (domain.ArticleContent, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
