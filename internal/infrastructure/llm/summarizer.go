package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"NewsPress/internal/config"
	"NewsPress/internal/domain"
	"NewsPress/internal/ports"
)

const (
	defaultMaxAttempts = 3
	baseBackoff        = time.Second
	maxBackoff         = 30 * time.Second
)

// Summarizer talks to an OpenAI-compatible chat completions backend and
// parses its response into the edition's article schema. The backend has no
// safe concurrent-request semantics; serialization is the caller's job (see
// the summarization queue), this client only handles one call's lifecycle.
type Summarizer struct {
	endpoint    string
	model       string
	apiKey      string
	template    string
	maxAttempts int
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ ports.Summarizer = (*Summarizer)(nil)

// NewSummarizer builds a client from configuration, loading the instruction
// template up front so a bad path fails at startup rather than mid-run.
func NewSummarizer(cfg config.SummarizerConfig, logger *slog.Logger) (*Summarizer, error) {
	if cfg.Endpoint == "" || cfg.Model == "" {
		return nil, fmt.Errorf("summarizer misconfigured: endpoint and model are required")
	}

	template, err := LoadTemplate(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}

	return &Summarizer{
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		template:    template,
		maxAttempts: maxAttempts,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		logger:      logger,
	}, nil
}

// Summarize submits one article's raw text and returns the parsed summary.
// Transient failures and malformed output are retried with exponential
// backoff up to the configured attempt count, then surfaced so the caller
// can drop the article.
func (s *Summarizer) Summarize(ctx context.Context, content domain.ArticleContent) (domain.ArticleSummary, error) {
	var lastErr error
	backoff := baseBackoff

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		summary, err := s.ask(ctx, content.RawText)
		if err == nil {
			return summary, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return domain.ArticleSummary{}, ctx.Err()
		}

		if attempt < s.maxAttempts {
			s.warn("summarize attempt failed", "url", content.Ref.URL, "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return domain.ArticleSummary{}, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}

	return domain.ArticleSummary{}, fmt.Errorf("summarize after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *Summarizer) ask(ctx context.Context, text string) (domain.ArticleSummary, error) {
	body, err := json.Marshal(map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": s.template},
			{"role": "user", "content": text},
		},
	})
	if err != nil {
		return domain.ArticleSummary{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ArticleSummary{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.ArticleSummary{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.ArticleSummary{}, fmt.Errorf("backend error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.ArticleSummary{}, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.ArticleSummary{}, fmt.Errorf("response has no choices")
	}

	raw := stripCodeFence(completion.Choices[0].Message.Content)

	var summary domain.ArticleSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return domain.ArticleSummary{}, fmt.Errorf("parse summary json: %w", err)
	}
	if err := summary.Validate(); err != nil {
		return domain.ArticleSummary{}, fmt.Errorf("schema violation: %w", err)
	}

	return summary, nil
}

// stripCodeFence unwraps ```json fenced blocks some models emit despite the
// template's instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (s *Summarizer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
