package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"NewsPress/internal/config"
	"NewsPress/internal/infrastructure/llm"
	"NewsPress/internal/infrastructure/markdown"
	"NewsPress/internal/infrastructure/parser"
	"NewsPress/internal/infrastructure/scheduler"
	"NewsPress/internal/infrastructure/storage"
	"NewsPress/internal/ports"
	"NewsPress/internal/scanner"
	"NewsPress/internal/usecase"
)

// Options carries the run parameters chosen on the command line.
type Options struct {
	JSONDir     string
	MarkdownDir string
	Cron        string
}

// App assembles the adapters around the edition pipeline and runs it either
// once or on a cron schedule.
type App struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler ports.Scheduler
	db        *sql.DB
}

// New wires scanners, summarizer, stores and the optional archive from
// configuration.
func New(cfg config.Config, opts Options, logger *slog.Logger) (*App, error) {
	if opts.JSONDir == "" || opts.MarkdownDir == "" {
		return nil, fmt.Errorf("both json and markdown output directories are required")
	}

	client := &http.Client{Timeout: cfg.Fetch.Timeout()}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewLitepageScanner(client, logger))
	registry.Register(parser.NewRSSScanner(client, logger))
	source := parser.NewStrategySource(registry, cfg.Sources, logger)

	summarizer, err := llm.NewSummarizer(cfg.Summarizer, logger)
	if err != nil {
		return nil, fmt.Errorf("build summarizer: %w", err)
	}

	var archive ports.EditionArchive
	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Warn("edition archive disabled", "error", err)
		} else {
			archive = storage.NewPostgresArchive(db)
		}
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Fetcher:     source,
		Summarizer:  summarizer,
		Feed:        storage.NewFeedStore(opts.JSONDir, logger),
		Tree:        markdown.NewTree(opts.MarkdownDir, cfg.Edition.Title, logger),
		Archive:     archive,
		Concurrency: cfg.Fetch.Concurrency,
		Logger:      logger,
	})

	expression := opts.Cron
	if expression == "" {
		expression = cfg.Scheduler.CronExpression
	}
	var sched ports.Scheduler
	if expression != "" {
		sched = scheduler.NewCronScheduler(expression, cfg.Scheduler.Location(), logger)
	}

	return &App{
		cfg:       cfg,
		logger:    logger,
		pipeline:  pipeline,
		scheduler: sched,
		db:        db,
	}, nil
}

// Run executes a single edition build, or blocks running builds on the
// configured schedule until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	location := a.cfg.Scheduler.Location()

	if a.scheduler == nil {
		return a.pipeline.BuildEdition(ctx, time.Now().In(location))
	}

	err := a.scheduler.Start(ctx, func(scheduledAt time.Time) {
		if buildErr := a.pipeline.BuildEdition(ctx, scheduledAt); buildErr != nil {
			a.logger.Error("edition build failed", "error", buildErr)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.scheduler.Stop(stopCtx)
}

// Close releases the archive connection if one was opened.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
