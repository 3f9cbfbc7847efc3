package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"NewsPress/internal/ports"
)

// CronScheduler triggers edition builds on a cron expression, evaluated in
// the configured timezone so edition keys match the publication's clock.
type CronScheduler struct {
	expression string
	location   *time.Location
	logger     *slog.Logger
	runner     *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for the given expression and location.
func NewCronScheduler(expression string, location *time.Location, logger *slog.Logger) *CronScheduler {
	if location == nil {
		location = time.UTC
	}
	return &CronScheduler{
		expression: expression,
		location:   location,
		logger:     logger,
	}
}

// Start registers the job and begins the cron loop. The job receives the
// scheduled wall-clock time so a run straddling midnight still publishes
// under the edition it was scheduled for.
func (s *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if s.expression == "" {
		return fmt.Errorf("empty cron expression")
	}

	s.runner = cron.New(
		cron.WithLocation(s.location),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	if _, err := s.runner.AddFunc(s.expression, func() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		job(time.Now().In(s.location))
	}); err != nil {
		return fmt.Errorf("register cron job %q: %w", s.expression, err)
	}

	s.runner.Start()
	if s.logger != nil {
		s.logger.Info("scheduler started", "expression", s.expression, "timezone", s.location.String())
	}
	return nil
}

// Stop halts scheduling and waits for an in-flight run to finish, or for
// the context to expire.
func (s *CronScheduler) Stop(ctx context.Context) error {
	if s.runner == nil {
		return nil
	}

	done := s.runner.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.logger != nil {
		s.logger.Info("scheduler stopped")
	}
	return nil
}
