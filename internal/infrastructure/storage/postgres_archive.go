package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsPress/internal/domain"
	"NewsPress/internal/ports"
)

// PostgresArchive records every published article row for operator history.
// It is optional: a nil receiver or nil db makes every call a no-op, the
// pipeline treats write failures as diagnostics only.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.EditionArchive = (*PostgresArchive)(nil)

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveArticle upserts one published article keyed by edition and URL, so
// re-running a merge or rebuilding an edition never duplicates rows.
func (a *PostgresArchive) SaveArticle(ctx context.Context, runID string, key domain.EditionKey, article domain.ArticleSummary) error {
	if a == nil || a.db == nil {
		return nil
	}

	query, args, err := a.insertArticle(runID, key, article).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert edition article: %w", err)
	}
	return nil
}

func (a *PostgresArchive) insertArticle(runID string, key domain.EditionKey, article domain.ArticleSummary) sq.InsertBuilder {
	return a.builder.
		Insert("edition_articles").
		Columns("run_id", "local_date", "time_of_day", "source", "title", "category").
		Values(runID, key.LocalDate, string(key.TimeOfDay), article.Source, article.Title, article.Category).
		Suffix("ON CONFLICT (local_date, time_of_day, source) DO UPDATE SET title = EXCLUDED.title, category = EXCLUDED.category, updated_at = NOW()")
}

// EditionCount reports how many articles the archive holds for a key.
func (a *PostgresArchive) EditionCount(ctx context.Context, key domain.EditionKey) (int, error) {
	if a == nil || a.db == nil {
		return 0, nil
	}

	query, args, err := a.builder.
		Select("COUNT(*)").
		From("edition_articles").
		Where(sq.Eq{"local_date": key.LocalDate, "time_of_day": string(key.TimeOfDay)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count edition articles: %w", err)
	}
	return count, nil
}
