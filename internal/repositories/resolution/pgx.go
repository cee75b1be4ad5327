package resolution

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/tiktok-downloader/internal/domain"
	"github.com/orgball2608/tiktok-downloader/internal/repositories"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
)

const table = "resolutions"

var columns = []string{"session_key", "input_url", "outcome", "http_status", "stale", "duration_ms", "created_at"}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("ResolutionRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func insertQuery(r domain.Resolution) (string, []any, error) {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return repositories.SqBuilder.
		Insert(table).
		Columns(columns...).
		Values(r.SessionKey, r.InputURL, string(r.Outcome), r.HTTPStatus, r.Stale, r.Duration.Milliseconds(), createdAt).
		ToSql()
}

func listQuery(limit int) (string, []any, error) {
	if limit <= 0 {
		limit = 50
	}
	return repositories.SqBuilder.
		Select(append([]string{"id"}, columns...)...).
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
}

func cleanupQuery(cutoff time.Time) (string, []any, error) {
	return repositories.SqBuilder.
		Delete(table).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
}

// Create adds a resolution record
func (p *Pgx) Create(ctx context.Context, r domain.Resolution) error {
	query, args, err := insertQuery(r)
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

// ListRecent returns the most recent records
func (p *Pgx) ListRecent(ctx context.Context, limit int) ([]*domain.Resolution, error) {
	query, args, err := listQuery(limit)
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.Resolution
	for rows.Next() {
		var (
			r          domain.Resolution
			outcome    string
			durationMS int64
		)
		if err := rows.Scan(&r.ID, &r.SessionKey, &r.InputURL, &outcome, &r.HTTPStatus, &r.Stale, &durationMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Outcome = domain.Outcome(outcome)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CleanupOldRecords deletes records older than the specified duration
func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := cleanupQuery(time.Now().Add(-olderThan))
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	p.logger.Info("Old resolutions removed", "count", result.RowsAffected(), "olderThan", olderThan.String())
	return result.RowsAffected(), nil
}
