package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"cdp-query/internal/domain"
)

type AnalysisLogRepository interface {
	Create(ctx context.Context, entry domain.AnalysisLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.AnalysisLog, error)
	CountByMethod(ctx context.Context) (map[string]int64, error)
}

type PgAnalysisLogRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnalysisLogRepository(pool *pgxpool.Pool) *PgAnalysisLogRepository {
	return &PgAnalysisLogRepository{pool: pool}
}

func (r *PgAnalysisLogRepository) Create(ctx context.Context, entry domain.AnalysisLog) error {
	const query = `
		INSERT INTO analysis_logs (id, request_id, query, analysis_method, column_count, processing_ms, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.RequestID,
		entry.Query,
		entry.AnalysisMethod,
		entry.ColumnCount,
		entry.ProcessingMs,
		entry.Result,
		entry.CreatedAt,
	)
	return err
}

func (r *PgAnalysisLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.AnalysisLog, error) {
	const query = `
		SELECT id, request_id, query, analysis_method, column_count, processing_ms, result, created_at
		FROM analysis_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.AnalysisLog
	for rows.Next() {
		var l domain.AnalysisLog
		if err := rows.Scan(
			&l.ID,
			&l.RequestID,
			&l.Query,
			&l.AnalysisMethod,
			&l.ColumnCount,
			&l.ProcessingMs,
			&l.Result,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PgAnalysisLogRepository) CountByMethod(ctx context.Context) (map[string]int64, error) {
	const query = `
		SELECT analysis_method, COUNT(*)
		FROM analysis_logs
		GROUP BY analysis_method
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var method string
		var n int64
		if err := rows.Scan(&method, &n); err != nil {
			return nil, err
		}
		counts[method] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
