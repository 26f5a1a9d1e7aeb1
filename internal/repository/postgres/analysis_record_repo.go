package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

type analysisRecordRepo struct {
	db *sqlx.DB
}

// NewAnalysisRecordRepo creates a new PostgreSQL-backed AnalysisRecordRepository.
func NewAnalysisRecordRepo(db *sqlx.DB) port.AnalysisRecordRepository {
	return &analysisRecordRepo{db: db}
}

func (r *analysisRecordRepo) Create(ctx context.Context, rec *domain.AnalysisRecord) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO analysis_records (id, tool, file_name, model, truncated, tokens_used, succeeded, summary, created_at)
		 VALUES (:id, :tool, :file_name, :model, :truncated, :tokens_used, :succeeded, :summary, :created_at)`,
		rec)
	if err != nil {
		return fmt.Errorf("analysisRecordRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRecordRepo) List(ctx context.Context, tool domain.Tool, offset, limit int) ([]domain.AnalysisRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM analysis_records WHERE ($1::text = '' OR tool = $1)`,
		string(tool))
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRecordRepo.List count: %w", err)
	}

	records := []domain.AnalysisRecord{}
	err = r.db.SelectContext(ctx, &records,
		`SELECT id, tool, file_name, model, truncated, tokens_used, succeeded, summary, created_at
		 FROM analysis_records
		 WHERE ($1::text = '' OR tool = $1)
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		string(tool), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRecordRepo.List: %w", err)
	}
	return records, total, nil
}
