package port

import (
	"context"

	"docinsight/internal/domain"
)

// AnalysisRecordRepository persists the history of tool runs.
type AnalysisRecordRepository interface {
	Create(ctx context.Context, rec *domain.AnalysisRecord) error
	List(ctx context.Context, tool domain.Tool, offset, limit int) ([]domain.AnalysisRecord, int, error)
}
