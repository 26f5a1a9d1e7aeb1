// Package noop provides repositories that persist nothing, used when no
// database is configured.
package noop

import (
	"context"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

type analysisRecordRepo struct{}

// NewAnalysisRecordRepo returns a repository that discards records and lists none.
func NewAnalysisRecordRepo() port.AnalysisRecordRepository {
	return analysisRecordRepo{}
}

func (analysisRecordRepo) Create(context.Context, *domain.AnalysisRecord) error {
	return nil
}

func (analysisRecordRepo) List(context.Context, domain.Tool, int, int) ([]domain.AnalysisRecord, int, error) {
	return []domain.AnalysisRecord{}, 0, nil
}
