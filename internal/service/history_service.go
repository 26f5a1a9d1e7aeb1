package service

import (
	"context"
	"fmt"
	"strings"

	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// HistoryService lists recorded tool runs.
type HistoryService interface {
	List(ctx context.Context, tool string, offset, limit int) ([]domain.AnalysisRecord, int, error)
}

type historyService struct {
	repo port.AnalysisRecordRepository
}

// NewHistoryService creates a new HistoryService implementation.
func NewHistoryService(repo port.AnalysisRecordRepository) HistoryService {
	return &historyService{repo: repo}
}

// List returns records newest first. An empty tool lists every tool.
func (s *historyService) List(ctx context.Context, tool string, offset, limit int) ([]domain.AnalysisRecord, int, error) {
	t := domain.Tool(strings.ToLower(strings.TrimSpace(tool)))
	if t != "" && !domain.ValidTools[t] {
		return nil, 0, fmt.Errorf("%q: %w", tool, domain.ErrInvalidTool)
	}
	return s.repo.List(ctx, t, offset, limit)
}
