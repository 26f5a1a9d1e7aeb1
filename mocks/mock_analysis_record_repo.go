package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
)

// MockAnalysisRecordRepo is a mock implementation of port.AnalysisRecordRepository.
type MockAnalysisRecordRepo struct {
	mock.Mock
}

func (m *MockAnalysisRecordRepo) Create(ctx context.Context, rec *domain.AnalysisRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAnalysisRecordRepo) List(ctx context.Context, tool domain.Tool, offset, limit int) ([]domain.AnalysisRecord, int, error) {
	args := m.Called(ctx, tool, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AnalysisRecord), args.Int(1), args.Error(2)
}
