package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
	"docinsight/internal/service"
)

// MockInsightService is a mock implementation of service.InsightService.
type MockInsightService struct {
	mock.Mock
}

func (m *MockInsightService) AnalyzeFiles(ctx context.Context, input *service.InsightInput) (*domain.InsightBatch, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InsightBatch), args.Error(1)
}

// MockQualityService is a mock implementation of service.QualityService.
type MockQualityService struct {
	mock.Mock
}

func (m *MockQualityService) Score(ctx context.Context, input *service.QualityInput) (*domain.QualityReport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QualityReport), args.Error(1)
}

// MockCategorizeService is a mock implementation of service.CategorizeService.
type MockCategorizeService struct {
	mock.Mock
}

func (m *MockCategorizeService) Categorize(ctx context.Context, input *service.CategorizeInput) ([]domain.CategoryResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryResult), args.Error(1)
}

// MockAvatarService is a mock implementation of service.AvatarService.
type MockAvatarService struct {
	mock.Mock
}

func (m *MockAvatarService) Generate(ctx context.Context, input *service.AvatarInput) (*domain.AvatarResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvatarResult), args.Error(1)
}

// MockStockService is a mock implementation of service.StockService.
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) Ask(ctx context.Context, input *service.StockInput) (*domain.StockAnswer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockAnswer), args.Error(1)
}

// MockHistoryService is a mock implementation of service.HistoryService.
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) List(ctx context.Context, tool string, offset, limit int) ([]domain.AnalysisRecord, int, error) {
	args := m.Called(ctx, tool, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AnalysisRecord), args.Int(1), args.Error(2)
}
