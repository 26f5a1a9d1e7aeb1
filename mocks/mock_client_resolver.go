package mocks

import (
	"github.com/stretchr/testify/mock"

	"docinsight/internal/port"
)

// MockClientResolver is a mock implementation of port.ClientResolver.
type MockClientResolver struct {
	mock.Mock
}

func (m *MockClientResolver) Completion(apiKey string) (port.CompletionClient, error) {
	args := m.Called(apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.CompletionClient), args.Error(1)
}

func (m *MockClientResolver) Images(apiKey string) (port.ImageGenerator, error) {
	args := m.Called(apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.ImageGenerator), args.Error(1)
}
