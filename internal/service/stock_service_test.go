package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/port"
	"docinsight/internal/service"
	"docinsight/mocks"
)

func TestStockService_Ask_Success(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(r port.CompletionRequest) bool {
		return strings.Contains(r.System, "AAPL") && len(r.Messages) == 3 &&
			r.Messages[2].Role == "user" && r.Messages[2].Text == "What about margins?"
	})).Return(&port.CompletionResponse{Text: "Margins are **high**.", TotalTokens: 42}, nil)

	svc := service.NewStockService(resolverFor(client), domain.SizePolicy{MaxCharacters: 12000}, zap.NewNop())

	ans, err := svc.Ask(context.Background(), &service.StockInput{
		Symbol:   " aapl ",
		Question: "What about margins?",
		History: []domain.ChatMessage{
			{Role: domain.ChatRoleUser, Content: "How is Apple doing?"},
			{Role: domain.ChatRoleAssistant, Content: "Revenue is stable."},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "AAPL", ans.Symbol)
	assert.Equal(t, "Margins are **high**.", ans.Answer)
	assert.Contains(t, ans.AnswerHTML, "<strong>high</strong>")
	assert.Equal(t, 42, ans.TokensUsed)
	assert.False(t, ans.Trimmed)
	require.Len(t, ans.History, 4)
	assert.Equal(t, domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: "Margins are **high**."}, ans.History[3])
}

func TestStockService_Ask_TrimsOldestHistory(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(r port.CompletionRequest) bool {
		return len(r.Messages) == 2 && r.Messages[0].Text == strings.Repeat("b", 40)
	})).Return(&port.CompletionResponse{Text: "ok"}, nil)

	svc := service.NewStockService(resolverFor(client), domain.SizePolicy{MaxCharacters: 60}, zap.NewNop())

	ans, err := svc.Ask(context.Background(), &service.StockInput{
		Symbol:   "MSFT",
		Question: "Why?",
		History: []domain.ChatMessage{
			{Role: domain.ChatRoleUser, Content: strings.Repeat("a", 40)},
			{Role: domain.ChatRoleAssistant, Content: strings.Repeat("b", 40)},
		},
	})

	require.NoError(t, err)
	assert.True(t, ans.Trimmed)
	assert.Len(t, ans.History, 3)
	client.AssertExpectations(t)
}

func TestStockService_Ask_EmptyQuery(t *testing.T) {
	svc := service.NewStockService(new(mocks.MockClientResolver), domain.SizePolicy{MaxCharacters: 100}, zap.NewNop())

	_, err := svc.Ask(context.Background(), &service.StockInput{Symbol: "AAPL", Question: "  "})
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	_, err = svc.Ask(context.Background(), &service.StockInput{Question: "Price?"})
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestTrimHistory(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "12345"},
		{Role: "system", Content: "ignored"},
		{Role: domain.ChatRoleAssistant, Content: "123"},
		{Role: domain.ChatRoleUser, Content: "12"},
	}

	kept, trimmed := service.TrimHistory(history, 5)

	assert.True(t, trimmed)
	assert.Equal(t, []domain.ChatMessage{
		{Role: domain.ChatRoleAssistant, Content: "123"},
		{Role: domain.ChatRoleUser, Content: "12"},
	}, kept)

	all, trimmed := service.TrimHistory(history[:1], 100)
	assert.False(t, trimmed)
	assert.Len(t, all, 1)

	none, _ := service.TrimHistory(history, -3)
	assert.Empty(t, none)
}
