package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/llm"
	"docinsight/internal/port"
	"docinsight/internal/preparer"
	"docinsight/internal/prompt"
	"docinsight/internal/response"
)

const (
	stockMaxTokens   = 1000
	stockTemperature = 0.3
)

// StockInput is the DTO for one stock chat turn. History is owned by the
// caller and sent back in full on every turn.
type StockInput struct {
	Symbol   string
	Question string
	History  []domain.ChatMessage
	Model    string
	APIKey   string
}

// StockService answers questions about a ticker.
type StockService interface {
	Ask(ctx context.Context, input *StockInput) (*domain.StockAnswer, error)
}

type stockService struct {
	resolver port.ClientResolver
	policy   domain.SizePolicy
	log      *zap.Logger
}

// NewStockService creates a new StockService implementation.
func NewStockService(resolver port.ClientResolver, policy domain.SizePolicy, log *zap.Logger) StockService {
	return &stockService{resolver: resolver, policy: policy, log: log}
}

func (s *stockService) Ask(ctx context.Context, input *StockInput) (*domain.StockAnswer, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	question := strings.TrimSpace(input.Question)
	if symbol == "" || question == "" {
		return nil, domain.ErrEmptyQuery
	}

	prepared, err := preparer.Prepare(question, s.policy)
	if err != nil {
		return nil, err
	}
	history, trimmed := TrimHistory(input.History, s.policy.MaxCharacters-utf8.RuneCountInString(prepared.Text))

	client, err := s.resolver.Completion(input.APIKey)
	if err != nil {
		return nil, err
	}

	msgs := make([]port.Message, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, port.Message{Role: string(m.Role), Text: m.Content})
	}
	msgs = append(msgs, port.Message{Role: string(domain.ChatRoleUser), Text: prepared.Text})

	out, err := client.Complete(ctx, port.CompletionRequest{
		Model:       input.Model,
		System:      prompt.StockSystem(symbol),
		Messages:    msgs,
		MaxTokens:   stockMaxTokens,
		Temperature: stockTemperature,
	})
	if err != nil {
		return nil, llm.WrapError(err)
	}

	answer := &domain.StockAnswer{
		Symbol:     symbol,
		Answer:     out.Text,
		TokensUsed: out.TotalTokens,
		Trimmed:    trimmed || prepared.Truncated,
		History: append(history,
			domain.ChatMessage{Role: domain.ChatRoleUser, Content: prepared.Text},
			domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: out.Text},
		),
	}
	if html, err := response.RenderMarkdown(out.Text); err == nil {
		answer.AnswerHTML = html
	}
	if answer.Trimmed {
		s.log.Debug("stock history trimmed", zap.String("symbol", symbol), zap.Int("kept_turns", len(history)))
	}
	return answer, nil
}

// TrimHistory keeps the newest turns whose combined length fits budget
// characters, dropping the oldest first. Turns with an unknown role or no
// content are dropped. The returned slice is a fresh copy.
func TrimHistory(history []domain.ChatMessage, budget int) ([]domain.ChatMessage, bool) {
	valid := make([]domain.ChatMessage, 0, len(history))
	for _, m := range history {
		if (m.Role == domain.ChatRoleUser || m.Role == domain.ChatRoleAssistant) && strings.TrimSpace(m.Content) != "" {
			valid = append(valid, m)
		}
	}

	start := len(valid)
	used := 0
	for start > 0 {
		n := utf8.RuneCountInString(valid[start-1].Content)
		if used+n > budget {
			break
		}
		used += n
		start--
	}

	kept := make([]domain.ChatMessage, len(valid)-start)
	copy(kept, valid[start:])
	return kept, len(kept) < len(history)
}
