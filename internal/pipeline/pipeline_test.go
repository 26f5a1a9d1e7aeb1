package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docinsight/internal/domain"
	"docinsight/internal/extractor"
	"docinsight/internal/llm"
	"docinsight/internal/pipeline"
	"docinsight/internal/port"
	"docinsight/internal/preparer"
	"docinsight/mocks"
)

func echoBuilder(src domain.ExtractedDocument, doc domain.PreparedDocument) port.CompletionRequest {
	return port.CompletionRequest{
		System:   "sys",
		Messages: []port.Message{{Role: "user", Text: src.FileName + ":" + doc.Text}},
	}
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(extractor.NewRegistry(extractor.Config{}), preparer.HeuristicEstimator{}, nil)
}

func TestRun_ExtractsPreparesAndInvokes(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(r port.CompletionRequest) bool {
		return r.Messages[0].Text == "notes.txt:hello world"
	})).Return(&port.CompletionResponse{Text: "insight", TotalTokens: 9}, nil)

	res, err := newPipeline().Run(context.Background(), client, pipeline.Request{
		File:   &domain.UploadedFile{Name: "notes.txt", Data: []byte("hello world")},
		Policy: domain.SizePolicy{MaxCharacters: 100, MaxTokens: 50},
		Build:  echoBuilder,
	})

	require.NoError(t, err)
	assert.Equal(t, "insight", res.Completion.Text)
	assert.False(t, res.Prepared.Truncated)
	assert.Equal(t, 3, res.Advisory.EstimatedTokens)
	assert.Empty(t, res.Warning())
	client.AssertExpectations(t)
}

func TestRun_TruncatesToPolicy(t *testing.T) {
	text := strings.Repeat("A", 100) + ". " + strings.Repeat("B", 50)
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(r port.CompletionRequest) bool {
		return r.Messages[0].Text == "pasted:"+strings.Repeat("A", 100)+"."
	})).Return(&port.CompletionResponse{Text: "ok"}, nil)

	res, err := newPipeline().Run(context.Background(), client, pipeline.Request{
		Text:   text,
		Name:   "pasted",
		Policy: domain.SizePolicy{MaxCharacters: 120},
		Build:  echoBuilder,
	})

	require.NoError(t, err)
	assert.True(t, res.Prepared.Truncated)
	assert.Equal(t, preparer.TruncationWarning, res.Warning())
	assert.Equal(t, 152, res.Prepared.OriginalChars)
	client.AssertExpectations(t)
}

func TestRun_ExtractionErrorStopsBeforeModel(t *testing.T) {
	client := new(mocks.MockCompletionClient)

	_, err := newPipeline().Run(context.Background(), client, pipeline.Request{
		File:   &domain.UploadedFile{Name: "archive.zip", Data: []byte("PK")},
		Policy: domain.SizePolicy{MaxCharacters: 100},
		Build:  echoBuilder,
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestRun_InvalidPolicy(t *testing.T) {
	client := new(mocks.MockCompletionClient)

	_, err := newPipeline().Run(context.Background(), client, pipeline.Request{
		Text:   "x",
		Policy: domain.SizePolicy{MaxCharacters: 0},
		Build:  echoBuilder,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidPolicy)
}

func TestRun_ModelFailureReturnsPartialResult(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	res, err := newPipeline().Run(context.Background(), client, pipeline.Request{
		Text:   "some text",
		Policy: domain.SizePolicy{MaxCharacters: 100},
		Build:  echoBuilder,
	})

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	require.NotNil(t, res)
	assert.Equal(t, "some text", res.Prepared.Text)
	assert.Nil(t, res.Completion)
}

func TestRun_RateLimitPassesThrough(t *testing.T) {
	client := new(mocks.MockCompletionClient)
	client.On("Complete", mock.Anything, mock.Anything).Return(nil, llm.NewRateLimitError("openai", errors.New("429"), 5))

	_, err := newPipeline().Run(context.Background(), client, pipeline.Request{
		Text:   "some text",
		Policy: domain.SizePolicy{MaxCharacters: 100},
		Build:  echoBuilder,
	})

	assert.ErrorIs(t, err, domain.ErrLLMRateLimited)
	assert.NotErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestRun_RequiresBuilder(t *testing.T) {
	_, err := newPipeline().Run(context.Background(), new(mocks.MockCompletionClient), pipeline.Request{
		Text:   "x",
		Policy: domain.SizePolicy{MaxCharacters: 10},
	})

	assert.Error(t, err)
}

func TestPrepare_FlagsTokenBudget(t *testing.T) {
	res, err := newPipeline().Prepare(pipeline.Request{
		Text:   strings.Repeat("word ", 40),
		Policy: domain.SizePolicy{MaxCharacters: 1000, MaxTokens: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, 50, res.Advisory.EstimatedTokens)
	assert.True(t, res.Advisory.ExceedsTokenBudget)
}
