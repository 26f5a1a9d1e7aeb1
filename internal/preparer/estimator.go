package preparer

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// DefaultEncoding is used when no encoding or model name is configured.
const DefaultEncoding = "cl100k_base"

// Estimator gives a best-effort size of text in model tokens. Results are
// advisory only.
type Estimator interface {
	EstimateSize(text string) int
}

// HeuristicEstimator approximates one token per four characters.
type HeuristicEstimator struct{}

// EstimateSize returns ceil(chars / 4).
func (HeuristicEstimator) EstimateSize(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}

// TiktokenEstimator counts BPE tokens with a tiktoken encoding.
type TiktokenEstimator struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTiktokenEstimator loads the named encoding, or the encoding of the named
// model when modelOrEncoding is not an encoding name.
func NewTiktokenEstimator(modelOrEncoding string) (*TiktokenEstimator, error) {
	if modelOrEncoding == "" {
		modelOrEncoding = DefaultEncoding
	}

	tke, err := tiktoken.GetEncoding(modelOrEncoding)
	if err == nil {
		return &TiktokenEstimator{encoding: modelOrEncoding, tke: tke}, nil
	}

	tke, modelErr := tiktoken.EncodingForModel(modelOrEncoding)
	if modelErr != nil {
		return nil, fmt.Errorf("loading tiktoken encoding %q: %w", modelOrEncoding, err)
	}
	return &TiktokenEstimator{encoding: modelOrEncoding, tke: tke}, nil
}

// EstimateSize returns the number of tokens in text.
func (e *TiktokenEstimator) EstimateSize(text string) int {
	if text == "" {
		return 0
	}
	return len(e.tke.Encode(text, nil, nil))
}

// NewEstimator returns a tiktoken estimator, or the heuristic when the
// encoding cannot be loaded (tiktoken fetches BPE ranks on first use).
func NewEstimator(modelOrEncoding string, logger *zap.Logger) Estimator {
	est, err := NewTiktokenEstimator(modelOrEncoding)
	if err != nil {
		logger.Warn("token estimator falling back to chars/4 heuristic",
			zap.String("encoding", modelOrEncoding), zap.Error(err))
		return HeuristicEstimator{}
	}
	return est
}
