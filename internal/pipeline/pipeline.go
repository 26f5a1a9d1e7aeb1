// Package pipeline runs the stages shared by every document tool:
// extract, prepare, assess, build the prompt and invoke the model.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/llm"
	"docinsight/internal/port"
	"docinsight/internal/preparer"
)

// DocumentExtractor turns an uploaded file into text.
type DocumentExtractor interface {
	Extract(fileName string, data []byte) (domain.ExtractedDocument, error)
}

// PromptBuilder turns a prepared document into the request sent to the model.
type PromptBuilder func(src domain.ExtractedDocument, doc domain.PreparedDocument) port.CompletionRequest

// Request describes one pipeline run. Exactly one of File or Text is used;
// File wins when both are set.
type Request struct {
	File   *domain.UploadedFile
	Text   string
	Name   string // display name for Text input
	Policy domain.SizePolicy
	Build  PromptBuilder
}

// Result carries the output of every stage.
type Result struct {
	Source     domain.ExtractedDocument
	Prepared   domain.PreparedDocument
	Advisory   domain.SizeAdvisory
	Completion *port.CompletionResponse
}

// Warning returns the user-facing truncation notice, or "" when the whole
// document was sent.
func (r *Result) Warning() string {
	if r.Prepared.Truncated {
		return preparer.TruncationWarning
	}
	return ""
}

// Pipeline is stateless apart from its collaborators and safe for concurrent use.
type Pipeline struct {
	extractor DocumentExtractor
	estimator preparer.Estimator
	log       *zap.Logger
}

// New creates a Pipeline.
func New(extractor DocumentExtractor, estimator preparer.Estimator, log *zap.Logger) *Pipeline {
	if estimator == nil {
		estimator = preparer.HeuristicEstimator{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{extractor: extractor, estimator: estimator, log: log}
}

// Prepare runs the extract, prepare and assess stages without calling the model.
func (p *Pipeline) Prepare(req Request) (*Result, error) {
	src, err := p.source(req)
	if err != nil {
		return nil, err
	}

	prepared, err := preparer.Prepare(src.Text, req.Policy)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Source:   src,
		Prepared: prepared,
		Advisory: preparer.Assess(prepared.Text, req.Policy, p.estimator),
	}
	if prepared.Truncated {
		p.log.Info("document truncated",
			zap.String("file", src.FileName),
			zap.Int("original_chars", prepared.OriginalChars),
			zap.Int("max_characters", req.Policy.MaxCharacters))
	}
	if res.Advisory.ExceedsTokenBudget {
		p.log.Warn("prepared document exceeds token budget",
			zap.String("file", src.FileName),
			zap.Int("estimated_tokens", res.Advisory.EstimatedTokens),
			zap.Int("max_tokens", req.Policy.MaxTokens))
	}
	return res, nil
}

// Run executes every stage. When the model call fails the partial result is
// returned alongside the error.
func (p *Pipeline) Run(ctx context.Context, client port.CompletionClient, req Request) (*Result, error) {
	if req.Build == nil {
		return nil, fmt.Errorf("pipeline: no prompt builder")
	}

	res, err := p.Prepare(req)
	if err != nil {
		return nil, err
	}

	out, err := client.Complete(ctx, req.Build(res.Source, res.Prepared))
	if err != nil {
		return res, llm.WrapError(err)
	}
	if out.Truncated {
		p.log.Debug("model output hit token limit", zap.String("file", res.Source.FileName))
	}
	res.Completion = out
	return res, nil
}

func (p *Pipeline) source(req Request) (domain.ExtractedDocument, error) {
	if req.File == nil {
		return domain.ExtractedDocument{FileName: req.Name, FileType: domain.FileTypeTXT, Text: req.Text}, nil
	}
	return p.extractor.Extract(req.File.Name, req.File.Data)
}
