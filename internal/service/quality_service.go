package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/pipeline"
	"docinsight/internal/port"
	"docinsight/internal/prompt"
	"docinsight/internal/response"
)

const (
	qualityMaxTokens   = 1500
	qualityTemperature = 0.2
)

// QualityInput is the DTO for scoring one document.
type QualityInput struct {
	File     domain.UploadedFile
	Criteria []string
	Model    string
	APIKey   string
}

// QualityService scores documents against caller-supplied criteria.
type QualityService interface {
	Score(ctx context.Context, input *QualityInput) (*domain.QualityReport, error)
}

type qualityService struct {
	pipe     *pipeline.Pipeline
	resolver port.ClientResolver
	history  *recorder
	policy   domain.SizePolicy
	log      *zap.Logger
}

// NewQualityService creates a new QualityService implementation.
func NewQualityService(
	pipe *pipeline.Pipeline,
	resolver port.ClientResolver,
	repo port.AnalysisRecordRepository,
	policy domain.SizePolicy,
	log *zap.Logger,
) QualityService {
	return &qualityService{
		pipe:     pipe,
		resolver: resolver,
		history:  newRecorder(repo, log),
		policy:   policy,
		log:      log,
	}
}

func (s *qualityService) Score(ctx context.Context, input *QualityInput) (*domain.QualityReport, error) {
	criteria := NormalizeCriteria(input.Criteria)
	if len(criteria) == 0 {
		return nil, domain.ErrNoCriteria
	}
	client, err := s.resolver.Completion(input.APIKey)
	if err != nil {
		return nil, err
	}

	res, err := s.pipe.Run(ctx, client, pipeline.Request{
		File:   &input.File,
		Policy: s.policy,
		Build: func(src domain.ExtractedDocument, doc domain.PreparedDocument) port.CompletionRequest {
			return port.CompletionRequest{
				Model:       input.Model,
				System:      prompt.QualitySystem,
				Messages:    []port.Message{{Role: string(domain.ChatRoleUser), Text: prompt.Quality(src.FileName, criteria, doc.Text)}},
				MaxTokens:   qualityMaxTokens,
				Temperature: qualityTemperature,
				JSONMode:    true,
			}
		},
	})
	if err != nil {
		if res != nil {
			s.history.record(ctx, domain.AnalysisRecord{
				Tool:      domain.ToolQuality,
				FileName:  input.File.Name,
				Model:     input.Model,
				Truncated: res.Prepared.Truncated,
				Summary:   summarize(err.Error(), 200),
			})
		}
		return nil, err
	}

	report := response.ParseQualityReport(res.Completion.Text)
	report.FileName = input.File.Name
	report.Truncated = res.Prepared.Truncated
	report.Warning = res.Warning()
	report.EstimatedTokens = res.Advisory.EstimatedTokens
	report.TokensUsed = res.Completion.TotalTokens
	if report.Malformed {
		s.log.Warn("quality reply was not valid JSON",
			zap.String("file", input.File.Name),
			zap.Int("reply_chars", len(res.Completion.Text)))
	}

	summary := report.Summary
	if report.Malformed {
		summary = "unparseable reply"
	}
	s.history.record(ctx, domain.AnalysisRecord{
		Tool:       domain.ToolQuality,
		FileName:   input.File.Name,
		Model:      res.Completion.Model,
		Truncated:  report.Truncated,
		TokensUsed: report.TokensUsed,
		Succeeded:  !report.Malformed,
		Summary:    summarize(summary, 200),
	})
	return &report, nil
}

// NormalizeCriteria trims criteria, drops blanks and removes case-insensitive
// duplicates while keeping the first spelling and the original order.
func NormalizeCriteria(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
