package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docinsight/internal/domain"
	"docinsight/internal/pipeline"
	"docinsight/internal/port"
	"docinsight/internal/prompt"
	"docinsight/internal/report"
	"docinsight/internal/response"
)

const (
	insightMaxTokens   = 2000
	insightTemperature = 0.1
)

// InsightInput is the DTO for one insights run.
type InsightInput struct {
	Files        []domain.UploadedFile
	AnalysisType string
	CustomPrompt string
	Model        string
	APIKey       string
}

// InsightConfig holds insights settings.
type InsightConfig struct {
	Policy        domain.SizePolicy
	Concurrency   int
	MaxFiles      int
	ReportBucket  string
	PresignExpiry int64
}

// InsightService extracts insights from uploaded files.
type InsightService interface {
	AnalyzeFiles(ctx context.Context, input *InsightInput) (*domain.InsightBatch, error)
}

type insightService struct {
	pipe     *pipeline.Pipeline
	resolver port.ClientResolver
	storage  port.ObjectStorage // nil disables report upload
	history  *recorder
	cfg      InsightConfig
	log      *zap.Logger
}

// NewInsightService creates a new InsightService implementation.
func NewInsightService(
	pipe *pipeline.Pipeline,
	resolver port.ClientResolver,
	storage port.ObjectStorage,
	repo port.AnalysisRecordRepository,
	cfg InsightConfig,
	log *zap.Logger,
) InsightService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &insightService{
		pipe:     pipe,
		resolver: resolver,
		storage:  storage,
		history:  newRecorder(repo, log),
		cfg:      cfg,
		log:      log,
	}
}

func (s *insightService) AnalyzeFiles(ctx context.Context, input *InsightInput) (*domain.InsightBatch, error) {
	if len(input.Files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if s.cfg.MaxFiles > 0 && len(input.Files) > s.cfg.MaxFiles {
		return nil, fmt.Errorf("%d files, limit %d: %w", len(input.Files), s.cfg.MaxFiles, domain.ErrTooManyFiles)
	}

	analysisType, err := domain.ParseAnalysisType(input.AnalysisType)
	if err != nil {
		return nil, err
	}
	client, err := s.resolver.Completion(input.APIKey)
	if err != nil {
		return nil, err
	}
	instructions := prompt.AnalysisInstructions(analysisType, input.CustomPrompt)

	results := make([]domain.InsightResult, len(input.Files))
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i := range input.Files {
		file := input.Files[i]
		g.Go(func() error {
			results[i] = s.analyzeOne(ctx, client, &file, instructions, input.Model)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &domain.InsightBatch{
		Results: results,
		Summary: summarizeInsights(results),
		Report:  report.InsightsText(results),
	}
	batch.ReportURL = s.uploadReport(ctx, batch.Report)

	s.log.Info("insights run complete",
		zap.String("analysis_type", string(analysisType)),
		zap.Int("files", batch.Summary.FilesAnalyzed),
		zap.Int("successful", batch.Summary.Successful),
		zap.Int("total_tokens", batch.Summary.TotalTokens))
	return batch, nil
}

func (s *insightService) analyzeOne(ctx context.Context, client port.CompletionClient, file *domain.UploadedFile, instructions, model string) domain.InsightResult {
	result := domain.InsightResult{FileName: file.Name}

	res, err := s.pipe.Run(ctx, client, pipeline.Request{
		File:   file,
		Policy: s.cfg.Policy,
		Build: func(src domain.ExtractedDocument, doc domain.PreparedDocument) port.CompletionRequest {
			return port.CompletionRequest{
				Model:       model,
				System:      prompt.InsightSystem,
				Messages:    []port.Message{{Role: string(domain.ChatRoleUser), Text: prompt.Insight(src.FileName, instructions, doc.Text)}},
				MaxTokens:   insightMaxTokens,
				Temperature: insightTemperature,
			}
		},
	})
	if res != nil {
		result.Truncated = res.Prepared.Truncated
		result.Warning = res.Warning()
		result.EstimatedTokens = res.Advisory.EstimatedTokens
	}
	if err != nil {
		s.log.Warn("insight analysis failed", zap.String("file", file.Name), zap.Error(err))
		result.Error = err.Error()
		s.history.record(ctx, domain.AnalysisRecord{
			Tool:      domain.ToolInsights,
			FileName:  file.Name,
			Model:     model,
			Truncated: result.Truncated,
			Summary:   summarize(result.Error, 200),
		})
		return result
	}

	result.Insights = res.Completion.Text
	result.TokensUsed = res.Completion.TotalTokens
	if html, err := response.RenderMarkdown(result.Insights); err == nil {
		result.InsightsHTML = html
	} else {
		s.log.Debug("rendering insights failed", zap.String("file", file.Name), zap.Error(err))
	}

	s.history.record(ctx, domain.AnalysisRecord{
		Tool:       domain.ToolInsights,
		FileName:   file.Name,
		Model:      res.Completion.Model,
		Truncated:  result.Truncated,
		TokensUsed: result.TokensUsed,
		Succeeded:  true,
		Summary:    summarize(result.Insights, 200),
	})
	return result
}

func summarizeInsights(results []domain.InsightResult) domain.InsightSummary {
	sum := domain.InsightSummary{FilesAnalyzed: len(results)}
	for _, r := range results {
		if r.Error == "" {
			sum.Successful++
		}
		sum.TotalTokens += r.TokensUsed
	}
	return sum
}

// uploadReport stores the combined report and returns a presigned link, or ""
// when storage is disabled or the upload fails. A report that cannot be
// presigned is removed again.
func (s *insightService) uploadReport(ctx context.Context, text string) string {
	if s.storage == nil || s.cfg.ReportBucket == "" {
		return ""
	}
	key := fmt.Sprintf("reports/insights/%s.txt", uuid.New())
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.ReportBucket,
		Key:         key,
		Body:        strings.NewReader(text),
		ContentType: "text/plain; charset=utf-8",
		Size:        int64(len(text)),
	})
	if err != nil {
		s.log.Warn("uploading insights report failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	url, err := s.storage.GetPresignedURL(ctx, s.cfg.ReportBucket, key, s.cfg.PresignExpiry)
	if err != nil {
		s.log.Warn("presigning insights report failed", zap.String("key", key), zap.Error(err))
		if derr := s.storage.Delete(ctx, s.cfg.ReportBucket, key); derr != nil {
			s.log.Warn("removing unlinked insights report failed", zap.String("key", key), zap.Error(derr))
		}
		return ""
	}
	return url
}
