package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/extractor"
	"docinsight/internal/pipeline"
	"docinsight/internal/port"
	"docinsight/internal/prompt"
	"docinsight/internal/response"
)

const (
	categorizeMaxTokens   = 50
	categorizeTemperature = 0.1
	previewChars          = 200
)

// CategorizeInput is the DTO for categorizing a batch of .msg files.
type CategorizeInput struct {
	Files  []domain.UploadedFile
	Model  string
	APIKey string
}

// CategorizeConfig holds categorizer settings.
type CategorizeConfig struct {
	Policy   domain.SizePolicy
	MaxFiles int
}

// CategorizeService sorts Outlook messages into business categories.
type CategorizeService interface {
	Categorize(ctx context.Context, input *CategorizeInput) ([]domain.CategoryResult, error)
}

type categorizeService struct {
	pipe     *pipeline.Pipeline
	resolver port.ClientResolver
	history  *recorder
	cfg      CategorizeConfig
	log      *zap.Logger
}

// NewCategorizeService creates a new CategorizeService implementation.
func NewCategorizeService(
	pipe *pipeline.Pipeline,
	resolver port.ClientResolver,
	repo port.AnalysisRecordRepository,
	cfg CategorizeConfig,
	log *zap.Logger,
) CategorizeService {
	return &categorizeService{
		pipe:     pipe,
		resolver: resolver,
		history:  newRecorder(repo, log),
		cfg:      cfg,
		log:      log,
	}
}

func (s *categorizeService) Categorize(ctx context.Context, input *CategorizeInput) ([]domain.CategoryResult, error) {
	if len(input.Files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if s.cfg.MaxFiles > 0 && len(input.Files) > s.cfg.MaxFiles {
		return nil, fmt.Errorf("%d files, limit %d: %w", len(input.Files), s.cfg.MaxFiles, domain.ErrTooManyFiles)
	}
	for _, f := range input.Files {
		if ft, _ := extractor.FileTypeOf(f.Name); ft != domain.FileTypeMSG {
			return nil, fmt.Errorf("%s is not a .msg file: %w", f.Name, domain.ErrUnsupportedFileType)
		}
	}
	client, err := s.resolver.Completion(input.APIKey)
	if err != nil {
		return nil, err
	}

	results := make([]domain.CategoryResult, 0, len(input.Files))
	for i := range input.Files {
		r, err := s.categorizeOne(ctx, client, &input.Files[i], input.Model)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *categorizeService) categorizeOne(ctx context.Context, client port.CompletionClient, file *domain.UploadedFile, model string) (domain.CategoryResult, error) {
	res, err := s.pipe.Run(ctx, client, pipeline.Request{
		File:   file,
		Policy: s.cfg.Policy,
		Build: func(_ domain.ExtractedDocument, doc domain.PreparedDocument) port.CompletionRequest {
			return port.CompletionRequest{
				Model:       model,
				System:      prompt.CategorizeSystem,
				Messages:    []port.Message{{Role: string(domain.ChatRoleUser), Text: prompt.Categorize(doc.Text)}},
				MaxTokens:   categorizeMaxTokens,
				Temperature: categorizeTemperature,
			}
		},
	})
	if res == nil {
		return domain.CategoryResult{}, fmt.Errorf("processing %s: %w", file.Name, err)
	}
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return domain.CategoryResult{}, err
	}

	result := domain.CategoryResult{
		FileName:       file.Name,
		ContentPreview: preview(res.Source.Text, previewChars),
	}
	rec := domain.AnalysisRecord{
		Tool:      domain.ToolCategorize,
		FileName:  file.Name,
		Model:     model,
		Truncated: res.Prepared.Truncated,
	}

	if err == nil {
		rec.Model = res.Completion.Model
		rec.TokensUsed = res.Completion.TotalTokens
		result.Category, result.Confidence, result.Fallback, err = response.ParseCategory(res.Completion.Text)
		rec.Succeeded = err == nil
	}
	if err != nil {
		s.log.Warn("categorization fell back to keywords", zap.String("file", file.Name), zap.Error(err))
		result.Category = response.KeywordCategory(res.Source.Text)
		result.Confidence = response.KeywordConfidence
		result.Fallback = true
	}

	rec.Summary = fmt.Sprintf("%s|%.2f", result.Category, result.Confidence)
	s.history.record(ctx, rec)
	return result, nil
}

// preview returns the first n characters of text, with "..." appended when
// anything was cut.
func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
