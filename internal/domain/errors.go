package domain

import "errors"

var (
	ErrInvalidPolicy       = errors.New("size policy max_characters must be positive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrTooManyFiles        = errors.New("too many files in one request")
	ErrNoFiles             = errors.New("no files provided")
	ErrExtractionFailed    = errors.New("could not extract text from file")
	ErrEmptyDocument       = errors.New("document contains no text")
	ErrMissingAPIKey       = errors.New("language model API key is required")
	ErrInvalidAnalysisType = errors.New("invalid analysis type")
	ErrNoCriteria          = errors.New("at least one quality criterion is required")
	ErrEmptyQuery          = errors.New("query must not be empty")
	ErrLLMUnavailable      = errors.New("language model request failed")
	ErrLLMRateLimited      = errors.New("language model rate limited")
	ErrInvalidTool         = errors.New("invalid tool")
)
