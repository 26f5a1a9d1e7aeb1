// Package extractor turns uploaded files into plain text for prompting.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"docinsight/internal/domain"
)

// Extractor converts file bytes into text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(data []byte) (string, error)

func (f ExtractorFunc) Extract(data []byte) (string, error) {
	return f(data)
}

// Config tunes the built-in extractors.
type Config struct {
	MaxPDFPages int
	PreviewRows int
}

// Registry dispatches extraction by file extension.
type Registry struct {
	extractors map[domain.FileType]Extractor
}

// NewRegistry creates a Registry with extractors for every text-bearing file type.
func NewRegistry(cfg Config) *Registry {
	if cfg.MaxPDFPages <= 0 {
		cfg.MaxPDFPages = 10
	}
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = 10
	}
	r := &Registry{extractors: map[domain.FileType]Extractor{}}
	r.Register(domain.FileTypeTXT, ExtractorFunc(extractPlainText))
	r.Register(domain.FileTypeMD, ExtractorFunc(extractPlainText))
	r.Register(domain.FileTypeJSON, ExtractorFunc(extractJSON))
	r.Register(domain.FileTypeCSV, &csvExtractor{previewRows: cfg.PreviewRows})
	r.Register(domain.FileTypeXLSX, &xlsxExtractor{previewRows: cfg.PreviewRows})
	r.Register(domain.FileTypePDF, &pdfExtractor{maxPages: cfg.MaxPDFPages})
	r.Register(domain.FileTypeDOCX, ExtractorFunc(extractDOCX))
	r.Register(domain.FileTypeMSG, ExtractorFunc(extractMSG))
	return r
}

// Register sets the extractor for a file type, replacing any existing one.
func (r *Registry) Register(ft domain.FileType, e Extractor) {
	r.extractors[ft] = e
}

// Supports reports whether fileName has an extension the registry can extract.
func (r *Registry) Supports(fileName string) bool {
	ft, ok := FileTypeOf(fileName)
	if !ok {
		return false
	}
	_, ok = r.extractors[ft]
	return ok
}

// Extract picks the extractor for fileName's extension and runs it.
func (r *Registry) Extract(fileName string, data []byte) (domain.ExtractedDocument, error) {
	ft, ok := FileTypeOf(fileName)
	if !ok {
		return domain.ExtractedDocument{}, fmt.Errorf("%s: %w", fileName, domain.ErrUnsupportedFileType)
	}
	e, ok := r.extractors[ft]
	if !ok {
		return domain.ExtractedDocument{}, fmt.Errorf("%s: %w", fileName, domain.ErrUnsupportedFileType)
	}

	text, err := e.Extract(data)
	if err != nil {
		return domain.ExtractedDocument{}, fmt.Errorf("%s: %w: %v", fileName, domain.ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.ExtractedDocument{}, fmt.Errorf("%s: %w", fileName, domain.ErrEmptyDocument)
	}

	return domain.ExtractedDocument{
		FileName: fileName,
		FileType: ft,
		Text:     text,
	}, nil
}

// FileTypeOf maps a file name's extension to a FileType.
func FileTypeOf(fileName string) (domain.FileType, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	ft, ok := domain.AllowedExtensions[ext]
	return ft, ok
}
