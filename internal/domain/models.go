package domain

import (
	"time"

	"github.com/google/uuid"
)

// SizePolicy bounds how much extracted text is forwarded to the language model.
// MaxCharacters is enforced; MaxTokens is advisory and only drives warnings.
type SizePolicy struct {
	MaxCharacters int `json:"max_characters"`
	MaxTokens     int `json:"max_tokens"`
}

// PreparedDocument is text that is safe to embed in a prompt.
type PreparedDocument struct {
	Text          string `json:"text"`
	Truncated     bool   `json:"truncated"`
	OriginalChars int    `json:"original_chars"`
}

// SizeAdvisory is the best-effort size measurement of prepared text.
type SizeAdvisory struct {
	EstimatedTokens    int  `json:"estimated_tokens"`
	ExceedsTokenBudget bool `json:"exceeds_token_budget"`
}

// ExtractedDocument is the text pulled out of an uploaded file.
type ExtractedDocument struct {
	FileName string   `json:"file_name"`
	FileType FileType `json:"file_type"`
	Text     string   `json:"-"`
}

// UploadedFile is a file received from the caller, fully read into memory.
type UploadedFile struct {
	Name string
	Data []byte
}

// InsightResult is the analysis of a single uploaded file.
type InsightResult struct {
	FileName        string `json:"file_name"`
	Insights        string `json:"insights"`
	InsightsHTML    string `json:"insights_html,omitempty"`
	TokensUsed      int    `json:"tokens_used"`
	EstimatedTokens int    `json:"estimated_tokens"`
	Truncated       bool   `json:"truncated"`
	Warning         string `json:"warning,omitempty"`
	Error           string `json:"error,omitempty"`
}

// InsightSummary aggregates a batch of InsightResults.
type InsightSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	Successful    int `json:"successful"`
	TotalTokens   int `json:"total_tokens"`
}

// InsightBatch is the response of one insights run.
type InsightBatch struct {
	Results   []InsightResult `json:"results"`
	Summary   InsightSummary  `json:"summary"`
	Report    string          `json:"report"`
	ReportURL string          `json:"report_url,omitempty"`
}

// CriterionScore is the model's judgement for one quality criterion.
type CriterionScore struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// QualityReport is the structured result of the quality scorer.
type QualityReport struct {
	FileName        string           `json:"file_name"`
	OverallScore    float64          `json:"overall_score"`
	Summary         string           `json:"summary"`
	Criteria        []CriterionScore `json:"criteria"`
	Suggestions     []string         `json:"suggestions"`
	Truncated       bool             `json:"truncated"`
	EstimatedTokens int              `json:"estimated_tokens"`
	Warning         string           `json:"warning,omitempty"`
	TokensUsed      int              `json:"tokens_used"`
	Malformed       bool             `json:"malformed"`
	Raw             string           `json:"raw,omitempty"`
}

// CategoryResult is the classification of one message file.
type CategoryResult struct {
	FileName       string          `json:"filename"`
	Category       MessageCategory `json:"category"`
	Confidence     float64         `json:"confidence"`
	ContentPreview string          `json:"content_preview"`
	Fallback       bool            `json:"fallback"`
}

// AvatarResult is a generated avatar image.
type AvatarResult struct {
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64,omitempty"`
	FileName    string `json:"file_name"`
}

// ChatMessage is one turn of a caller-owned conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// StockAnswer is the reply to a stock question plus the updated history.
type StockAnswer struct {
	Symbol     string        `json:"symbol"`
	Answer     string        `json:"answer"`
	AnswerHTML string        `json:"answer_html,omitempty"`
	History    []ChatMessage `json:"history"`
	TokensUsed int           `json:"tokens_used"`
	Trimmed    bool          `json:"trimmed"`
}

// AnalysisRecord is the persisted trace of one tool run.
type AnalysisRecord struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Tool       Tool      `db:"tool" json:"tool"`
	FileName   string    `db:"file_name" json:"file_name"`
	Model      string    `db:"model" json:"model"`
	Truncated  bool      `db:"truncated" json:"truncated"`
	TokensUsed int       `db:"tokens_used" json:"tokens_used"`
	Succeeded  bool      `db:"succeeded" json:"succeeded"`
	Summary    string    `db:"summary" json:"summary"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
