package domain

import "strings"

// FileType represents the file formats the tools can extract text from.
type FileType string

const (
	FileTypeTXT  FileType = "txt"
	FileTypeMD   FileType = "md"
	FileTypeCSV  FileType = "csv"
	FileTypeJSON FileType = "json"
	FileTypeXLSX FileType = "xlsx"
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeMSG  FileType = "msg"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"txt":  FileTypeTXT,
	"md":   FileTypeMD,
	"csv":  FileTypeCSV,
	"json": FileTypeJSON,
	"xlsx": FileTypeXLSX,
	"pdf":  FileTypePDF,
	"docx": FileTypeDOCX,
	"msg":  FileTypeMSG,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// ImageContentTypes maps image FileTypes to their MIME content type.
var ImageContentTypes = map[FileType]string{
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AnalysisType selects the instruction block used by the insights tool.
type AnalysisType string

const (
	AnalysisGeneral AnalysisType = "general"
	AnalysisData    AnalysisType = "data"
	AnalysisSummary AnalysisType = "summary"
	AnalysisCustom  AnalysisType = "custom"
)

// ParseAnalysisType accepts both the short identifiers and the display labels
// ("General Insights", "Data Analysis", ...). Empty input means general.
func ParseAnalysisType(s string) (AnalysisType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general", "general insights":
		return AnalysisGeneral, nil
	case "data", "data analysis":
		return AnalysisData, nil
	case "summary", "document summary":
		return AnalysisSummary, nil
	case "custom", "custom analysis":
		return AnalysisCustom, nil
	default:
		return "", ErrInvalidAnalysisType
	}
}

// Tool identifies which tool produced an analysis record.
type Tool string

const (
	ToolInsights   Tool = "insights"
	ToolQuality    Tool = "quality"
	ToolCategorize Tool = "categorize"
	ToolAvatar     Tool = "avatar"
	ToolStock      Tool = "stock"
)

// ValidTools lists the tools that are recorded in the analysis history.
var ValidTools = map[Tool]bool{
	ToolInsights:   true,
	ToolQuality:    true,
	ToolCategorize: true,
}

// MessageCategory is the classification assigned to a business message.
type MessageCategory string

const (
	CategoryReporting MessageCategory = "Reporting anfragen"
	CategoryTax       MessageCategory = "Steuer anfragen"
)

// ChatRole is the speaker of a chat turn.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)
