package report

import (
	"fmt"
	"strings"

	"docinsight/internal/domain"
)

var insightSeparator = "\n\n" + strings.Repeat("=", 50) + "\n\n"

// InsightsText renders every file's insights as one plain-text document.
// Failed files are listed with their error.
func InsightsText(results []domain.InsightResult) string {
	entries := make([]string, 0, len(results))
	for _, r := range results {
		body := r.Insights
		if r.Error != "" {
			body = "Error: " + r.Error
		}
		entry := fmt.Sprintf("File: %s\n\nInsights:\n%s", r.FileName, body)
		if r.Warning != "" {
			entry += "\n\nNote: " + r.Warning
		}
		entries = append(entries, entry)
	}
	return strings.Join(entries, insightSeparator)
}
