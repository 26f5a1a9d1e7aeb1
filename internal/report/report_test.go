package report_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/domain"
	"docinsight/internal/report"
)

func TestWriteCategoryCSV(t *testing.T) {
	results := []domain.CategoryResult{
		{FileName: "a.msg", Category: domain.CategoryReporting, Confidence: 0.85, ContentPreview: "Subject: KPI, Q3"},
		{FileName: "b.msg", Category: domain.CategoryTax, Confidence: 0.6, ContentPreview: "Subject: Finanzamt", Fallback: true},
	}
	var buf bytes.Buffer

	require.NoError(t, report.WriteCategoryCSV(&buf, results))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, report.BOM))

	rows, err := csv.NewReader(bytes.NewReader(raw[len(report.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Filename", "Category", "Confidence", "Content Preview", "Fallback"}, rows[0])
	assert.Equal(t, []string{"a.msg", "Reporting anfragen", "0.85", "Subject: KPI, Q3", "No"}, rows[1])
	assert.Equal(t, []string{"b.msg", "Steuer anfragen", "0.60", "Subject: Finanzamt", "Yes"}, rows[2])
}

func TestWriteCategoryCSV_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteCategoryCSV(&buf, nil))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(report.BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Q3_report_final", report.SanitizeFilename("Q3 report (final)!"))
	assert.Equal(t, "a-b_c", report.SanitizeFilename("__a-b___c__"))
	assert.Len(t, report.SanitizeFilename(strings.Repeat("x", 150)), 100)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "categories_2026-03-09.csv", report.BuildFilename("categories", "csv", now))
}

func TestInsightsText(t *testing.T) {
	text := report.InsightsText([]domain.InsightResult{
		{FileName: "a.txt", Insights: "Alpha"},
		{FileName: "b.pdf", Error: "extraction failed"},
		{FileName: "c.md", Insights: "Gamma", Warning: "document was truncated"},
	})

	sep := "\n\n" + strings.Repeat("=", 50) + "\n\n"
	parts := strings.Split(text, sep)
	require.Len(t, parts, 3)
	assert.Equal(t, "File: a.txt\n\nInsights:\nAlpha", parts[0])
	assert.Equal(t, "File: b.pdf\n\nInsights:\nError: extraction failed", parts[1])
	assert.Equal(t, "File: c.md\n\nInsights:\nGamma\n\nNote: document was truncated", parts[2])
}

func TestInsightsText_Empty(t *testing.T) {
	assert.Empty(t, report.InsightsText(nil))
}
