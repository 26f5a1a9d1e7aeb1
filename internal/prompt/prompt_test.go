package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"docinsight/internal/domain"
	"docinsight/internal/prompt"
)

func TestAnalysisInstructions(t *testing.T) {
	assert.Contains(t, prompt.AnalysisInstructions(domain.AnalysisGeneral, ""), "Main themes and patterns")
	assert.Contains(t, prompt.AnalysisInstructions(domain.AnalysisData, ""), "Anomalies or outliers")
	assert.Contains(t, prompt.AnalysisInstructions(domain.AnalysisSummary, ""), "Executive summary")
	assert.Equal(t, "List every date", prompt.AnalysisInstructions(domain.AnalysisCustom, "  List every date "))
}

func TestAnalysisInstructions_CustomWithoutTextFallsBackToGeneral(t *testing.T) {
	assert.Equal(t,
		prompt.AnalysisInstructions(domain.AnalysisGeneral, ""),
		prompt.AnalysisInstructions(domain.AnalysisCustom, "   "))
}

func TestInsight(t *testing.T) {
	p := prompt.Insight("report.csv", "Summarize", "a,b\n1,2")

	assert.True(t, strings.HasPrefix(p, "File: report.csv\n"))
	assert.Contains(t, p, "Analysis Request: Summarize")
	assert.Contains(t, p, "File Content:\na,b\n1,2")
}

func TestQuality_ListsCriteria(t *testing.T) {
	p := prompt.Quality("essay.docx", []string{"Clarity", "Grammar"}, "body")

	assert.Contains(t, p, "1. Clarity\n2. Grammar\n")
	assert.Contains(t, p, `"overall_score"`)
	assert.True(t, strings.HasSuffix(p, "Document: essay.docx\n\nbody"))
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, "Kategorisiere diese Nachricht:\n\nSubject: x", prompt.Categorize("Subject: x"))
	assert.Contains(t, prompt.CategorizeSystem, string(domain.CategoryReporting))
	assert.Contains(t, prompt.CategorizeSystem, string(domain.CategoryTax))
}

func TestAvatarAndStock(t *testing.T) {
	assert.Contains(t, prompt.Avatar("red hair, glasses"), "based on this description: red hair, glasses")
	assert.Contains(t, prompt.StockSystem("aapl"), "AAPL")
}
