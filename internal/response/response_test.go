package response_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/domain"
	"docinsight/internal/response"
)

func TestParseQualityReport_PlainJSON(t *testing.T) {
	r := response.ParseQualityReport(`{"overall_score": 7.5, "summary": " Solid. ", "criteria": [{"name": "Clarity", "score": 8, "feedback": "clear"}], "suggestions": ["Add sources", " "]}`)

	assert.False(t, r.Malformed)
	assert.Equal(t, 7.5, r.OverallScore)
	assert.Equal(t, "Solid.", r.Summary)
	require.Len(t, r.Criteria, 1)
	assert.Equal(t, domain.CriterionScore{Name: "Clarity", Score: 8, Feedback: "clear"}, r.Criteria[0])
	assert.Equal(t, []string{"Add sources"}, r.Suggestions)
	assert.Empty(t, r.Raw)
}

func TestParseQualityReport_CodeFenceAndChatter(t *testing.T) {
	reply := "Here is the evaluation:\n```json\n{\"overall_score\": 6, \"summary\": \"ok\"}\n```"

	r := response.ParseQualityReport(reply)

	assert.False(t, r.Malformed)
	assert.Equal(t, 6.0, r.OverallScore)
	assert.Equal(t, "ok", r.Summary)
}

func TestParseQualityReport_FencedOnly(t *testing.T) {
	r := response.ParseQualityReport("```\n{\"overall_score\": 4}\n```")

	assert.False(t, r.Malformed)
	assert.Equal(t, 4.0, r.OverallScore)
}

func TestParseQualityReport_ClampsScores(t *testing.T) {
	r := response.ParseQualityReport(`{"overall_score": 14, "criteria": [{"name": "a", "score": -2}]}`)

	assert.Equal(t, 10.0, r.OverallScore)
	assert.Equal(t, 0.0, r.Criteria[0].Score)
}

func TestParseQualityReport_Malformed(t *testing.T) {
	for _, reply := range []string{
		"I cannot score this document.",
		`{"overall_score": "seven"}`,
		`{"overall_score": 7`,
		"",
	} {
		r := response.ParseQualityReport(reply)

		assert.True(t, r.Malformed, reply)
		assert.Equal(t, reply, r.Raw)
		assert.NotNil(t, r.Criteria)
		assert.NotNil(t, r.Suggestions)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		reply   string
		cat     domain.MessageCategory
		conf    float64
		guessed bool
	}{
		{"Reporting anfragen|0.85", domain.CategoryReporting, 0.85, false},
		{" Steuer anfragen | 0.9 ", domain.CategoryTax, 0.9, false},
		{`"steuer anfragen"|1.7`, domain.CategoryTax, 1, false},
		{"Das ist eine Reporting Anfrage", domain.CategoryReporting, response.GuessConfidence, true},
		{"Unklar", domain.CategoryTax, response.GuessConfidence, true},
		{"Marketing|0.9", domain.CategoryTax, response.GuessConfidence, true},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			cat, conf, guessed, err := response.ParseCategory(tt.reply)

			require.NoError(t, err)
			assert.Equal(t, tt.cat, cat)
			assert.InDelta(t, tt.conf, conf, 1e-9)
			assert.Equal(t, tt.guessed, guessed)
		})
	}
}

func TestParseCategory_UnreadableConfidence(t *testing.T) {
	for _, reply := range []string{"Reporting anfragen|hoch", "Steuer anfragen|", "Marketing|n/a"} {
		t.Run(reply, func(t *testing.T) {
			_, _, _, err := response.ParseCategory(reply)

			assert.ErrorIs(t, err, response.ErrUnreadableConfidence)
		})
	}
}

func TestKeywordCategory(t *testing.T) {
	assert.Equal(t, domain.CategoryTax, response.KeywordCategory("Brief vom FINANZAMT"))
	assert.Equal(t, domain.CategoryTax, response.KeywordCategory("Umsatzsteuer Q3"))
	assert.Equal(t, domain.CategoryTax, response.KeywordCategory("tax return"))
	assert.Equal(t, domain.CategoryReporting, response.KeywordCategory("Bitte das KPI Dashboard"))
}

func TestRenderMarkdown(t *testing.T) {
	html, err := response.RenderMarkdown("## Key Points\n\n- one\n- **two**\n\n<script>alert(1)</script>")

	require.NoError(t, err)
	assert.Contains(t, html, "<h2>Key Points</h2>")
	assert.Contains(t, html, "<li><strong>two</strong></li>")
	assert.NotContains(t, html, "<script>")
}
