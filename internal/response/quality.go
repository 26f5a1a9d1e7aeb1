// Package response turns raw model replies into the structured results each tool returns.
package response

import (
	"encoding/json"
	"strings"

	"docinsight/internal/domain"
)

const (
	minScore = 0
	maxScore = 10
)

type qualityPayload struct {
	OverallScore float64 `json:"overall_score"`
	Summary      string  `json:"summary"`
	Criteria     []struct {
		Name     string  `json:"name"`
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	} `json:"criteria"`
	Suggestions []string `json:"suggestions"`
}

// ParseQualityReport decodes the scorer's JSON reply. Code fences and text
// around the outermost object are ignored. A reply that still does not decode
// yields a report with Malformed set and the reply kept in Raw.
func ParseQualityReport(text string) domain.QualityReport {
	obj, ok := extractObject(text)
	if !ok {
		return malformed(text)
	}

	var p qualityPayload
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return malformed(text)
	}

	report := domain.QualityReport{
		OverallScore: clampScore(p.OverallScore),
		Summary:      strings.TrimSpace(p.Summary),
		Criteria:     make([]domain.CriterionScore, 0, len(p.Criteria)),
		Suggestions:  make([]string, 0, len(p.Suggestions)),
	}
	for _, c := range p.Criteria {
		report.Criteria = append(report.Criteria, domain.CriterionScore{
			Name:     strings.TrimSpace(c.Name),
			Score:    clampScore(c.Score),
			Feedback: strings.TrimSpace(c.Feedback),
		})
	}
	for _, s := range p.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			report.Suggestions = append(report.Suggestions, s)
		}
	}
	return report
}

func malformed(text string) domain.QualityReport {
	return domain.QualityReport{
		Criteria:    []domain.CriterionScore{},
		Suggestions: []string{},
		Malformed:   true,
		Raw:         text,
	}
}

// extractObject returns the span from the first '{' to the last '}'.
func extractObject(text string) (string, bool) {
	s := stripFences(text)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

func clampScore(v float64) float64 {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
