// Package preparer bounds extracted document text before it is embedded in a
// prompt. Truncation prefers a natural boundary (sentence end or line break)
// near the end of the allowance and falls back to a hard cut.
package preparer

import (
	"strings"
	"unicode/utf8"

	"docinsight/internal/domain"
)

// boundaryFloor is the fraction of MaxCharacters a natural boundary must reach
// to be used instead of the hard cut.
const boundaryFloor = 0.8

// TruncationWarning is the notice shown to the end user when Prepare shortened
// the document.
const TruncationWarning = "document was truncated; analysis reflects only the beginning of the original text"

// Prepare returns text no longer than policy.MaxCharacters characters (runes).
func Prepare(text string, policy domain.SizePolicy) (domain.PreparedDocument, error) {
	if policy.MaxCharacters <= 0 {
		return domain.PreparedDocument{}, domain.ErrInvalidPolicy
	}

	total := utf8.RuneCountInString(text)
	if total <= policy.MaxCharacters {
		return domain.PreparedDocument{Text: text, OriginalChars: total}, nil
	}

	candidate := runePrefix(text, policy.MaxCharacters)
	cut := candidate

	if boundary := lastBoundary(candidate); boundary >= 0 &&
		float64(boundary) >= boundaryFloor*float64(policy.MaxCharacters) {
		cut = runePrefix(candidate, boundary+1)
	}

	return domain.PreparedDocument{
		Text:          cut,
		Truncated:     true,
		OriginalChars: total,
	}, nil
}

// Assess reports the advisory size of text under policy.
func Assess(text string, policy domain.SizePolicy, est Estimator) domain.SizeAdvisory {
	n := est.EstimateSize(text)
	return domain.SizeAdvisory{
		EstimatedTokens:    n,
		ExceedsTokenBudget: policy.MaxTokens > 0 && n > policy.MaxTokens,
	}
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// lastBoundary returns the rune offset of the last '.' or '\n' in s, or -1.
func lastBoundary(s string) int {
	byteIdx := strings.LastIndexAny(s, ".\n")
	if byteIdx < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:byteIdx])
}
