package response

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"docinsight/internal/domain"
)

const (
	// GuessConfidence is assigned when the reply is not in "category|confidence" form.
	GuessConfidence = 0.5
	// KeywordConfidence is assigned when the model failed or its reply was unusable.
	KeywordConfidence = 0.6
)

// ErrUnreadableConfidence means the reply had the "category|confidence" shape
// but the confidence is not a number.
var ErrUnreadableConfidence = errors.New("unreadable category confidence")

var taxKeywords = []string{"steuer", "tax", "abgabe", "finanzamt"}

// ParseCategory reads a "category|confidence" reply. When the reply has any
// other shape the category is guessed from the word "reporting" and the
// confidence is GuessConfidence; guessed reports true in that case. A
// two-part reply whose confidence does not parse yields ErrUnreadableConfidence.
func ParseCategory(text string) (category domain.MessageCategory, confidence float64, guessed bool, err error) {
	reply := strings.TrimSpace(text)
	parts := strings.Split(reply, "|")
	if len(parts) == 2 {
		conf, perr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if perr != nil {
			return "", 0, false, fmt.Errorf("%w: %q", ErrUnreadableConfidence, strings.TrimSpace(parts[1]))
		}
		if cat, ok := knownCategory(parts[0]); ok {
			return cat, clampConfidence(conf), false, nil
		}
	}
	if strings.Contains(strings.ToLower(reply), "reporting") {
		return domain.CategoryReporting, GuessConfidence, true, nil
	}
	return domain.CategoryTax, GuessConfidence, true, nil
}

// KeywordCategory classifies message content without a model: any tax keyword
// means a tax request, anything else a reporting request.
func KeywordCategory(content string) domain.MessageCategory {
	lower := strings.ToLower(content)
	for _, kw := range taxKeywords {
		if strings.Contains(lower, kw) {
			return domain.CategoryTax
		}
	}
	return domain.CategoryReporting
}

func knownCategory(s string) (domain.MessageCategory, bool) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	switch {
	case strings.EqualFold(s, string(domain.CategoryReporting)):
		return domain.CategoryReporting, true
	case strings.EqualFold(s, string(domain.CategoryTax)):
		return domain.CategoryTax, true
	}
	return "", false
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
