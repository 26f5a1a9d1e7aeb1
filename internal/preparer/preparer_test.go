package preparer_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/preparer"
)

func policy(maxChars int) domain.SizePolicy {
	return domain.SizePolicy{MaxCharacters: maxChars}
}

func TestPrepare_ShortTextUnchanged(t *testing.T) {
	text := "A short document. With two sentences."

	got, err := preparer.Prepare(text, policy(100))

	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
	assert.False(t, got.Truncated)
	assert.Equal(t, utf8.RuneCountInString(text), got.OriginalChars)
}

func TestPrepare_ExactLengthUnchanged(t *testing.T) {
	text := strings.Repeat("x", 50)

	got, err := preparer.Prepare(text, policy(50))

	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
	assert.False(t, got.Truncated)
}

func TestPrepare_EmptyInput(t *testing.T) {
	got, err := preparer.Prepare("", policy(10))

	require.NoError(t, err)
	assert.Equal(t, "", got.Text)
	assert.False(t, got.Truncated)
}

func TestPrepare_CutsAtSentenceBoundary(t *testing.T) {
	text := strings.Repeat("A", 100) + ". " + strings.Repeat("B", 50)

	got, err := preparer.Prepare(text, policy(120))

	require.NoError(t, err)
	assert.True(t, got.Truncated)
	assert.Equal(t, strings.Repeat("A", 100)+".", got.Text)
	assert.Equal(t, 152, got.OriginalChars)
}

func TestPrepare_CutsAtNewlineWhenLater(t *testing.T) {
	text := strings.Repeat("A", 90) + "." + strings.Repeat("B", 10) + "\n" + strings.Repeat("C", 50)

	got, err := preparer.Prepare(text, policy(120))

	require.NoError(t, err)
	assert.True(t, got.Truncated)
	assert.Equal(t, strings.Repeat("A", 90)+"."+strings.Repeat("B", 10)+"\n", got.Text)
}

func TestPrepare_HardCutWithoutBoundary(t *testing.T) {
	text := strings.Repeat("z", 200)

	got, err := preparer.Prepare(text, policy(50))

	require.NoError(t, err)
	assert.True(t, got.Truncated)
	assert.Equal(t, strings.Repeat("z", 50), got.Text)
}

func TestPrepare_HardCutWhenBoundaryTooEarly(t *testing.T) {
	// boundary at offset 10 is far below 80% of 100
	text := strings.Repeat("a", 10) + "." + strings.Repeat("b", 200)

	got, err := preparer.Prepare(text, policy(100))

	require.NoError(t, err)
	assert.True(t, got.Truncated)
	assert.Equal(t, 100, utf8.RuneCountInString(got.Text))
	assert.Equal(t, text[:100], got.Text)
}

func TestPrepare_BoundaryExactlyAtFloor(t *testing.T) {
	// max 100: floor is 80, the '.' sits at offset 80
	text := strings.Repeat("a", 80) + "." + strings.Repeat("b", 100)

	got, err := preparer.Prepare(text, policy(100))

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 80)+".", got.Text)
}

func TestPrepare_BoundaryJustBelowFloor(t *testing.T) {
	text := strings.Repeat("a", 79) + "." + strings.Repeat("b", 100)

	got, err := preparer.Prepare(text, policy(100))

	require.NoError(t, err)
	assert.Equal(t, 100, utf8.RuneCountInString(got.Text))
}

func TestPrepare_MultiByteCharactersCountedAsRunes(t *testing.T) {
	text := strings.Repeat("ü", 30) + "。" + strings.Repeat("é", 30)

	got, err := preparer.Prepare(text, policy(40))

	require.NoError(t, err)
	assert.True(t, got.Truncated)
	assert.True(t, utf8.ValidString(got.Text))
	assert.Equal(t, 40, utf8.RuneCountInString(got.Text))
}

func TestPrepare_InvalidPolicy(t *testing.T) {
	for _, max := range []int{0, -1, -100} {
		_, err := preparer.Prepare("anything", policy(max))
		assert.ErrorIs(t, err, domain.ErrInvalidPolicy)
	}
}

func TestPrepare_NeverExceedsLimit(t *testing.T) {
	texts := []string{
		strings.Repeat("Sentence one. ", 40),
		strings.Repeat("line\n", 80),
		strings.Repeat("word ", 100),
		"Ends with a dot." + strings.Repeat("x", 300),
	}
	for _, text := range texts {
		for _, max := range []int{1, 2, 5, 17, 64, 99, 250} {
			got, err := preparer.Prepare(text, policy(max))
			require.NoError(t, err)
			assert.LessOrEqual(t, utf8.RuneCountInString(got.Text), max)
			assert.Equal(t, utf8.RuneCountInString(text) > max, got.Truncated)
			assert.True(t, strings.HasPrefix(text, got.Text))
		}
	}
}

func TestPrepare_Idempotent(t *testing.T) {
	texts := []string{
		strings.Repeat("A", 100) + ". " + strings.Repeat("B", 50),
		strings.Repeat("no boundary ", 30),
		"short",
	}
	p := policy(120)
	for _, text := range texts {
		first, err := preparer.Prepare(text, p)
		require.NoError(t, err)
		second, err := preparer.Prepare(first.Text, p)
		require.NoError(t, err)
		assert.Equal(t, first.Text, second.Text)
		assert.False(t, second.Truncated)
	}
}

func TestHeuristicEstimator(t *testing.T) {
	est := preparer.HeuristicEstimator{}

	assert.Equal(t, 0, est.EstimateSize(""))
	assert.Equal(t, 1, est.EstimateSize("abc"))
	assert.Equal(t, 1, est.EstimateSize("abcd"))
	assert.Equal(t, 2, est.EstimateSize("abcde"))
	assert.Equal(t, 25, est.EstimateSize(strings.Repeat("x", 100)))

	prev := 0
	for i := 0; i < 64; i++ {
		n := est.EstimateSize(strings.Repeat("y", i))
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func TestNewEstimator_AlwaysUsable(t *testing.T) {
	// Falls back to the heuristic when the encoding cannot be loaded.
	est := preparer.NewEstimator("not-a-real-encoding-or-model", zap.NewNop())
	require.NotNil(t, est)
	assert.Greater(t, est.EstimateSize("some text to measure"), 0)
	assert.Equal(t, 0, est.EstimateSize(""))
}

func TestAssess(t *testing.T) {
	est := preparer.HeuristicEstimator{}
	text := strings.Repeat("x", 400)

	within := preparer.Assess(text, domain.SizePolicy{MaxCharacters: 1000, MaxTokens: 100}, est)
	assert.Equal(t, 100, within.EstimatedTokens)
	assert.False(t, within.ExceedsTokenBudget)

	over := preparer.Assess(text, domain.SizePolicy{MaxCharacters: 1000, MaxTokens: 99}, est)
	assert.True(t, over.ExceedsTokenBudget)

	unbounded := preparer.Assess(text, domain.SizePolicy{MaxCharacters: 1000}, est)
	assert.False(t, unbounded.ExceedsTokenBudget)
}
