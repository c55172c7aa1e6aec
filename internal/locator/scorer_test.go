// File: internal/locator/scorer_test.go
package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/dom"
)

func scored(strategy schemas.Strategy, value string) float64 {
	return Score(&Candidate{Strategy: strategy, scoreValue: value})
}

func TestScoreStaysInsideBand(t *testing.T) {
	values := []string{"", "x", "btn", "email", "submit-btn", "primary-navigation-toggle"}

	for strategy, b := range bands {
		if strategy == schemas.StrategyPositional {
			continue
		}
		for _, v := range values {
			s := scored(strategy, v)
			assert.GreaterOrEqual(t, s, b.lo, "%s score for %q below band", strategy, v)
			assert.LessOrEqual(t, s, b.hi, "%s score for %q above band", strategy, v)
		}
	}
}

func TestScoreBandOrdering(t *testing.T) {
	// With the same underlying value, strategy bands keep their relative
	// order: ID > NAME > COMBINED > CLASS > TEXT.
	v := "customer-email"
	id := scored(schemas.StrategyID, v)
	name := scored(schemas.StrategyName, v)
	combined := scored(schemas.StrategyCombined, v)
	class := scored(schemas.StrategyClass, v)
	text := scored(schemas.StrategyText, v)

	assert.Greater(t, id, name)
	assert.Greater(t, name, combined)
	assert.Greater(t, combined, class)
	assert.Greater(t, class, text)
}

func TestScoreDistinctiveness(t *testing.T) {
	// Longer, non-generic values place higher within the band.
	assert.Greater(t,
		scored(schemas.StrategyID, "customer-billing-address"),
		scored(schemas.StrategyID, "cba"))

	// A generic token drags the value to the low end.
	assert.Greater(t,
		scored(schemas.StrategyClass, "checkout"),
		scored(schemas.StrategyClass, "btn"))
	assert.Greater(t,
		scored(schemas.StrategyClass, "pricing-tier"),
		scored(schemas.StrategyClass, "content-row"))
}

func TestScoreGenericTokenDetection(t *testing.T) {
	tests := []struct {
		value   string
		generic bool
	}{
		{"btn", true},
		{"submit-btn", true},
		{"nav_item", true},
		{"main content", true},
		{"checkout", false},
		{"submitted", false}, // "btn" only matches whole fragments
		{"buttonish", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.generic, containsGenericToken(tt.value), "value %q", tt.value)
	}
}

func TestScorePositionalUsesSiblingCount(t *testing.T) {
	doc, err := dom.Parse(`
		<html><body>
			<div><span>lonely</span></div>
			<ul><li>a</li><li>b</li><li>c</li><li>d</li></ul>
		</body></html>`)
	require.NoError(t, err)

	span := doc.Find(func(el *dom.Element) bool { return el.Tag == "span" })[0]
	li := doc.Find(func(el *dom.Element) bool { return el.Tag == "li" })[0]

	lone := Score(&Candidate{Strategy: schemas.StrategyPositional, Source: span})
	crowded := Score(&Candidate{Strategy: schemas.StrategyPositional, Source: li})

	assert.Greater(t, lone, crowded, "a positional locator among many siblings is more fragile")
	assert.LessOrEqual(t, lone, 0.3)
	assert.GreaterOrEqual(t, crowded, 0.0)
}

func TestScoreIsDeterministic(t *testing.T) {
	c := &Candidate{Strategy: schemas.StrategyID, scoreValue: "submit-btn"}
	first := Score(c)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(c))
	}
}

func TestScoreRoundsToFourDecimals(t *testing.T) {
	assert.Equal(t, 0.1235, round4(0.123456))
	assert.Equal(t, 0.1, round4(0.1))
}

func TestLessTieBreakChain(t *testing.T) {
	el := func(idx int) *dom.Element { return &dom.Element{Index: idx} }

	tests := []struct {
		name string
		a, b *Candidate
	}{
		{
			"higher confidence wins",
			&Candidate{Confidence: 0.9},
			&Candidate{Confidence: 0.7},
		},
		{
			"fewer predicates wins at equal confidence",
			&Candidate{Confidence: 0.7, predicates: 1},
			&Candidate{Confidence: 0.7, predicates: 2},
		},
		{
			"stronger strategy wins next",
			&Candidate{Confidence: 0.7, predicates: 1, Strategy: schemas.StrategyID},
			&Candidate{Confidence: 0.7, predicates: 1, Strategy: schemas.StrategyName},
		},
		{
			"earlier document order wins next",
			&Candidate{Confidence: 0.7, predicates: 1, Strategy: schemas.StrategyID, Source: el(3)},
			&Candidate{Confidence: 0.7, predicates: 1, Strategy: schemas.StrategyID, Source: el(9)},
		},
		{
			"expression string is the final tie break",
			&Candidate{Confidence: 0.7, predicates: 1, Strategy: schemas.StrategyID, Source: el(3), Expression: "//a"},
			&Candidate{Confidence: 0.7, predicates: 1, Strategy: schemas.StrategyID, Source: el(3), Expression: "//b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, less(tt.a, tt.b))
			assert.False(t, less(tt.b, tt.a))
		})
	}
}