// File: internal/locator/scorer.go
package locator

import (
	"math"
	"strings"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
)

// band is the fixed confidence range for a strategy. Scores always land
// inside the band; the distinctiveness of the underlying value decides where.
type band struct {
	lo, hi float64
}

var bands = map[schemas.Strategy]band{
	schemas.StrategyID:         {0.9, 1.0},
	schemas.StrategyName:       {0.7, 0.9},
	schemas.StrategyClass:      {0.5, 0.7},
	schemas.StrategyText:       {0.3, 0.5},
	schemas.StrategyCombined:   {0.6, 0.8},
	schemas.StrategyPositional: {0.0, 0.3},
}

// genericTokens are value fragments that carry almost no identifying power.
// A value built from these scores at the low end of its band.
var genericTokens = map[string]bool{
	"btn":       true,
	"button":    true,
	"item":      true,
	"row":       true,
	"col":       true,
	"box":       true,
	"div":       true,
	"span":      true,
	"text":      true,
	"link":      true,
	"label":     true,
	"field":     true,
	"input":     true,
	"form":      true,
	"main":      true,
	"content":   true,
	"container": true,
	"wrapper":   true,
	"icon":      true,
	"img":       true,
	"element":   true,
	"value":     true,
	"data":      true,
}

// Score assigns the candidate its confidence: the strategy's base band,
// adjusted within the band by how distinctive the underlying value is. The
// function is pure; identical candidates always score identically.
func Score(c *Candidate) float64 {
	b, ok := bands[c.Strategy]
	if !ok {
		return 0
	}

	var d float64
	if c.Strategy == schemas.StrategyPositional {
		// No attribute value to judge. A positional locator is as fragile as
		// its sibling set is large.
		_, count := c.Source.SiblingPosition()
		d = 1.0 / float64(1+count)
	} else {
		d = distinctiveness(c.scoreValue)
	}

	return round4(b.lo + d*(b.hi-b.lo))
}

// distinctiveness maps a value to [0,1]: longer values score higher, values
// containing generic tokens are penalized.
func distinctiveness(v string) float64 {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return 0
	}

	var d float64
	switch n := len(v); {
	case n >= 12:
		d = 0.6
	case n >= 6:
		d = 0.4
	case n >= 3:
		d = 0.2
	default:
		d = 0.1
	}

	if !containsGenericToken(v) {
		d += 0.4
	}
	if d > 1 {
		d = 1
	}
	return d
}

// containsGenericToken splits the value on common separators and reports
// whether any fragment is a known generic token.
func containsGenericToken(v string) bool {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case '-', '_', ' ', '.', ':', '/':
			return true
		}
		return false
	})
	for _, f := range fields {
		if genericTokens[f] {
			return true
		}
	}
	return false
}

// round4 keeps scores stable across platforms so identical inputs serialize
// byte-identically.
func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

// less orders candidates best-first: higher confidence, then fewer
// predicates, then stronger strategy, then earlier source element in document
// order. This is the complete tie-break chain; it leaves no pair of distinct
// candidates unordered, which keeps selection deterministic.
func less(a, b *Candidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.predicates != b.predicates {
		return a.predicates < b.predicates
	}
	if ap, bp := a.Strategy.Priority(), b.Strategy.Priority(); ap != bp {
		return ap < bp
	}
	if a.Source != nil && b.Source != nil && a.Source.Index != b.Source.Index {
		return a.Source.Index < b.Source.Index
	}
	return a.Expression < b.Expression
}
