// File: internal/locator/generator.go
package locator

import (
	"strings"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/dom"
)

// Candidate is a generated locator tied to the element it was derived from.
// Verdict and MatchCount are zero until the candidate has been through the
// verifier.
type Candidate struct {
	Expression string
	Strategy   schemas.Strategy
	Confidence float64
	Source     *dom.Element
	MatchCount int
	Verdict    schemas.Verdict

	// scoreValue is the attribute or text value whose distinctiveness drives
	// the in-band confidence adjustment.
	scoreValue string
	predicates int
}

// Schema converts the candidate to its wire representation.
func (c *Candidate) Schema() schemas.Candidate {
	return schemas.Candidate{
		Expression: c.Expression,
		Strategy:   c.Strategy,
		Confidence: c.Confidence,
		MatchCount: c.MatchCount,
		Verdict:    c.Verdict,
	}
}

// Generate produces every applicable strategy candidate for the element, in
// strategy priority order. It never returns an empty slice: an element with
// no usable attributes still yields a positional candidate.
func Generate(el *dom.Element) []*Candidate {
	var out []*Candidate

	add := func(strategy schemas.Strategy, expr, scoreValue string) {
		out = append(out, &Candidate{
			Expression: expr,
			Strategy:   strategy,
			Source:     el,
			scoreValue: scoreValue,
			predicates: predicateCount(expr),
		})
	}

	if v := el.Attr("id"); v != "" {
		add(schemas.StrategyID, attrExpr(el.Tag, "id", v), v)
	}
	if v := el.Attr("name"); v != "" {
		add(schemas.StrategyName, attrExpr(el.Tag, "name", v), v)
	}
	if v := el.Attr("class"); v != "" {
		// Full class string, not per token. Per-token matches trade too much
		// uniqueness for stability.
		add(schemas.StrategyClass, attrExpr(el.Tag, "class", v), v)
	}
	if expr, ok := textCandidate(el); ok {
		add(schemas.StrategyText, expr, el.Text)
	}
	if a, av, b, bv, ok := combinedPair(el); ok {
		add(schemas.StrategyCombined, twoAttrExpr(el.Tag, a, av, b, bv), av+" "+bv)
	}

	// Positional fallback, always present. The root is the only parentless
	// element; anchor it on absolute document order instead of a sibling
	// index.
	if el.Parent == nil {
		add(schemas.StrategyPositional, absolutePositionalExpr(el.Tag, 1), "")
	} else {
		pos, _ := el.SiblingPosition()
		add(schemas.StrategyPositional, positionalExpr(el.Tag, pos), "")
	}

	return out
}

// textCandidate builds the TEXT strategy expression when it can be done
// soundly. The locator value is the trimmed direct text; the expression form
// depends on how far the raw text node is from that value:
//
//   - a single text node equal to the trimmed value uses text()=
//   - a single text node differing only by surrounding whitespace uses
//     normalize-space(text())=
//
// Elements with multiple direct text nodes, or with internal whitespace that
// normalize-space would collapse, get no TEXT candidate at all; a candidate
// that cannot match its own source element is worse than none.
func textCandidate(el *dom.Element) (string, bool) {
	v := el.Text
	nodes := el.DirectTextNodes()
	if v == "" || len(nodes) != 1 {
		return "", false
	}
	raw := nodes[0]
	if raw == v {
		return textExpr(el.Tag, v), true
	}
	if strings.Join(strings.Fields(v), " ") == v {
		return normalizedTextExpr(el.Tag, v), true
	}
	return "", false
}

// combinedPair picks the two most distinguishing non-id attributes for the
// COMBINED strategy: name+type when both are present, then class+type, then
// the first two non-id attributes in source order.
func combinedPair(el *dom.Element) (a, av, b, bv string, ok bool) {
	var nonID []string
	for _, name := range el.AttrNames {
		if name == "id" || el.Attrs[name] == "" {
			continue
		}
		nonID = append(nonID, name)
	}
	if len(nonID) < 2 {
		return "", "", "", "", false
	}

	if el.HasAttr("name") && el.HasAttr("type") {
		return "name", el.Attr("name"), "type", el.Attr("type"), true
	}
	if el.HasAttr("class") && el.HasAttr("type") {
		return "class", el.Attr("class"), "type", el.Attr("type"), true
	}
	return nonID[0], el.Attrs[nonID[0]], nonID[1], el.Attrs[nonID[1]], true
}
