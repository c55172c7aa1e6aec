// File: internal/locator/engine.go
package locator

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/dom"
)

// Engine resolves a natural language target description against a parsed
// document into a verified, unique XPath locator. It holds no mutable state:
// a single Engine may serve concurrent resolutions against shared documents,
// and identical inputs always produce identical results.
type Engine struct {
	logger        *zap.Logger
	maxAlternates int
}

// NewEngine builds an Engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger, maxAlternates int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAlternates <= 0 {
		maxAlternates = 5
	}
	return &Engine{logger: logger.Named("engine"), maxAlternates: maxAlternates}
}

// ResolveHTML parses the HTML and resolves the description against it. The
// error return covers only unusable input (dom.ErrParse); resolution
// failures are reported inside the result.
func (e *Engine) ResolveHTML(html, description, typeHint string) (schemas.ResolutionResult, error) {
	doc, err := dom.Parse(html)
	if err != nil {
		return schemas.ResolutionResult{}, err
	}
	return e.Resolve(doc, description, typeHint), nil
}

// AnalyzeStructure parses the HTML and returns its structure summary.
func (e *Engine) AnalyzeStructure(html string) (schemas.DocumentSummary, error) {
	doc, err := dom.Parse(html)
	if err != nil {
		return schemas.DocumentSummary{}, err
	}
	return doc.Summary(), nil
}

// Resolve runs the full resolution flow: locate target elements, generate
// candidates, filter to unique ones, select the best survivor. Terminal
// failures come back as values, never as panics or errors.
func (e *Engine) Resolve(doc *dom.Document, description, typeHint string) schemas.ResolutionResult {
	targets := e.locateTargets(doc, description, typeHint)
	if len(targets) == 0 {
		e.logger.Debug("No element matched description",
			zap.String("description", description), zap.String("type_hint", typeHint))
		return schemas.ResolutionResult{
			Success: false,
			Reason:  schemas.ReasonTargetNotFound,
		}
	}

	var (
		survivors []*Candidate
		attempted []schemas.AttemptedStrategy
	)
	for _, el := range targets {
		for _, cand := range Generate(el) {
			// Generated expressions are well formed by construction, so a
			// verification error here is a programming bug, not an input
			// problem. Skip the candidate rather than fail the request.
			if err := Verify(doc, cand); err != nil {
				e.logger.Warn("Generated candidate failed verification",
					zap.String("expression", cand.Expression), zap.Error(err))
				continue
			}
			attempted = append(attempted, schemas.AttemptedStrategy{
				Strategy:   cand.Strategy,
				Expression: cand.Expression,
				MatchCount: cand.MatchCount,
				Verdict:    cand.Verdict,
			})
			if cand.Verdict != schemas.VerdictUnique {
				continue
			}
			sound, err := MatchesSource(doc, cand)
			if err != nil || !sound {
				continue
			}
			cand.Confidence = Score(cand)
			survivors = append(survivors, cand)
		}
	}

	if len(survivors) == 0 {
		e.logger.Debug("Every candidate was ambiguous or matched nothing",
			zap.String("description", description), zap.Int("attempted", len(attempted)))
		return schemas.ResolutionResult{
			Success:   false,
			Reason:    schemas.ReasonNoUniqueLocator,
			Attempted: attempted,
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool { return less(survivors[i], survivors[j]) })

	winner := survivors[0].Schema()
	alternates := make([]schemas.Candidate, 0, e.maxAlternates)
	for _, c := range survivors[1:] {
		if len(alternates) == e.maxAlternates {
			break
		}
		alternates = append(alternates, c.Schema())
	}

	e.logger.Debug("Resolved locator",
		zap.String("expression", winner.Expression),
		zap.String("strategy", string(winner.Strategy)),
		zap.Float64("confidence", winner.Confidence))

	return schemas.ResolutionResult{
		Success:    true,
		Candidate:  &winner,
		Alternates: alternates,
		Attempted:  attempted,
	}
}

// VerifyExternal funnels an externally supplied expression (e.g. an AI
// suggestion) through the same verification and scoring as rule based
// candidates. The strategy is classified from the expression shape; the
// confidence sits at the middle of that strategy's band since there is no
// source value to judge. The expression is never trusted without this check.
func (e *Engine) VerifyExternal(doc *dom.Document, expr string) (schemas.Candidate, error) {
	cand := &Candidate{
		Expression: expr,
		Strategy:   classifyExpression(expr),
		predicates: predicateCount(expr),
	}
	if err := Verify(doc, cand); err != nil {
		return schemas.Candidate{}, err
	}
	if cand.Verdict == schemas.VerdictUnique {
		b := bands[cand.Strategy]
		cand.Confidence = round4(b.lo + 0.5*(b.hi-b.lo))
	}
	return cand.Schema(), nil
}

// -- target location --

// structuralTags never match a target description directly; they carry no
// user-visible meaning.
var structuralTags = map[string]bool{
	"html": true, "head": true, "body": true, "script": true,
	"style": true, "meta": true, "link": true, "title": true,
	"br": true, "hr": true, "noscript": true,
}

// tagHints maps description words to the element tags they imply.
var tagHints = map[string][]string{
	"button":   {"button", "input"},
	"link":     {"a"},
	"anchor":   {"a"},
	"input":    {"input", "textarea"},
	"field":    {"input", "textarea", "select"},
	"textbox":  {"input", "textarea"},
	"checkbox": {"input"},
	"radio":    {"input"},
	"dropdown": {"select"},
	"select":   {"select"},
	"image":    {"img"},
	"heading":  {"h1", "h2", "h3", "h4", "h5", "h6"},
	"form":     {"form"},
	"table":    {"table"},
}

// locateTargets matches the description against element text and attribute
// values (case insensitive substring), plus tag hints inferred from the
// description and the explicit type hint. When hint-tagged elements are among
// the matches, they are preferred over the rest.
func (e *Engine) locateTargets(doc *dom.Document, description, typeHint string) []*dom.Element {
	terms := tokenize(description)

	hinted := make(map[string]bool)
	for _, t := range terms {
		for _, tag := range tagHints[t] {
			hinted[tag] = true
		}
	}
	typeHint = strings.ToLower(strings.TrimSpace(typeHint))
	if typeHint != "" {
		hinted[typeHint] = true
	}

	matched := doc.Find(func(el *dom.Element) bool {
		if structuralTags[el.Tag] {
			return false
		}
		if typeHint != "" && el.Tag != typeHint {
			return false
		}
		if matchesTerms(el, terms) {
			return true
		}
		return len(terms) > 0 && hinted[el.Tag] && matchesHintOnly(el, terms)
	})

	if len(hinted) == 0 {
		return matched
	}

	// Tag hint preference: when any match carries a hinted tag, drop the
	// rest.
	var preferred []*dom.Element
	for _, el := range matched {
		if hinted[el.Tag] {
			preferred = append(preferred, el)
		}
	}
	if len(preferred) > 0 {
		return preferred
	}
	return matched
}

// matchesTerms reports whether any description term is a substring of the
// element's direct text or of one of its attribute values.
func matchesTerms(el *dom.Element, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	text := strings.ToLower(el.Text)
	for _, term := range terms {
		if text != "" && strings.Contains(text, term) {
			return true
		}
		for _, name := range el.AttrNames {
			if strings.Contains(strings.ToLower(el.Attrs[name]), term) {
				return true
			}
		}
	}
	return false
}

// matchesHintOnly accepts an element on its tag hint alone, but only when the
// description carries no term beyond the hint words themselves. "button"
// should find any button; "Submit button" should not find every button on the
// page.
func matchesHintOnly(el *dom.Element, terms []string) bool {
	for _, term := range terms {
		if len(tagHints[term]) == 0 {
			return false
		}
	}
	return true
}

// tokenize lower-cases the description and splits it into alphanumeric
// terms, dropping single characters.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	var out []string
	for _, f := range fields {
		if len(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

// classifyExpression infers the strategy kind of an externally supplied
// expression from its shape, for banding purposes.
func classifyExpression(expr string) schemas.Strategy {
	lower := strings.ToLower(expr)
	switch {
	case strings.Contains(lower, " and "):
		return schemas.StrategyCombined
	case strings.Contains(lower, "@id"):
		return schemas.StrategyID
	case strings.Contains(lower, "@name"):
		return schemas.StrategyName
	case strings.Contains(lower, "@class"):
		return schemas.StrategyClass
	case strings.Contains(lower, "text()"):
		return schemas.StrategyText
	default:
		return schemas.StrategyPositional
	}
}
