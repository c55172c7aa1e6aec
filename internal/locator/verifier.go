// File: internal/locator/verifier.go
package locator

import (
	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/dom"
)

// Verify evaluates the candidate's expression against the document and fills
// in its verdict and match count. The only error condition is a syntactically
// malformed expression (dom.ErrInvalidExpression); matching nothing is the
// NoMatch verdict, not an error.
func Verify(doc *dom.Document, c *Candidate) error {
	count, err := doc.CountMatches(c.Expression)
	if err != nil {
		return err
	}
	c.MatchCount = count
	switch {
	case count == 0:
		c.Verdict = schemas.VerdictNoMatch
	case count == 1:
		c.Verdict = schemas.VerdictUnique
	default:
		c.Verdict = schemas.VerdictAmbiguous
	}
	return nil
}

// MatchesSource reports whether the candidate's expression includes its own
// source element among its matches. Generated candidates are constructed so
// this holds; the check guards the selection path against any candidate,
// internal or external, that fails its own element.
func MatchesSource(doc *dom.Document, c *Candidate) (bool, error) {
	if c.Source == nil {
		// External candidates have no source element; uniqueness alone
		// decides their fate.
		return true, nil
	}
	matches, err := doc.Matches(c.Expression)
	if err != nil {
		return false, err
	}
	for _, el := range matches {
		if el == c.Source {
			return true, nil
		}
	}
	return false, nil
}
