// File: internal/locator/xpath.go
package locator

import (
	"fmt"
	"strings"
)

// Literal embeds a string value into an XPath expression without breaking its
// syntax. Values free of single quotes use single quoting, values free of
// double quotes use double quoting, and values containing both are assembled
// with concat() so the candidate can never be broken by quote collision.
func Literal(v string) string {
	hasSingle := strings.Contains(v, "'")
	hasDouble := strings.Contains(v, `"`)

	switch {
	case !hasSingle:
		return "'" + v + "'"
	case !hasDouble:
		return `"` + v + `"`
	}

	// Both quote kinds present. Split on single quotes and stitch the pieces
	// back together, emitting each quote as a double-quoted fragment.
	parts := strings.Split(v, "'")
	args := make([]string, 0, len(parts)*2-1)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	if len(args) == 1 {
		return args[0]
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

// attrExpr builds //tag[@name='value'].
func attrExpr(tag, name, value string) string {
	return fmt.Sprintf("//%s[@%s=%s]", tag, name, Literal(value))
}

// twoAttrExpr builds //tag[@a='v1' and @b='v2'].
func twoAttrExpr(tag, a, av, b, bv string) string {
	return fmt.Sprintf("//%s[@%s=%s and @%s=%s]", tag, a, Literal(av), b, Literal(bv))
}

// textExpr builds //tag[text()='value'].
func textExpr(tag, value string) string {
	return fmt.Sprintf("//%s[text()=%s]", tag, Literal(value))
}

// normalizedTextExpr builds //tag[normalize-space(text())='value'], used when
// the element's text node only differs from the locator value by surrounding
// whitespace.
func normalizedTextExpr(tag, value string) string {
	return fmt.Sprintf("//%s[normalize-space(text())=%s]", tag, Literal(value))
}

// positionalExpr builds //tag[N] for the Nth same-tag sibling.
func positionalExpr(tag string, pos int) string {
	return fmt.Sprintf("//%s[%d]", tag, pos)
}

// absolutePositionalExpr builds (//tag)[N], selecting the Nth occurrence of
// the tag in document order. Used when the element has no parent to anchor a
// sibling index on.
func absolutePositionalExpr(tag string, pos int) string {
	return fmt.Sprintf("(//%s)[%d]", tag, pos)
}

// predicateCount estimates the number of predicates in an expression, used as
// the first tie-breaker between equal-confidence candidates.
func predicateCount(expr string) int {
	n := strings.Count(expr, "[")
	if n == 0 {
		return 0
	}
	return n + strings.Count(expr, " and ")
}
