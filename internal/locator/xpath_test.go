// File: internal/locator/xpath_test.go
package locator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/forceps-cli/internal/dom"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"plain", "submit", `'submit'`},
		{"empty", "", `''`},
		{"double quote only", `say "hi"`, `'say "hi"'`},
		{"single quote only", "it's here", `"it's here"`},
		{"both quote kinds", `it's "here"`, `concat('it', "'", 's "here"')`},
		{"leading single quote", `'start`, `concat("'", 'start')`},
		{"trailing single quote", `end'`, `concat('end', "'")`},
		{"only a single quote", `'`, `"'"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Literal(tt.value))
		})
	}
}

// The escaping round-trip property: a value containing both quote kinds must
// produce an expression that evaluates back to exactly the source element.
func TestLiteralRoundTrip(t *testing.T) {
	values := []string{
		`it's a "mixed" value`,
		`'leading`,
		`trailing'`,
		`"double" only`,
		`no quotes at all`,
		`'"`,
	}

	for i, v := range values {
		t.Run(fmt.Sprintf("value_%d", i), func(t *testing.T) {
			// Entity-escape the value so it survives the HTML attribute
			// round trip intact.
			escaped := strings.NewReplacer("&", "&amp;", `"`, "&quot;").Replace(v)
			html := fmt.Sprintf(`<html><body><div data-label="%s">x</div></body></html>`, escaped)
			doc, err := dom.Parse(html)
			require.NoError(t, err)

			expr := fmt.Sprintf("//div[@data-label=%s]", Literal(v))
			require.NoError(t, dom.ValidateExpression(expr), "expression must not be broken by quote collision: %s", expr)

			n, err := doc.CountMatches(expr)
			require.NoError(t, err)
			assert.Equal(t, 1, n, "expression %s must select exactly the carrying element", expr)
		})
	}
}

func TestPredicateCount(t *testing.T) {
	assert.Equal(t, 0, predicateCount("//div"))
	assert.Equal(t, 1, predicateCount("//div[@id='x']"))
	assert.Equal(t, 2, predicateCount("//input[@name='q' and @type='text']"))
	assert.Equal(t, 1, predicateCount("//div[2]"))
	assert.Equal(t, 1, predicateCount("(//div)[2]"))
}